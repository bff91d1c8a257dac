package usecase

import "strings"

// ExclusionFilter decides whether a path is left out of the backup.
// Matching is plain path-prefix containment, no globbing.
type ExclusionFilter struct {
	prefixes []string
	sep      byte
}

// NewExclusionFilter builds a filter from configured exclusion prefixes.
// Empty entries are dropped; the rest are cleaned so that trailing
// separators do not defeat the boundary check.
func NewExclusionFilter(fs FileSystemPort, locations []string) *ExclusionFilter {
	sep := fs.PathSeparator()
	prefixes := make([]string, 0, len(locations))
	for _, loc := range locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		cleaned := trimTrailingSeparators(fs, fs.Clean(loc))
		if cleaned == "" {
			continue
		}
		prefixes = append(prefixes, cleaned)
	}
	return &ExclusionFilter{prefixes: prefixes, sep: sep}
}

// IsExcluded reports whether path equals or is nested under any exclusion prefix.
func (f *ExclusionFilter) IsExcluded(path string) bool {
	for _, prefix := range f.prefixes {
		if path == prefix {
			return true
		}
		if strings.HasPrefix(path, prefix+string(f.sep)) {
			return true
		}
	}
	return false
}
