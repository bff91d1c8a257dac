package usecase

import "strings"

// ExpandHomeDirPublic expands ~ and $HOME prefixes in path.
func ExpandHomeDirPublic(path, homeDir string) string {
	return expandHomeDir(path, homeDir)
}

func expandHomeDir(path, homeDir string) string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return clean
	}
	if clean == "~" {
		return homeDir
	}
	if strings.HasPrefix(clean, "~/") {
		return strings.TrimRight(homeDir, "/") + clean[1:]
	}
	if clean == "$HOME" {
		return homeDir
	}
	if strings.HasPrefix(clean, "$HOME/") {
		return strings.TrimRight(homeDir, "/") + clean[len("$HOME"):]
	}
	if clean == "${HOME}" {
		return homeDir
	}
	if strings.HasPrefix(clean, "${HOME}/") {
		return strings.TrimRight(homeDir, "/") + clean[len("${HOME}"):]
	}
	return clean
}

func contractHomeDir(path, homeDir string, sep byte) string {
	if homeDir == "" || path == "" {
		return path
	}
	if path == homeDir {
		return "~"
	}
	prefix := homeDir + string(sep)
	if strings.HasPrefix(path, prefix) {
		return "~" + string(sep) + path[len(prefix):]
	}
	return path
}

func normalizePath(fs FileSystemPort, path, homeDir string) string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return ""
	}
	expanded := expandHomeDir(clean, homeDir)
	cleaned := fs.Clean(expanded)
	if cleaned == "." {
		return ""
	}
	return trimTrailingSeparators(fs, cleaned)
}

func trimTrailingSeparators(fs FileSystemPort, path string) string {
	if path == "" {
		return ""
	}
	sep := fs.PathSeparator()
	if path == string(sep) {
		return path
	}
	volume := fs.VolumeName(path)
	if volume != "" {
		rest := strings.TrimPrefix(path, volume)
		if rest == "" || rest == string(sep) || rest == "/" || rest == "\\" {
			return volume + string(sep)
		}
	}
	return strings.TrimRight(path, "/\\")
}
