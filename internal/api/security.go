package api

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename removes potentially dangerous characters and path components
// from a filename to prevent path traversal attacks.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	// Windows-style separators survive filepath.Base on unix.
	if idx := strings.LastIndex(filename, "\\"); idx != -1 {
		filename = filename[idx+1:]
	}

	var sanitized strings.Builder
	for _, r := range filename {
		if r >= 32 && r != 127 && r != '/' && r != '\\' && r != ':' && r != '*' && r != '?' && r != '"' && r != '<' && r != '>' && r != '|' {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if result == "" || result == "." || result == ".." {
		return "unnamed_file"
	}

	result = strings.Trim(result, ". ")

	if len(result) > 255 {
		ext := filepath.Ext(result)
		name := strings.TrimSuffix(result, ext)
		maxNameLen := 255 - len(ext)
		if maxNameLen > 0 && len(name) > maxNameLen {
			name = name[:maxNameLen]
		}
		result = name + ext
	}

	if result == "" {
		return "unnamed_file"
	}

	return result
}

// resolve joins a client-supplied file name to dir. An empty name stays
// empty so the component reports it as missing.
func resolve(dir, name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(dir, SanitizeFilename(name))
}
