package platform

import (
	"path/filepath"
	"strings"
)

// Characters never allowed in output filenames.
const invalidFilenameChars = `<>:"/\|?*`

// DefaultFilename substitutes an empty sanitized name.
const DefaultFilename = "download"

// SanitizeFilename strips any directory component (path-traversal guard),
// replaces filesystem-hostile characters with underscores, collapses repeated
// underscores and trims edge underscores/spaces. An empty result becomes
// DefaultFilename.
func SanitizeFilename(name string) string {
	// Windows-style separators are invalid on every target anyway; normalize
	// them before taking the base so "..\..\x" cannot survive on POSIX.
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "/" {
		return DefaultFilename
	}

	for _, c := range invalidFilenameChars {
		name = strings.ReplaceAll(name, string(c), "_")
	}

	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}

	name = strings.Trim(name, "_ ")
	if name == "" {
		return DefaultFilename
	}
	return name
}
