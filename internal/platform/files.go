package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Audio container variants the extraction engine may produce when a
// post-processor changes the container after download.
var audioExtensionVariants = []string{".mp3", ".m4a", ".wav", ".webm", ".opus"}

// CreateDirectoryIfNotExists creates the directory and its parents.
func CreateDirectoryIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, DefaultDirPermissions)
	}
	return nil
}

// ResolveDownloadedFile returns the path of a downloaded file, trying audio
// extension variants when the exact path does not exist. Audio extraction may
// rewrite the container, so "audio.mp3" can land as "audio.m4a".
func ResolveDownloadedFile(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range audioExtensionVariants {
		candidate := base + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("downloaded file not found: %s", path)
}
