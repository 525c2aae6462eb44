package background

import (
	"path/filepath"
	"strings"
)

// SupportedFormats returns the file extensions the default loader decodes.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns a description of the supported files for dialogs.
func FileFilter() string {
	exts := SupportedFormats()
	globs := make([]string, len(exts))
	for i, ext := range exts {
		globs[i] = "*" + ext
	}
	return "Image Files (" + strings.Join(globs, ", ") + ")"
}
