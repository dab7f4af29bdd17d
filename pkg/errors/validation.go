package errors

import (
	"strings"
	"unicode"
)

// maxAssetPathLength bounds asset references embedded in scripts.
const maxAssetPathLength = 1024

// ValidateAssetPath validates a filesystem reference embedded in a script,
// such as a model file or a sprite texture. The referenced asset itself is
// never opened; only the string is checked so that it survives both the text
// and the binary encoding.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "asset path cannot be empty")
	}

	if len(path) > maxAssetPathLength {
		return New(ErrCodeInvalidPath, "asset path too long (max %d characters)", maxAssetPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "asset path contains invalid characters")
		}
	}

	return nil
}

// ValidateOutputPath validates the destination of a save operation.
// Directories and empty paths are rejected; the extension is optional.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory: %s", path)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "output path contains a null byte")
	}

	return nil
}
