package errors

import (
	"path"
	"strings"
	"unicode"
)

// graphExtensions are the file extensions accepted for graph sources.
var graphExtensions = []string{".dot", ".gv"}

// ValidatePath validates a file path within the graph directory for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(p string) error {
	if p == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(p) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range p {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(p, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(p, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(p, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateGraphFilename validates the filename parameter of a graph request.
// The name must be a safe relative path (see [ValidatePath]) naming a .dot
// or .gv file, and must not point at a hidden file.
func ValidateGraphFilename(filename string) error {
	if err := ValidatePath(filename); err != nil {
		return err
	}

	base := path.Base(filename)
	if strings.HasPrefix(base, ".") {
		return New(ErrCodeInvalidPath, "graph filename cannot be a hidden file")
	}

	ext := strings.ToLower(path.Ext(base))
	for _, want := range graphExtensions {
		if ext == want {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "graph filename must end in .dot or .gv: %q", filename)
}
