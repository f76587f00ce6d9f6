package archive

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalidRoot indicates the configured root path is not usable
var ErrInvalidRoot = errors.New("invalid source root path")

// NormalizeRoot cleans a configured root path and rejects relative paths.
// Roots must be absolute so that pack state survives working-directory changes.
func NormalizeRoot(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrInvalidRoot
	}
	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		return "", ErrInvalidRoot
	}
	return cleaned, nil
}

// RootToID converts an absolute root path to a filesystem-safe root ID.
// The ID is used for directory names and index references.
//
// Examples:
//   - /home/user/src/project -> home_user_src_project
//   - /srv/code -> srv_code
func RootToID(root string) string {
	return sanitizeForFilesystem(root)
}

// RootIDToDisplay converts a root ID back to a display format.
// This is the inverse of RootToID (approximately).
//
// Examples:
//   - home_user_src_project -> /home/user/src/project
func RootIDToDisplay(rootID string) string {
	if rootID == "" {
		return rootID
	}
	return "/" + strings.ReplaceAll(rootID, "_", "/")
}

// DisplayToRootID converts a display path to a root ID.
func DisplayToRootID(display string) string {
	return sanitizeForFilesystem(display)
}

// sanitizeForFilesystem converts a path to a filesystem-safe format.
func sanitizeForFilesystem(s string) string {
	s = strings.Trim(s, "/")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "@", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
