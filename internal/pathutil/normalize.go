package pathutil

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrEscapes reports a relative path that would resolve outside its root.
var ErrEscapes = errors.New("path escapes root")

// Normalize returns a canonical filesystem path string.
// It removes trailing slashes, collapses "." and "..", and
// preserves relative paths when provided.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// DestPath joins a relative path onto root, rejecting anything that
// would land outside root: absolute paths, parent escapes, volume names.
// The mirrored output tree must stay strictly under the output root.
func DestPath(root, rel string) (string, error) {
	rel = filepath.Clean(rel)
	if rel == "" || rel == "." {
		return "", ErrEscapes
	}
	if filepath.IsAbs(rel) {
		return "", ErrEscapes
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrEscapes
	}
	if filepath.VolumeName(rel) != "" {
		return "", ErrEscapes
	}
	return filepath.Join(root, rel), nil
}
