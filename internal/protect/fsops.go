package protect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// stageTemp creates an empty temp file next to dest so the final rename
// stays on one filesystem. Callers remove it on failure.
func stageTemp(dest string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(dest), ".seal-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// copyPreserving mirrors src to dest byte-for-byte, carrying over the file
// mode and modification time. The copy lands via temp file + rename so a
// crash mid-copy never leaves a partial file at dest.
func copyPreserving(src, dest string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("failed to stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".seal-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, in)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("copy failed: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move copy into place: %w", err)
	}
	// Timestamps follow the source so the mirror is faithful.
	if err := os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return n, err
	}
	return n, nil
}

// finishStaged moves a fully written temp file onto its final path.
func finishStaged(tmpPath, dest string) error {
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
