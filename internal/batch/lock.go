package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// runLock serializes runs against one output tree. Two concurrent runs
// writing the same output directory would race the output-exists check.
type runLock struct {
	f *os.File
}

func acquireLock(outputDir string) (*runLock, error) {
	lockPath := filepath.Join(outputDir, ".docseal.lock")
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	// Try to acquire exclusive lock
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another run is writing to this output directory")
	}

	return &runLock{f: f}, nil
}

func (l *runLock) release() {
	if l.f != nil {
		syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
		l.f.Close()
		l.f = nil
	}
}
