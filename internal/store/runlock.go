package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock guards the persisted state against concurrent runs. Runs are
// serialized externally by the scheduler; the lock exists to fail fast if
// that guarantee is ever violated.
type RunLock struct {
	flk *flock.Flock
}

// AcquireRunLock takes the run-in-progress lock for a data directory,
// returning an error immediately if another run holds it.
func AcquireRunLock(dataDir string) (*RunLock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	flk := flock.New(filepath.Join(dataDir, "run.lock"))
	locked, err := flk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run is already in progress (lock: %s)", flk.Path())
	}
	return &RunLock{flk: flk}, nil
}

// Release drops the lock. Safe to call once the run's final writes are done.
func (l *RunLock) Release() error {
	return l.flk.Unlock()
}
