// Package runlock serializes enrichment runs against a single export tree.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld reports that another run already owns the export tree.
var ErrHeld = errors.New("another skymark run is already processing this export tree")

const lockFileName = ".skymark.lock"

// Lock is a held export-tree lock.
type Lock struct {
	flock *flock.Flock
	path  string
}

// Acquire takes the per-tree lock under exportRoot without blocking and
// returns ErrHeld when a concurrent run owns it.
func Acquire(exportRoot string) (*Lock, error) {
	path := filepath.Join(exportRoot, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lock{flock: fl, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks and removes the lock file. Removal is best effort; a
// stale empty lock file never blocks future runs.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	_ = os.Remove(l.path)
	return nil
}
