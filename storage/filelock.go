package storage

import (
	"os"
	"time"
)

// FileLock is an advisory cross-process lock held on path + ".lock".
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock for path. Nothing is acquired until Lock.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// Lock polls for an exclusive lock until timeout elapses.
// Returns ErrLockTimeout if another holder keeps it.
func (l *FileLock) Lock(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
		if err != nil {
			return &StorageError{Op: "lock", Path: l.path, Err: err}
		}

		if tryLock(f) == nil {
			if l.current(f) {
				l.file = f
				return nil
			}
			// The previous holder removed the file after we opened it.
			unlock(f)
			f.Close()
			continue
		}
		f.Close()

		if !time.Now().Before(deadline) {
			return &StorageError{Op: "lock", Path: l.path, Err: ErrLockTimeout}
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// current reports whether f is still the file at the lock path.
func (l *FileLock) current(f *os.File) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	return os.SameFile(held, onDisk)
}

// Unlock removes the lock file and releases the lock. The file is removed
// while still locked so a waiter that then locks the old file sees it is
// stale and retries.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	os.Remove(l.path)
	err := unlock(l.file)
	l.file.Close()
	l.file = nil
	return err
}
