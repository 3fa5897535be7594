// Package storage persists fetched video records as a JSON array with an
// optional Parquet mirror for fast reloads.
package storage

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common storage conditions.
var (
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
	// ErrUnknownFormat indicates a path whose extension names no record format.
	ErrUnknownFormat = errors.New("storage: unknown record format")
)

// DefaultLockTimeout bounds how long a writer waits for another writer.
const DefaultLockTimeout = 5 * time.Second

// StorageError wraps storage errors with operation and path context.
// Use errors.As() to extract this error type:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Path, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("write json", "read parquet", "lock", ...).
	Op string
	// Path is the file involved.
	Path string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }
