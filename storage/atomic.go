package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const outputPerm os.FileMode = 0644

// atomicFile stages writes in a temp file next to the target and renames it
// into place on commit, so readers never see a half-written file.
type atomicFile struct {
	path string
	tmp  *os.File
}

func createAtomic(path string) (*atomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ytlessons-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	// CreateTemp uses 0600; outputs are ordinary data files.
	if err := tmp.Chmod(outputPerm); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	return &atomicFile{path: path, tmp: tmp}, nil
}

func (a *atomicFile) Write(p []byte) (int, error) {
	return a.tmp.Write(p)
}

// commit syncs the temp file and renames it over the target.
func (a *atomicFile) commit() error {
	if err := a.tmp.Sync(); err != nil {
		a.abort()
		return fmt.Errorf("sync: %w", err)
	}
	if err := a.tmp.Close(); err != nil {
		os.Remove(a.tmp.Name())
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(a.tmp.Name(), a.path); err != nil {
		os.Remove(a.tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (a *atomicFile) abort() {
	a.tmp.Close()
	os.Remove(a.tmp.Name())
}

// writeAtomic runs fn against a staged file and commits it only if fn succeeds.
func writeAtomic(path string, fn func(w io.Writer) error) error {
	f, err := createAtomic(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.abort()
		return err
	}
	return f.commit()
}
