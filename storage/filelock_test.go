package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestFileLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	first := NewFileLock(path)
	if err := first.Lock(time.Second); err != nil {
		t.Fatalf("first Lock() error = %v", err)
	}

	second := NewFileLock(path)
	if err := second.Lock(30 * time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("second Lock() error = %v, want ErrLockTimeout", err)
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := second.Lock(time.Second); err != nil {
		t.Fatalf("Lock() after Unlock error = %v", err)
	}
	if err := second.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := second.Unlock(); err != nil {
		t.Errorf("second Unlock() error = %v, want nil", err)
	}
}

// A waiter that opened the lock file before the holder released it must not
// end up sharing the lock with a newcomer.
func TestFileLock_HandoverToWaiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	holder := NewFileLock(path)
	if err := holder.Lock(time.Second); err != nil {
		t.Fatalf("holder Lock() error = %v", err)
	}

	waiter := NewFileLock(path)
	acquired := make(chan error, 1)
	go func() {
		acquired <- waiter.Lock(5 * time.Second)
	}()

	// Let the waiter open the current lock file and start polling.
	time.Sleep(50 * time.Millisecond)
	if err := holder.Unlock(); err != nil {
		t.Fatalf("holder Unlock() error = %v", err)
	}

	if err := <-acquired; err != nil {
		t.Fatalf("waiter Lock() error = %v", err)
	}
	defer waiter.Unlock()

	newcomer := NewFileLock(path)
	if err := newcomer.Lock(100 * time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		newcomer.Unlock()
		t.Fatalf("newcomer Lock() error = %v, want ErrLockTimeout while waiter holds the lock", err)
	}
}

func TestWriteJSON_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(path, sampleRecords()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if err := WriteParquet(ParquetPath(path), sampleRecords()); err != nil {
		t.Fatalf("WriteParquet() error = %v", err)
	}

	for _, p := range []string{path, ParquetPath(path)} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0644 {
			t.Errorf("%s mode = %o, want 644", filepath.Base(p), perm)
		}
	}
}
