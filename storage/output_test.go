package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ytlessons/youtube"
)

func int64Ptr(n int64) *int64 { return &n }

func sampleRecords() []youtube.VideoRecord {
	return []youtube.VideoRecord{
		{
			VideoID:       "abc123",
			Title:         "Café <b>chords</b> & more",
			Description:   "Open chords für Anfänger",
			Tags:          []string{"guitar", "chords"},
			PublishedAt:   "2024-01-02T03:04:05Z",
			ChannelTitle:  "Strings",
			ViewCount:     int64Ptr(1234),
			LikeCount:     int64Ptr(56),
			Duration:      "PT12M3S",
			RawSnippet:    json.RawMessage(`{"title":"Café"}`),
			RawStatistics: json.RawMessage(`{"viewCount":"1234"}`),
			Level:         "beginner",
			Topic:         "Chords",
			LessonLevel:   "beginner",
		},
		{
			VideoID:       "def456",
			Title:         "Hidden likes",
			Tags:          []string{},
			ViewCount:     int64Ptr(9),
			RawSnippet:    json.RawMessage(`{}`),
			RawStatistics: json.RawMessage(`{"viewCount":"9"}`),
			Level:         "unknown",
			Topic:         "Other Topics",
		},
	}
}

func quiet() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestParquetPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data/raw/guitar.json", "data/raw/guitar.parquet"},
		{"out.json", "out.parquet"},
		{"data/raw/guitar", "data/raw/guitar.parquet"},
		{"data.json.bak", "data.json.bak.parquet"},
	}
	for _, tt := range tests {
		if got := ParquetPath(tt.in); got != tt.want {
			t.Errorf("ParquetPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "raw", "out.json")
	records := sampleRecords()

	if err := WriteJSON(path, records); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"Café <b>chords</b> & more", "für Anfänger", "\n  {\n", `"likeCount": null`} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, `"lesson_level"`) != 1 {
		t.Errorf("lesson_level should appear only for the stamped record:\n%s", text)
	}

	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("ReadJSON() returned %d records, want %d", len(got), len(records))
	}
	if got[0].Title != records[0].Title || *got[0].ViewCount != 1234 || got[0].LessonLevel != "beginner" {
		t.Errorf("record 0 = %+v", got[0])
	}
	if got[1].LikeCount != nil || got[1].Tags == nil {
		t.Errorf("record 1 = %+v, want nil likeCount and non-nil tags", got[1])
	}
}

func TestWriteJSON_NilRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := WriteJSON(path, nil); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("WriteJSON(nil) wrote %q, want []", data)
	}

	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ReadJSON() = %v, want empty non-nil slice", got)
	}
}

func TestWriteJSON_LeavesNoTempOrLockFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	for i := 0; i < 2; i++ {
		if err := WriteJSON(path, sampleRecords()); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contains %v, want only out.json", names)
	}
}

func TestWriteJSON_LockTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.json")

	held := NewFileLock(path)
	if err := held.Lock(time.Second); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer held.Unlock()

	err := writeJSON(path, sampleRecords(), 50*time.Millisecond)
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("writeJSON() error = %v, want ErrLockTimeout", err)
	}
	var storErr *StorageError
	if !errors.As(err, &storErr) || storErr.Op != "lock" {
		t.Errorf("error = %v, want *StorageError with Op lock", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("target written while locked, stat error = %v", err)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ReadJSON(missing) error = nil")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"not":"an array"}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadJSON(bad)
	var storErr *StorageError
	if !errors.As(err, &storErr) || storErr.Path != bad {
		t.Errorf("ReadJSON(bad) error = %v, want *StorageError for %s", err, bad)
	}
}

func TestParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	records := sampleRecords()

	if err := WriteParquet(path, records); err != nil {
		t.Fatalf("WriteParquet() error = %v", err)
	}

	got, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet() error = %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("ReadParquet() returned %d records, want %d", len(got), len(records))
	}

	first := got[0]
	if first.VideoID != "abc123" || first.Title != records[0].Title || first.Duration != "PT12M3S" {
		t.Errorf("record 0 = %+v", first)
	}
	if len(first.Tags) != 2 || first.Tags[1] != "chords" {
		t.Errorf("Tags = %v, want [guitar chords]", first.Tags)
	}
	if first.ViewCount == nil || *first.ViewCount != 1234 || first.LikeCount == nil || *first.LikeCount != 56 {
		t.Errorf("counts = %v / %v", first.ViewCount, first.LikeCount)
	}
	if string(first.RawSnippet) != `{"title":"Café"}` {
		t.Errorf("RawSnippet = %s", first.RawSnippet)
	}
	if first.LessonLevel != "beginner" {
		t.Errorf("LessonLevel = %q, want beginner", first.LessonLevel)
	}

	second := got[1]
	if second.LikeCount != nil {
		t.Errorf("LikeCount = %v, want nil", *second.LikeCount)
	}
	if second.Tags == nil || len(second.Tags) != 0 {
		t.Errorf("Tags = %v, want empty non-nil", second.Tags)
	}
}

func TestSave(t *testing.T) {
	t.Run("json only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "guitar.json")

		res, err := Save(path, sampleRecords(), SaveOptions{Logger: quiet()})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if res.ParquetPath != "" || res.Records != 2 || res.JSONPath != path {
			t.Errorf("SaveResult = %+v", res)
		}
		if _, err := os.Stat(ParquetPath(path)); !os.IsNotExist(err) {
			t.Errorf("parquet mirror written without the option")
		}
	})

	t.Run("with mirror", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "guitar.json")

		res, err := Save(path, sampleRecords(), SaveOptions{Parquet: true, Logger: quiet()})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if res.MirrorErr != nil {
			t.Fatalf("MirrorErr = %v", res.MirrorErr)
		}
		if res.ParquetPath != ParquetPath(path) {
			t.Errorf("ParquetPath = %q, want %q", res.ParquetPath, ParquetPath(path))
		}

		got, err := Load(res.ParquetPath)
		if err != nil {
			t.Fatalf("Load(parquet) error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Load(parquet) returned %d records, want 2", len(got))
		}
	})

	t.Run("mirror failure is not fatal", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "guitar.json")

		// A non-empty directory where the mirror should go blocks the rename.
		blocker := ParquetPath(path)
		if err := os.MkdirAll(filepath.Join(blocker, "keep"), 0755); err != nil {
			t.Fatal(err)
		}

		res, err := Save(path, sampleRecords(), SaveOptions{Parquet: true, Logger: quiet()})
		if err != nil {
			t.Fatalf("Save() error = %v, want nil", err)
		}
		if res.MirrorErr == nil {
			t.Error("MirrorErr = nil, want failure")
		}
		if res.ParquetPath != "" {
			t.Errorf("ParquetPath = %q, want empty on failure", res.ParquetPath)
		}
		if _, err := ReadJSON(path); err != nil {
			t.Errorf("json not written: %v", err)
		}
	})

	t.Run("json failure is fatal", func(t *testing.T) {
		dir := t.TempDir()
		parent := filepath.Join(dir, "file")
		if err := os.WriteFile(parent, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := Save(filepath.Join(parent, "out.json"), sampleRecords(), SaveOptions{Parquet: true, Logger: quiet()})
		var storErr *StorageError
		if !errors.As(err, &storErr) {
			t.Errorf("Save() error = %v, want *StorageError", err)
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	if err := WriteJSON(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil || len(got) != 2 {
		t.Errorf("Load(json) = %d records, %v", len(got), err)
	}

	_, err = Load(filepath.Join(dir, "records.csv"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(csv) error = %v, want ErrUnknownFormat", err)
	}
}
