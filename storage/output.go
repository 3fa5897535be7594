package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ytlessons/youtube"
)

// SaveOptions controls Save.
type SaveOptions struct {
	// Parquet also writes the columnar mirror at ParquetPath(path).
	Parquet bool
	// LockTimeout bounds the wait for the JSON lock. Default DefaultLockTimeout.
	LockTimeout time.Duration
	// Logger receives the mirror failure warning. Default: the global logger.
	Logger *zerolog.Logger
}

// SaveResult reports what Save wrote.
type SaveResult struct {
	JSONPath    string
	ParquetPath string // empty when no mirror was written
	Records     int
	// MirrorErr is the Parquet failure, if any. It never fails the save.
	MirrorErr error
}

// Save writes records as JSON and, if requested, mirrors them to Parquet.
// Only the JSON write can fail the call.
func Save(path string, records []youtube.VideoRecord, opts SaveOptions) (SaveResult, error) {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	res := SaveResult{JSONPath: path, Records: len(records)}
	if err := writeJSON(path, records, opts.LockTimeout); err != nil {
		return res, err
	}
	logger.Info().Str("path", path).Int("records", len(records)).Msg("storage: saved json")

	if !opts.Parquet {
		return res, nil
	}

	pq := ParquetPath(path)
	if err := WriteParquet(pq, records); err != nil {
		logger.Warn().Err(err).Str("path", pq).Msg("storage: parquet mirror failed, json only")
		res.MirrorErr = err
		return res, nil
	}
	res.ParquetPath = pq
	logger.Info().Str("path", pq).Msg("storage: saved parquet mirror")
	return res, nil
}

// ParquetPath derives the mirror path: a trailing ".json" becomes ".parquet",
// any other path gets ".parquet" appended.
func ParquetPath(jsonPath string) string {
	if strings.HasSuffix(jsonPath, ".json") {
		return strings.TrimSuffix(jsonPath, ".json") + ".parquet"
	}
	return jsonPath + ".parquet"
}

// WriteJSON writes records as an indented JSON array. Non-ASCII text is kept
// verbatim and nil records are written as [].
func WriteJSON(path string, records []youtube.VideoRecord) error {
	return writeJSON(path, records, DefaultLockTimeout)
}

func writeJSON(path string, records []youtube.VideoRecord, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	if records == nil {
		records = []youtube.VideoRecord{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageError{Op: "write json", Path: path, Err: err}
	}

	lock := NewFileLock(path)
	if err := lock.Lock(timeout); err != nil {
		return err
	}
	defer lock.Unlock()

	err := writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	})
	if err != nil {
		return &StorageError{Op: "write json", Path: path, Err: err}
	}
	return nil
}

// ReadJSON loads a record array written by WriteJSON.
func ReadJSON(path string) ([]youtube.VideoRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Op: "read json", Path: path, Err: err}
	}

	var records []youtube.VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{Op: "read json", Path: path, Err: err}
	}
	if records == nil {
		records = []youtube.VideoRecord{}
	}
	for i := range records {
		if records[i].Tags == nil {
			records[i].Tags = []string{}
		}
	}
	return records, nil
}

// Load reads records from a .json or .parquet file, chosen by extension.
func Load(path string) ([]youtube.VideoRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(path)
	case ".parquet":
		return ReadParquet(path)
	default:
		return nil, &StorageError{Op: "load", Path: path, Err: fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))}
	}
}
