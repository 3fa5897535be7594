package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"ytlessons/youtube"
)

// parquetRow is the columnar layout of a VideoRecord. Raw API payloads are
// kept as JSON text columns.
type parquetRow struct {
	VideoID       string   `parquet:"video_id"`
	Title         string   `parquet:"title"`
	Description   string   `parquet:"description"`
	Tags          []string `parquet:"tags,list"`
	PublishedAt   string   `parquet:"publishedAt"`
	ChannelTitle  string   `parquet:"channelTitle"`
	ViewCount     *int64   `parquet:"viewCount"`
	LikeCount     *int64   `parquet:"likeCount"`
	Duration      string   `parquet:"duration"`
	RawSnippet    string   `parquet:"raw_snippet"`
	RawStatistics string   `parquet:"raw_statistics"`
	Level         string   `parquet:"level"`
	Topic         string   `parquet:"topic"`
	LessonLevel   string   `parquet:"lesson_level"`
}

func toParquetRow(r youtube.VideoRecord) parquetRow {
	return parquetRow{
		VideoID:       r.VideoID,
		Title:         r.Title,
		Description:   r.Description,
		Tags:          r.Tags,
		PublishedAt:   r.PublishedAt,
		ChannelTitle:  r.ChannelTitle,
		ViewCount:     r.ViewCount,
		LikeCount:     r.LikeCount,
		Duration:      r.Duration,
		RawSnippet:    string(r.RawSnippet),
		RawStatistics: string(r.RawStatistics),
		Level:         r.Level,
		Topic:         r.Topic,
		LessonLevel:   r.LessonLevel,
	}
}

func (p parquetRow) record() youtube.VideoRecord {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return youtube.VideoRecord{
		VideoID:       p.VideoID,
		Title:         p.Title,
		Description:   p.Description,
		Tags:          tags,
		PublishedAt:   p.PublishedAt,
		ChannelTitle:  p.ChannelTitle,
		ViewCount:     p.ViewCount,
		LikeCount:     p.LikeCount,
		Duration:      p.Duration,
		RawSnippet:    rawOrEmpty(p.RawSnippet),
		RawStatistics: rawOrEmpty(p.RawStatistics),
		Level:         p.Level,
		Topic:         p.Topic,
		LessonLevel:   p.LessonLevel,
	}
}

func rawOrEmpty(s string) json.RawMessage {
	if s == "" {
		return json.RawMessage("{}")
	}
	return json.RawMessage(s)
}

// WriteParquet writes records to a Parquet file through a temp file + rename.
func WriteParquet(path string, records []youtube.VideoRecord) error {
	rows := make([]parquetRow, len(records))
	for i, r := range records {
		rows[i] = toParquetRow(r)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageError{Op: "write parquet", Path: path, Err: err}
	}

	err := writeAtomic(path, func(w io.Writer) error {
		return parquet.Write(w, rows)
	})
	if err != nil {
		return &StorageError{Op: "write parquet", Path: path, Err: err}
	}
	return nil
}

// ReadParquet loads records written by WriteParquet.
func ReadParquet(path string) ([]youtube.VideoRecord, error) {
	rows, err := parquet.ReadFile[parquetRow](path)
	if err != nil {
		return nil, &StorageError{Op: "read parquet", Path: path, Err: err}
	}

	records := make([]youtube.VideoRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}
