package youtube

import (
	"bytes"
	"encoding/json"
	"strconv"

	"google.golang.org/api/youtube/v3"
)

// VideoRecord is one fetched and labelled video. JSON field names are part
// of the output format and must not change.
type VideoRecord struct {
	VideoID      string   `json:"video_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	PublishedAt  string   `json:"publishedAt"`
	ChannelTitle string   `json:"channelTitle"`

	// Counts are nil when the API omits them (hidden likes, for instance).
	ViewCount *int64 `json:"viewCount"`
	LikeCount *int64 `json:"likeCount"`

	// Duration is the ISO 8601 duration string, e.g. "PT12M3S".
	Duration string `json:"duration"`

	RawSnippet    json.RawMessage `json:"raw_snippet"`
	RawStatistics json.RawMessage `json:"raw_statistics"`

	Level string `json:"level"`
	Topic string `json:"topic"`

	// LessonLevel is the level of the query that found this video. Only set
	// by per-level fetches.
	LessonLevel string `json:"lesson_level,omitempty"`
}

// rawVideo is a videos.list item with its parts left undecoded.
type rawVideo struct {
	ID             string          `json:"id"`
	Snippet        json.RawMessage `json:"snippet"`
	Statistics     json.RawMessage `json:"statistics"`
	ContentDetails json.RawMessage `json:"contentDetails"`
}

// newRecord flattens an API video item. Labels are left empty. The snippet
// and statistics objects are kept exactly as received.
func newRecord(v rawVideo) VideoRecord {
	rec := VideoRecord{
		VideoID:       v.ID,
		Tags:          []string{},
		RawSnippet:    rawOrEmpty(v.Snippet),
		RawStatistics: rawOrEmpty(v.Statistics),
	}

	var snippet youtube.VideoSnippet
	if json.Unmarshal(rec.RawSnippet, &snippet) == nil {
		rec.Title = snippet.Title
		rec.Description = snippet.Description
		rec.PublishedAt = snippet.PublishedAt
		rec.ChannelTitle = snippet.ChannelTitle
		if snippet.Tags != nil {
			rec.Tags = snippet.Tags
		}
	}

	var stats map[string]json.RawMessage
	if json.Unmarshal(rec.RawStatistics, &stats) == nil {
		rec.ViewCount = count(stats, "viewCount")
		rec.LikeCount = count(stats, "likeCount")
	}

	var details youtube.VideoContentDetails
	if len(v.ContentDetails) > 0 && json.Unmarshal(v.ContentDetails, &details) == nil {
		rec.Duration = details.Duration
	}

	return rec
}

// count reads a counter from the statistics object. The API sends counters
// as decimal strings. A missing, empty or unparseable counter is nil; "0"
// is zero.
func count(stats map[string]json.RawMessage, key string) *int64 {
	raw, ok := stats[key]
	if !ok {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil
		}
		s = n.String()
	}
	if s == "" {
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// rawOrEmpty returns a missing or null object as "{}".
func rawOrEmpty(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return trimmed
}
