// Package youtube fetches guitar-lesson video metadata from the YouTube Data
// API v3 and labels each video with a level and topic.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytlessons/classify"
)

const (
	// MaxPageSize is the largest page search.list and videos.list accept.
	MaxPageSize = 50
	// DefaultPause separates consecutive pages and record annotations.
	DefaultPause = 800 * time.Millisecond
	// DefaultHTTPTimeout bounds a single API request.
	DefaultHTTPTimeout = 30 * time.Second
)

// Classifier labels a video from its title and description.
type Classifier interface {
	Classify(title, description string) classify.Result
}

// Fetcher runs the search and metadata stages against the Data API.
// It is not safe for concurrent use; calls run sequentially.
type Fetcher struct {
	service    *youtube.Service
	client     *http.Client
	classifier Classifier
	pacer      *Pacer
	logger     zerolog.Logger

	pause         time.Duration
	pageSize      int
	batchSize     int
	httpClient    *http.Client
	clientOptions []option.ClientOption
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithPause sets the fixed pause between pages and between records.
// Zero or negative disables pacing.
func WithPause(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.pause = d
	}
}

// WithPageSize sets the search page size, clamped to 1..50.
func WithPageSize(n int) FetcherOption {
	return func(f *Fetcher) {
		f.pageSize = clampPage(n)
	}
}

// WithBatchSize sets the videos.list batch size, clamped to 1..50.
func WithBatchSize(n int) FetcherOption {
	return func(f *Fetcher) {
		f.batchSize = clampPage(n)
	}
}

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c Classifier) FetcherOption {
	return func(f *Fetcher) {
		f.classifier = c
	}
}

// WithLogger sets the logger. Default is the global zerolog logger.
func WithLogger(l zerolog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithHTTPClient sets the HTTP client used for every API request. The API
// key is added to its requests by the fetcher.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithClientOptions passes extra options to the API client, such as a custom
// endpoint.
func WithClientOptions(opts ...option.ClientOption) FetcherOption {
	return func(f *Fetcher) {
		f.clientOptions = append(f.clientOptions, opts...)
	}
}

// NewFetcher creates a fetcher authenticated with apiKey.
func NewFetcher(apiKey string, opts ...FetcherOption) (*Fetcher, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	f := &Fetcher{
		pause:     DefaultPause,
		pageSize:  MaxPageSize,
		batchSize: MaxPageSize,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.classifier == nil {
		f.classifier = classify.New(classify.Options{Logger: &f.logger})
	}
	f.pacer = NewPacer(f.pause)

	base := f.httpClient
	if base == nil {
		base = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	f.client = &http.Client{
		Transport:     &transport.APIKey{Key: apiKey, Transport: base.Transport},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(f.client)}, f.clientOptions...)
	service, err := youtube.NewService(context.Background(), clientOpts...)
	if err != nil {
		return nil, &FetchError{Op: "service", Err: err}
	}
	f.service = service

	return f, nil
}

// SearchVideoIDs returns up to maxResults video IDs for query, in API order.
// Pages request min(page size, remaining) items and stop when the maximum is
// reached, no next page token is returned, or a page comes back empty.
func (f *Fetcher) SearchVideoIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	ids := make([]string, 0)
	if maxResults <= 0 {
		return ids, nil
	}

	pageToken := ""
	for page := 0; len(ids) < maxResults; page++ {
		if page > 0 {
			if err := f.pacer.Wait(ctx); err != nil {
				return ids, err
			}
		}

		toFetch := min(f.pageSize, maxResults-len(ids))
		call := f.service.Search.List([]string{"id"}).
			Q(query).
			Type("video").
			MaxResults(int64(toFetch)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return ids, &FetchError{Op: "search", Query: query, Err: err}
		}

		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				ids = append(ids, item.Id.VideoId)
			}
		}
		f.logger.Info().
			Str("query", query).
			Int("page", page+1).
			Int("collected", len(ids)).
			Int("max", maxResults).
			Msg("youtube: collected search ids")

		pageToken = resp.NextPageToken
		if pageToken == "" || len(resp.Items) == 0 {
			break
		}
	}

	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// GetVideosMetadata fetches snippet, statistics and content details for ids
// in batches and labels every returned item once. IDs the API does not know
// are silently absent from the result.
func (f *Fetcher) GetVideosMetadata(ctx context.Context, ids []string) ([]VideoRecord, error) {
	out := make([]VideoRecord, 0, len(ids))
	if len(ids) == 0 {
		f.logger.Warn().Msg("youtube: metadata requested for empty id list")
		return out, nil
	}

	f.logger.Info().Int("ids", len(ids)).Msg("youtube: fetching metadata")

	for start := 0; start < len(ids); start += f.batchSize {
		end := min(start+f.batchSize, len(ids))
		batch := ids[start:end]

		items, err := f.listVideos(ctx, batch)
		if err != nil {
			return out, &FetchError{Op: "videos", Query: batchLabel(batch), Err: err}
		}

		f.logger.Info().
			Int("batch", start/f.batchSize+1).
			Int("items", len(items)).
			Msg("youtube: received metadata batch")

		for _, item := range items {
			if err := f.pacer.Wait(ctx); err != nil {
				return out, err
			}

			rec := newRecord(item)
			label := f.classifier.Classify(rec.Title, rec.Description)
			rec.Level = label.Level
			rec.Topic = label.Topic

			f.logger.Debug().
				Str("video_id", rec.VideoID).
				Str("title", rec.Title).
				Str("published_at", rec.PublishedAt).
				Str("level", rec.Level).
				Str("topic", rec.Topic).
				Msg("youtube: fetched video")

			out = append(out, rec)
		}
	}

	f.logger.Info().Int("videos", len(out)).Msg("youtube: finished metadata")
	return out, nil
}

// SearchAndFetch runs the search stage then the metadata stage. transcripts
// is accepted for interface compatibility and has no effect.
func (f *Fetcher) SearchAndFetch(ctx context.Context, query string, maxResults int, transcripts bool) ([]VideoRecord, error) {
	if transcripts {
		f.logger.Debug().Msg("youtube: transcript fetching is not supported, flag ignored")
	}

	ids, err := f.SearchVideoIDs(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	return f.GetVideosMetadata(ctx, ids)
}

func clampPage(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// batchLabel summarises a batch of IDs for error messages.
func batchLabel(ids []string) string {
	if len(ids) <= 3 {
		return strings.Join(ids, ",")
	}
	return fmt.Sprintf("%s,... (%d ids)", strings.Join(ids[:3], ","), len(ids))
}
