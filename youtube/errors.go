package youtube

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch operations.
var (
	// ErrMissingAPIKey indicates the fetcher was built without a Data API key.
	ErrMissingAPIKey = errors.New("youtube: API key required")
)

// FetchError wraps an upstream failure with the stage and query that caused it.
// Use errors.As() to extract it:
//
//	var fetchErr *youtube.FetchError
//	if errors.As(err, &fetchErr) {
//		fmt.Printf("%s failed for %q: %v\n", fetchErr.Op, fetchErr.Query, fetchErr.Err)
//	}
type FetchError struct {
	// Op is the stage that failed ("search", "videos", "service").
	Op string
	// Query is the search query, or a short ID summary for metadata batches.
	Query string
	// Err is the underlying error, usually a *googleapi.Error.
	Err error
}

// Error returns a string representation of the fetch error.
func (e *FetchError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("youtube: %s %q: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("youtube: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *FetchError) Unwrap() error { return e.Err }
