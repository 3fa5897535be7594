package ytlessons

import (
	"ytlessons/config"
	"ytlessons/storage"
	"ytlessons/youtube"
)

// Type aliases for convenient error handling.
type (
	// FetchError wraps an upstream Data API failure.
	FetchError = youtube.FetchError
	// StorageError wraps errors during output writes and reads.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrMissingAPIKey indicates a fetcher was built without an API key.
	ErrMissingAPIKey = youtube.ErrMissingAPIKey
	// ErrAPIKeyNotConfigured indicates the configuration has no API key.
	ErrAPIKeyNotConfigured = config.ErrMissingAPIKey

	// ErrLockTimeout indicates a timeout acquiring an output file lock.
	ErrLockTimeout = storage.ErrLockTimeout
	// ErrUnknownFormat indicates a record file with an unsupported extension.
	ErrUnknownFormat = storage.ErrUnknownFormat
)
