package search

import "errors"

var (
	// ErrNotReady is returned when no inventory has been loaded yet.
	ErrNotReady = errors.New("search engine not ready: no inventory loaded")
	// ErrEmptySnapshot is returned when the loaded inventory has no entries.
	ErrEmptySnapshot = errors.New("inventory has no entries")
	// ErrInvalidQuery is returned for structurally malformed requests.
	ErrInvalidQuery = errors.New("invalid query")
)
