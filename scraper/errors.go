package scraper

import "errors"

// Errors returned by the pipeline
var (
	// ErrInvalidSessionNumber is returned before any request when a requested
	// session number is not positive
	ErrInvalidSessionNumber = errors.New("invalid session number")

	// ErrSessionNotFound is returned when the requested session is not in the term
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionInFuture is returned when every date of the requested session
	// is still ahead, so nothing can be downloaded yet
	ErrSessionInFuture = errors.New("session has not taken place yet")

	// ErrListUnavailable is returned when the term or its session list cannot be fetched
	ErrListUnavailable = errors.New("session list unavailable")
)
