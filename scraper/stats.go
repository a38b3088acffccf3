package scraper

import (
	"github.com/rs/zerolog"
)

// RunStats counts what happened during one invocation of the pipeline
type RunStats struct {
	SessionsProcessed int `json:"sessions_processed"`
	FutureSkipped     int `json:"future_sessions_skipped"`
	Incomplete        int `json:"incomplete_sessions"`
	PDFsDownloaded    int `json:"pdfs_downloaded"`
	StatementsSaved   int `json:"statements_saved"`
	Errors            int `json:"errors"`
}

// Failed reports whether at least one error was counted
func (s RunStats) Failed() bool {
	return s.Errors > 0
}

// MarshalZerologObject lets the stats be attached to a log event
func (s RunStats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("sessions_processed", s.SessionsProcessed).
		Int("future_sessions_skipped", s.FutureSkipped).
		Int("incomplete_sessions", s.Incomplete).
		Int("pdfs_downloaded", s.PDFsDownloaded).
		Int("statements_saved", s.StatementsSaved).
		Int("errors", s.Errors)
}
