package sejm

import (
	"context"
)

// API defines the Sejm operations used by the scraper
type API interface {
	// Terms lists all terms of the Sejm
	Terms(ctx context.Context) Response

	// Term returns the detail of a single term
	Term(ctx context.Context, term int) Response

	// Proceedings lists the sessions of a term
	Proceedings(ctx context.Context, term int) Response

	// Proceeding returns the detail record of one session
	Proceeding(ctx context.Context, term, number int) Response

	// Transcripts returns the statement list of one sitting day
	Transcripts(ctx context.Context, term, number int, date string) Response

	// TranscriptPDF returns the full-day transcript as a PDF
	TranscriptPDF(ctx context.Context, term, number int, date string) Response

	// StatementHTML returns the text of a single statement
	StatementHTML(ctx context.Context, term, number int, date string, num int) Response
}
