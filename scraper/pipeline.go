package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/sejmscraper/sejm"
)

// Store persists downloaded artifacts
type Store interface {
	SaveSessionInfo(term int, session sejm.Session, raw json.RawMessage) (string, error)
	SavePDF(term int, session sejm.Session, date string, content []byte) (string, error)
	SaveStatements(term int, session sejm.Session, date string, list sejm.StatementList) (string, int, error)
}

// SessionMatcher narrows the working set of a run
type SessionMatcher interface {
	Match(session sejm.Session, today time.Time) (bool, error)
}

// Options selects what a run downloads
type Options struct {
	Term       int
	PDFs       bool
	Statements bool
	Filter     SessionMatcher
}

// SessionSummary is one line of a term overview
type SessionSummary struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Dates   []string `json:"dates"`
	Current bool     `json:"current"`
	Future  bool     `json:"is_future"`
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithClock replaces the wall clock used to decide which dates are future
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// Pipeline lists sessions, decides what is eligible and drives downloads
// through the API client and the store. It holds no state between runs.
type Pipeline struct {
	api    sejm.API
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewPipeline creates a new Pipeline
func NewPipeline(api sejm.API, store Store, logger zerolog.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		api:    api,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run is the state of a single invocation
type run struct {
	*Pipeline
	opts   Options
	today  time.Time
	stats  RunStats
	logger zerolog.Logger
}

func (p *Pipeline) newRun(opts Options) *run {
	return &run{
		Pipeline: p,
		opts:     opts,
		today:    Today(p.now()),
		logger: p.logger.With().
			Str("run_id", uuid.NewString()).
			Int("term", opts.Term).
			Logger(),
	}
}

// sessionOutcome is how processing of one session ended
type sessionOutcome int

const (
	outcomeProcessed sessionOutcome = iota
	outcomeIncomplete
	outcomeFuture
)

// Terms returns the terms known to the API
func (p *Pipeline) Terms(ctx context.Context) ([]sejm.Term, error) {
	var terms []sejm.Term
	if err := p.api.Terms(ctx).Decode(&terms); err != nil {
		return nil, fmt.Errorf("failed to get terms: %w", err)
	}
	return terms, nil
}

// Summarize lists the deduplicated sessions of a term with their future flag
func (p *Pipeline) Summarize(ctx context.Context, term int, filter SessionMatcher) ([]SessionSummary, error) {
	r := p.newRun(Options{Term: term, Filter: filter})

	sessions, err := r.listSessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions = r.applyFilter(sessions)

	summary := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summary = append(summary, SessionSummary{
			Number:  s.Number,
			Title:   s.Title,
			Dates:   s.Dates,
			Current: s.Current,
			Future:  AllFuture(s.Dates, r.today),
		})
	}
	return summary, nil
}

// Run scrapes every eligible session of a term. The returned error is only
// set when the run could not start or ctx was cancelled; per-session problems
// are counted in the stats.
func (p *Pipeline) Run(ctx context.Context, opts Options) (RunStats, error) {
	r := p.newRun(opts)
	r.logger.Info().
		Bool("pdfs", opts.PDFs).
		Bool("statements", opts.Statements).
		Msg("Starting term scrape")

	var term sejm.Term
	if err := p.api.Term(ctx, opts.Term).Decode(&term); err != nil {
		if ctx.Err() != nil {
			return r.stats, ctx.Err()
		}
		r.logger.Error().Err(err).Msg("Failed to get term info")
		return r.stats, fmt.Errorf("%w: term %d: %v", ErrListUnavailable, opts.Term, err)
	}
	to := term.To
	if to == "" {
		to = "current"
	}
	r.logger.Info().Str("from", term.From).Str("to", to).Msg("Term info")

	sessions, err := r.listSessions(ctx)
	if err != nil {
		return r.stats, err
	}
	sessions = r.applyFilter(sessions)

	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}

		if AllFuture(session.Dates, r.today) {
			r.logger.Info().
				Int("session", session.Number).
				Strs("dates", session.Dates).
				Msg("Skipping future session")
			r.stats.FutureSkipped++
			continue
		}

		r.handleSession(ctx, session)
	}
	if err := ctx.Err(); err != nil {
		return r.stats, err
	}

	r.logStats()
	return r.stats, nil
}

// RunSession scrapes a single session of a term
func (p *Pipeline) RunSession(ctx context.Context, opts Options, number int) (RunStats, error) {
	r := p.newRun(opts)

	if number <= 0 {
		r.logger.Error().Int("session", number).Msg("Invalid session number")
		return r.stats, fmt.Errorf("%w: %d", ErrInvalidSessionNumber, number)
	}

	r.logger.Info().Int("session", number).Msg("Starting session scrape")

	sessions, err := r.listSessions(ctx)
	if err != nil {
		return r.stats, err
	}

	var target *sejm.Session
	for i := range sessions {
		if sessions[i].Number == number {
			target = &sessions[i]
			break
		}
	}
	if target == nil {
		r.logger.Error().
			Int("session", number).
			Ints("available", Numbers(sessions)).
			Msg("Session not found in term")
		r.logStats()
		return r.stats, fmt.Errorf("%w: %d in term %d", ErrSessionNotFound, number, opts.Term)
	}

	if AllFuture(target.Dates, r.today) {
		r.logger.Warn().
			Int("session", number).
			Strs("dates", target.Dates).
			Msg("Session is scheduled in the future, transcripts are published after it ends")
		r.stats.FutureSkipped++
		r.logStats()
		return r.stats, fmt.Errorf("%w: %d", ErrSessionInFuture, number)
	}

	err = r.handleSession(ctx, *target)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return r.stats, ctxErr
	}
	r.logStats()
	if err != nil {
		return r.stats, fmt.Errorf("session %d: %w", number, err)
	}
	return r.stats, nil
}

// listSessions fetches and deduplicates the session list of the run's term
func (r *run) listSessions(ctx context.Context) ([]sejm.Session, error) {
	var raw []sejm.Session
	if err := r.api.Proceedings(ctx, r.opts.Term).Decode(&raw); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Error().Err(err).Msg("Failed to get session list")
		return nil, fmt.Errorf("%w: term %d: %v", ErrListUnavailable, r.opts.Term, err)
	}

	result := Deduplicate(raw)
	if result.Invalid > 0 {
		r.logger.Warn().Int("count", result.Invalid).Msg("Discarded sessions with a missing or invalid number")
	}
	if result.Duplicates > 0 {
		r.logger.Debug().Int("count", result.Duplicates).Msg("Discarded duplicate sessions")
	}
	r.logger.Info().
		Int("listed", len(raw)).
		Int("unique", len(result.Sessions)).
		Msg("Fetched session list")

	return result.Sessions, nil
}

// applyFilter keeps the sessions accepted by the run's filter
func (r *run) applyFilter(sessions []sejm.Session) []sejm.Session {
	if r.opts.Filter == nil {
		return sessions
	}

	kept := make([]sejm.Session, 0, len(sessions))
	for _, s := range sessions {
		ok, err := r.opts.Filter.Match(s, r.today)
		if err != nil {
			r.logger.Warn().Err(err).Int("session", s.Number).Msg("Filter evaluation failed, skipping session")
			continue
		}
		if ok {
			kept = append(kept, s)
		}
	}
	r.logger.Info().Int("matched", len(kept)).Int("total", len(sessions)).Msg("Applied session filter")
	return kept
}

// handleSession processes one session and records the outcome. Failures of
// any kind, panics included, count one error and never stop the run.
func (r *run) handleSession(ctx context.Context, session sejm.Session) error {
	outcome, err := r.processSafely(ctx, session)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.logger.Error().Err(err).Int("session", session.Number).Msg("Failed to process session")
		r.stats.Errors++
		return err
	}

	switch outcome {
	case outcomeProcessed:
		r.stats.SessionsProcessed++
	case outcomeIncomplete:
		r.stats.Incomplete++
	case outcomeFuture:
		r.stats.FutureSkipped++
	}
	return nil
}

func (r *run) processSafely(ctx context.Context, session sejm.Session) (outcome sessionOutcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while processing session %d: %v", session.Number, rec)
		}
	}()
	return r.processSession(ctx, session)
}

// processSession fetches the detail record, saves it and downloads every past day
func (r *run) processSession(ctx context.Context, listed sejm.Session) (sessionOutcome, error) {
	logger := r.logger.With().Int("session", listed.Number).Logger()
	logger.Info().Msg("Processing session")

	detail := listed
	var fetched sejm.Session
	if err := r.api.Proceeding(ctx, r.opts.Term, listed.Number).Decode(&fetched); err != nil {
		if ctx.Err() != nil {
			return outcomeProcessed, ctx.Err()
		}
		logger.Warn().Err(err).Msg("Failed to get session detail, using list entry")
	} else {
		fetched.Number = listed.Number
		detail = fetched
	}

	if _, err := r.store.SaveSessionInfo(r.opts.Term, detail, detail.Raw); err != nil {
		logger.Error().Err(err).Msg("Failed to save session info")
		r.stats.Errors++
	}

	if len(detail.Dates) == 0 {
		logger.Warn().Msg("Session has no dates, skipping")
		return outcomeIncomplete, nil
	}

	past, future := SplitDates(detail.Dates, r.today)
	if len(future) > 0 {
		logger.Info().
			Strs("past", past).
			Strs("future", future).
			Msg("Session spans past and future days, processing past days only")
	} else {
		logger.Info().Strs("dates", detail.Dates).Msgf("Session lasted %d days", len(detail.Dates))
	}

	if len(past) == 0 {
		logger.Info().Msg("All session dates are in the future, skipping")
		return outcomeFuture, nil
	}

	for _, date := range past {
		if err := ctx.Err(); err != nil {
			return outcomeProcessed, err
		}
		if !ValidDate(date) {
			logger.Warn().Str("date", date).Msg("Invalid date format, treating as past")
		}
		r.processDay(ctx, detail, date)
	}

	return outcomeProcessed, ctx.Err()
}

// processDay runs the downloads enabled for the run
func (r *run) processDay(ctx context.Context, session sejm.Session, date string) {
	r.logger.Info().Int("session", session.Number).Str("date", date).Msg("Processing day")

	if r.opts.PDFs {
		r.downloadPDF(ctx, session, date)
	}
	if r.opts.Statements && ctx.Err() == nil {
		r.downloadStatements(ctx, session, date)
	}
}

func (r *run) downloadPDF(ctx context.Context, session sejm.Session, date string) {
	resp := r.api.TranscriptPDF(ctx, r.opts.Term, session.Number, date)
	if ctx.Err() != nil {
		return
	}

	logger := r.logger.With().Int("session", session.Number).Str("date", date).Str("artifact", "pdf").Logger()
	switch {
	case resp.Kind == sejm.Absent:
		r.recordAbsent(logger, date, resp)
	case resp.Kind != sejm.Binary || resp.Empty():
		r.recordNoData(logger, date)
	default:
		path, err := r.store.SavePDF(r.opts.Term, session, date, resp.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to save PDF")
			r.stats.Errors++
			return
		}
		r.stats.PDFsDownloaded++
		logger.Info().Str("path", path).Msg("Downloaded PDF")
	}
}

func (r *run) downloadStatements(ctx context.Context, session sejm.Session, date string) {
	resp := r.api.Transcripts(ctx, r.opts.Term, session.Number, date)
	if ctx.Err() != nil {
		return
	}

	logger := r.logger.With().Int("session", session.Number).Str("date", date).Str("artifact", "statements").Logger()
	switch {
	case resp.Kind == sejm.Absent:
		r.recordAbsent(logger, date, resp)
		return
	case resp.Kind != sejm.Structured || resp.Empty():
		r.recordNoData(logger, date)
		return
	}

	var list sejm.StatementList
	if err := resp.Decode(&list); err != nil {
		logger.Error().Err(err).Msg("Failed to decode statement list")
		r.stats.Errors++
		return
	}

	dir, count, err := r.store.SaveStatements(r.opts.Term, session, date, list)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save statements")
		r.stats.Errors++
		return
	}
	r.stats.StatementsSaved += count
	logger.Info().Int("count", count).Str("dir", dir).Msg("Saved statements")
}

// recordAbsent classifies a failed call: a 404 for a future day is expected,
// everything else counts as one error
func (r *run) recordAbsent(logger zerolog.Logger, date string, resp sejm.Response) {
	if resp.NotFound() && IsFuture(date, r.today) {
		logger.Debug().Msg("Not yet available")
		return
	}
	logger.Error().Err(resp.Reason).Msg("Download failed")
	r.stats.Errors++
}

// recordNoData handles a successful call that carried nothing to save
func (r *run) recordNoData(logger zerolog.Logger, date string) {
	if IsFuture(date, r.today) {
		logger.Debug().Msg("No data yet for future day")
		return
	}
	logger.Warn().Msg("No data for day")
}

func (r *run) logStats() {
	r.logger.Info().EmbedObject(r.stats).Msg("Run statistics")
}
