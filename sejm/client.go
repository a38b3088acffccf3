package sejm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client represents a Sejm API client
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	requestDelay time.Duration
	maxRetries   int
	logger       zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a new Sejm API client. No request is made here.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   httpClient,
		userAgent:    o.userAgent,
		requestDelay: o.requestDelay,
		maxRetries:   o.maxRetries,
		logger:       logger,
	}, nil
}

// MaxRetries returns the configured retry count. It is informational only.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// Terms lists all terms
func (c *Client) Terms(ctx context.Context) Response {
	return c.get(ctx, "/sejm/term")
}

// Term returns the detail of one term
func (c *Client) Term(ctx context.Context, term int) Response {
	return c.get(ctx, fmt.Sprintf("/sejm/term%d", term))
}

// Proceedings lists the sessions of a term
func (c *Client) Proceedings(ctx context.Context, term int) Response {
	return c.get(ctx, fmt.Sprintf("/sejm/term%d/proceedings", term))
}

// Proceeding returns the detail record of one session
func (c *Client) Proceeding(ctx context.Context, term, number int) Response {
	return c.get(ctx, fmt.Sprintf("/sejm/term%d/proceedings/%d", term, number))
}

// Transcripts returns the statement list for one sitting day
func (c *Client) Transcripts(ctx context.Context, term, number int, date string) Response {
	return c.get(ctx, TranscriptsEndpoint(term, number, date))
}

// TranscriptPDF returns the whole-day transcript PDF
func (c *Client) TranscriptPDF(ctx context.Context, term, number int, date string) Response {
	return c.get(ctx, TranscriptsEndpoint(term, number, date)+"/pdf")
}

// StatementHTML returns a single statement as HTML. The scraper does not
// fetch statement texts; the stubs it writes point at this endpoint instead.
func (c *Client) StatementHTML(ctx context.Context, term, number int, date string, num int) Response {
	return c.get(ctx, StatementEndpoint(term, number, date, num))
}

// TranscriptsEndpoint is the path of the statement list for a sitting day.
func TranscriptsEndpoint(term, number int, date string) string {
	return fmt.Sprintf("/sejm/term%d/proceedings/%d/%s/transcripts", term, number, date)
}

// StatementEndpoint is the path serving the full text of one statement.
func StatementEndpoint(term, number int, date string, num int) string {
	return fmt.Sprintf("%s/%d", TranscriptsEndpoint(term, number, date), num)
}

// get performs one paced GET request and classifies the answer
func (c *Client) get(ctx context.Context, endpoint string) Response {
	url := c.baseURL + endpoint

	c.logger.Debug().Str("url", url).Msg("Making Sejm API request")

	if err := c.wait(ctx); err != nil {
		return absent(fmt.Errorf("request %s: %w", endpoint, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return absent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("Sejm API request failed")
		return absent(fmt.Errorf("request %s: %w", endpoint, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("Failed to read response body")
		return absent(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       truncate(string(body), 512),
		}
		// 404 is routine for days that are not published yet
		level := zerolog.ErrorLevel
		if apiErr.IsNotFound() {
			level = zerolog.DebugLevel
		}
		c.logger.WithLevel(level).Int("status", resp.StatusCode).Str("url", url).Msg("Sejm API returned an error status")
		return absent(apiErr)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return binary(body)
	}
	if !json.Valid(body) {
		c.logger.Error().Str("url", url).Msg("Sejm API sent invalid JSON")
		return absent(fmt.Errorf("%s: %w", endpoint, ErrInvalidJSON))
	}
	return structured(body)
}

// wait blocks for the configured request delay or until ctx is done
func (c *Client) wait(ctx context.Context) error {
	if c.requestDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.requestDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
