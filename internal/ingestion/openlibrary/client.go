package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL     = "https://openlibrary.org"
	defaultMinInterval = 1 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 2 * time.Second

	requestTimeout = 30 * time.Second
)

// ErrNotFound means the catalogue has no record for the requested id.
var ErrNotFound = errors.New("catalogue item not found")

// UpstreamError is surfaced once the retry budget is spent, or on a
// terminal upstream failure. Attempts counts every dispatched attempt.
type UpstreamError struct {
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalogue request failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client talks to the catalogue API. All requests go through a single
// admission slot (one in-flight request at a time) and a start-to-start
// pacing limiter, with exponential-backoff retries on transient failures.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	slot        chan struct{}
	maxRetries  int
	backoffBase time.Duration
	cache       *ResponseCache
	log         *slog.Logger

	// sleep is swappable so tests don't wait out real backoff delays
	sleep func(time.Duration)
}

// Options configures a catalogue client. Zero values fall back to defaults.
type Options struct {
	BaseURL     string
	MinInterval time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	Cache       *ResponseCache
	Logger      *slog.Logger
}

// NewClient creates a new catalogue API client
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	minInterval := opts.MinInterval
	if minInterval <= 0 {
		minInterval = defaultMinInterval
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	backoffBase := opts.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		// burst 1 makes Wait enforce the gap from the previous request start
		limiter:     rate.NewLimiter(rate.Every(minInterval), 1),
		slot:        make(chan struct{}, 1),
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		cache:       opts.Cache,
		log:         log,
		sleep:       time.Sleep,
	}
}

// GetBook fetches a single book record by its catalogue id
func (c *Client) GetBook(ctx context.Context, externalID string) (*BookRecord, error) {
	if cached, err := c.cache.GetBook(ctx, externalID); err == nil && cached != nil {
		return cached, nil
	}

	var record BookRecord
	endpoint := fmt.Sprintf("/api/books/%s", url.PathEscape(externalID))
	if _, err := c.doRequest(ctx, endpoint, &record); err != nil {
		return nil, err
	}

	c.cache.PutBook(ctx, &record)
	return &record, nil
}

// GetAuthor fetches an author record with the full bibliography
func (c *Client) GetAuthor(ctx context.Context, externalID string) (*AuthorRecord, error) {
	if cached, err := c.cache.GetAuthor(ctx, externalID); err == nil && cached != nil {
		return cached, nil
	}

	var record AuthorRecord
	endpoint := fmt.Sprintf("/api/authors/%s", url.PathEscape(externalID))
	if _, err := c.doRequest(ctx, endpoint, &record); err != nil {
		return nil, err
	}

	c.cache.PutAuthor(ctx, &record)
	return &record, nil
}

// SearchBooks runs a free-text catalogue search (never cached; results churn)
func (c *Client) SearchBooks(ctx context.Context, query string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)

	var response SearchResponse
	endpoint := "/api/search?" + params.Encode()
	if _, err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// doRequest performs an HTTP request under the admission slot with pacing
// and retry logic. It returns the number of attempts dispatched.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) (int, error) {
	// Acquire the single in-flight slot; callers queue here in arrival order
	select {
	case c.slot <- struct{}{}:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	defer func() { <-c.slot }()

	fullURL := c.baseURL + endpoint
	requestID := uuid.New().String()[:8]

	var lastErr error
	delay := c.backoffBase

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Pacing is measured from the previous request start, not completion
		if err := c.limiter.Wait(ctx); err != nil {
			return attempt, fmt.Errorf("rate limiter error: %w", err)
		}

		c.log.Debug("catalogue request",
			"request_id", requestID,
			"attempt", attempt+1,
			"url", truncate(fullURL, 96))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return attempt + 1, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "BookHub/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				c.log.Warn("catalogue request failed, retrying",
					"request_id", requestID,
					"attempt", attempt+1,
					"delay", delay,
					"error", err)
				c.sleep(delay)
				delay *= 2
				continue
			}
			break
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return attempt + 1, ErrNotFound
			}

			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(bodyBytes), 200))

			if shouldRetry(resp.StatusCode) && attempt < c.maxRetries {
				c.log.Warn("catalogue returned retryable status",
					"request_id", requestID,
					"attempt", attempt+1,
					"status", resp.StatusCode,
					"delay", delay)
				c.sleep(delay)
				delay *= 2
				continue
			}

			// Client errors other than 429 are terminal
			return attempt + 1, &UpstreamError{Attempts: attempt + 1, Err: lastErr}
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return attempt + 1, &UpstreamError{Attempts: attempt + 1, Err: fmt.Errorf("failed to parse response: %w", err)}
		}

		return attempt + 1, nil
	}

	return c.maxRetries + 1, &UpstreamError{Attempts: c.maxRetries + 1, Err: lastErr}
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode >= 500 // 500-504
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
