// Package github implements the paginated, credential-rotating transport
// against the GitHub REST API and the two collectors built on it:
// stargazers of a repository and repositories starred by a user.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/costarhq/costar/pkg/httputil"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

const (
	defaultPerPage = 100
	httpTimeout    = 30 * time.Second
)

var (
	// ErrNotFound is returned when a repository or user doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, 5xx responses) once the retry budget is exhausted.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the API keeps reporting a rate
	// limit and no rotation can recover (single or exhausted pool).
	ErrRateLimited = errors.New("rate limited")
)

// Client issues authenticated, paginated GET requests against the GitHub
// API. Requests that fail at the network level or return unparseable
// bodies are retried with exponential backoff up to RetryAttempts;
// rate-limit responses rotate the token pool and retry the same page.
//
// The zero value is not usable; construct with [NewClient]. The exported
// knobs may be adjusted before first use (tests point BaseURL at an
// httptest server and shrink RetryDelay).
type Client struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// PerPage is the page size sent as the per_page query parameter.
	PerPage int

	// RetryAttempts bounds transport retries per page request.
	RetryAttempts int

	// RetryDelay is the initial backoff delay, doubled per attempt.
	RetryDelay time.Duration

	// HTTP is the underlying HTTP client.
	HTTP *http.Client

	tokens *TokenPool
	logger *log.Logger
}

// NewClient creates a client using the given token pool.
// A nil pool behaves like an empty one (unauthenticated requests).
func NewClient(pool *TokenPool, logger *log.Logger) *Client {
	if pool == nil {
		pool = NewTokenPool(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		BaseURL:       DefaultBaseURL,
		PerPage:       defaultPerPage,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
		HTTP:          &http.Client{Timeout: httpTimeout},
		tokens:        pool,
		logger:        logger,
	}
}

// Tokens exposes the client's token pool.
func (c *Client) Tokens() *TokenPool { return c.tokens }

// pageKind classifies a parsed API response page.
type pageKind int

const (
	pageEntities pageKind = iota // JSON array with at least one element
	pageEmpty                    // empty JSON array: pagination is done
	pageNotFound                 // error object with message "Not Found"
	pageUnrecognized             // parseable JSON of any other shape
)

// apiPage is one classified page of an API listing.
type apiPage struct {
	kind  pageKind
	items []json.RawMessage
	body  string // raw body, kept for unrecognized-page logging
}

// apiError is the error-object shape GitHub returns instead of an array.
type apiError struct {
	Message string `json:"message"`
}

// fetchPage retrieves and classifies one page of resource, a path like
// "/repos/owner/name/stargazers". Network failures, unparseable bodies,
// and rate limits (after rotating the token pool) are retried within the
// bounded budget; exhaustion surfaces the last error.
func (c *Client) fetchPage(ctx context.Context, resource string, page int) (*apiPage, error) {
	url := fmt.Sprintf("%s%s?per_page=%d&page=%d", c.BaseURL, resource, c.PerPage, page)

	var result *apiPage
	err := httputil.Retry(ctx, c.RetryAttempts, c.RetryDelay, func() error {
		p, err := c.doPage(ctx, url)
		if err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// doPage performs a single request attempt and classifies the response.
func (c *Client) doPage(ctx context.Context, url string) (*apiPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if tok := c.tokens.Current(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}

	return c.classify(body)
}

// classify maps a response body onto the page taxonomy. Non-JSON bodies
// are retryable; rate-limit error objects rotate the token pool and are
// retryable too, so the same page is reissued with the next credential.
func (c *Client) classify(body []byte) (*apiPage, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, httputil.Retryable(fmt.Errorf("non-JSON response: %v", err))
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, httputil.Retryable(fmt.Errorf("malformed array response: %v", err))
		}
		if len(items) == 0 {
			return &apiPage{kind: pageEmpty}, nil
		}
		return &apiPage{kind: pageEntities, items: items}, nil
	}

	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		switch {
		case apiErr.Message == "Not Found":
			return &apiPage{kind: pageNotFound}, nil
		case strings.Contains(strings.ToLower(apiErr.Message), "rate limit"):
			if c.tokens.Rotate() {
				c.logger.Debug("rate limit hit, rotated token", "pool", c.tokens.Size())
			} else {
				c.logger.Warn("rate limit hit, no spare token to rotate to")
			}
			return nil, httputil.Retryable(fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message))
		}
	}

	return &apiPage{kind: pageUnrecognized, body: string(body)}, nil
}
