package parser

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// defaultRetryAfter applies when a 429 carries no usable Retry-After.
const defaultRetryAfter = 60 * time.Second

// APIError is a non-2xx answer from an LLM provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// RateLimitError indicates a provider returned HTTP 429 or that every
// provider in a fallback chain is cooling down.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. A non-positive retryAfter
// becomes one minute.
func NewRateLimitError(provider string, err error, retryAfter time.Duration) *RateLimitError {
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}
	return &RateLimitError{Err: err, RetryAfter: retryAfter, Provider: provider}
}

// IsRateLimited reports whether err is or wraps a RateLimitError.
func IsRateLimited(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// StatusError converts a non-2xx provider response into an error. 429
// yields a RateLimitError wrapping the APIError.
func StatusError(provider string, resp *http.Response, body []byte) error {
	apiErr := &APIError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Body:       Truncate(strings.TrimSpace(string(body)), 500),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return NewRateLimitError(provider, apiErr, ParseRetryAfterHeader(resp.Header.Get("Retry-After"), time.Now()))
	}
	return apiErr
}

// ParseRetryAfterHeader parses a Retry-After value given either as seconds
// or as an HTTP date relative to now. Unparseable or past values yield 0.
func ParseRetryAfterHeader(val string, now time.Time) time.Duration {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	at, err := http.ParseTime(val)
	if err != nil {
		return 0
	}
	if d := at.Sub(now); d > 0 {
		return d.Round(time.Second)
	}
	return 0
}
