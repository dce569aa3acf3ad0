package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrCycleRunning     = errors.New("a scraping cycle is already running")
	ErrSchedulerRunning = errors.New("scheduler is already running")
	ErrBlocked          = errors.New("blocked by site (HTTP 403)")
	ErrNotHTML          = errors.New("response is not HTML")
	ErrMaxRetries       = errors.New("max retries exceeded")
	ErrTitleMissing     = errors.New("no usable title found")
	ErrContentTooShort  = errors.New("extracted content below minimum length")
	ErrDuplicate        = errors.New("duplicate article")
)

// FetchError wraps errors that occur while fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	Blocked    bool // HTTP 403: permanent for this attempt, counted separately
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// IsBlocked reports whether err represents a permanent 403 block.
func IsBlocked(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Blocked
	}
	return errors.Is(err, ErrBlocked)
}
