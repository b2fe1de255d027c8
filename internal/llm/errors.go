package llm

import (
	"fmt"
	"time"
)

// UnavailableError is returned when a provider has no credential or
// configuration. The router skips the provider silently; it is never a
// failed attempt.
type UnavailableError struct {
	Provider string
	Reason   string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return e.Provider + " is unavailable: " + e.Reason
	}
	return e.Provider + " is unavailable"
}

// TimeoutError is returned when a provider call exceeds its wall-clock
// budget. The router treats it like any other failed attempt: retry if
// budget remains, otherwise fall through to the next candidate.
type TimeoutError struct {
	Provider string
	Budget   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timeout after %s", e.Provider, e.Budget)
}

// ProviderError is returned when the remote call came back with an error
// status or payload. Recovered by retry/fallback identically to a timeout.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExhaustedError is fatal for a request: every candidate in the chain was
// attempted (or skipped as unconfigured) without a successful response.
// This is the only provider-level error that crosses the router boundary;
// callers present a recovery message, never an empty answer.
type ExhaustedError struct {
	Phase   string
	Tried   []string // providers actually attempted (unconfigured skips excluded)
	LastErr error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("all providers exhausted for phase %s (tried %v, last: %v)", e.Phase, e.Tried, e.LastErr)
	}
	return fmt.Sprintf("all providers exhausted for phase %s (none configured)", e.Phase)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}
