package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates structured output was cut off by the
// MaxTokens limit. Content holds the partial text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrRequestRejected is a 4xx answer other than a rate limit: a bad key,
// an unknown model or a malformed request. Retrying cannot help.
type ErrRequestRejected struct {
	Status int
	Err    error
}

func (e *ErrRequestRejected) Error() string {
	return fmt.Sprintf("LLM request rejected (status %d): %v", e.Status, e.Err)
}

func (e *ErrRequestRejected) Unwrap() error { return e.Err }

// ErrRefused indicates the provider declined to answer. Content holds
// whatever text came back.
type ErrRefused struct {
	Content string
}

func (e *ErrRefused) Error() string {
	return "LLM refused to answer"
}

// IsRateLimited reports whether err came from a provider rate limit.
func IsRateLimited(err error) bool {
	var rl *ErrRateLimit
	return errors.As(err, &rl)
}

// IsUnavailable reports whether the provider could not be reached.
func IsUnavailable(err error) bool {
	var unavail *ErrProviderUnavailable
	return errors.As(err, &unavail)
}

// IsRejected reports whether the provider refused the request itself,
// either as a 4xx or through its safety system.
func IsRejected(err error) bool {
	var rej *ErrRequestRejected
	var ref *ErrRefused
	return errors.As(err, &rej) || errors.As(err, &ref)
}
