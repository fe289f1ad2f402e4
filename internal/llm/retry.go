package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryProvider retries transient failures with exponential backoff.
// Schema violations get exactly one retry; rejections and truncated
// output are returned at once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	wait := &hintedBackOff{next: &backoff.ExponentialBackOff{
		InitialInterval:     r.config.InitialWait,
		RandomizationFactor: 0.2,
		Multiplier:          r.config.Multiplier,
		MaxInterval:         r.config.MaxWait,
	}}
	invalidRetried := false

	resp, err := backoff.Retry(ctx, func() (*Response, error) {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidRetried) {
			return nil, backoff.Permanent(err)
		}
		var rl *ErrRateLimit
		if errors.As(err, &rl) {
			wait.hint = rl.RetryAfter
		}
		return nil, err
	},
		backoff.WithBackOff(wait),
		backoff.WithMaxTries(uint(max(r.config.MaxAttempts, 1))),
		backoff.WithMaxElapsedTime(0),
	)

	// Retry only unwraps Permanent when attempts remain.
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	return resp, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is worth another attempt. The first
// schema violation is; the second is not.
func retryable(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// Bad keys, unknown models and refused topics fail the same way again.
	if IsRejected(err) {
		return false
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
	}

	// Rate limits, outages and network errors.
	return true
}

// hintedBackOff prefers a server-provided wait over the exponential
// schedule for the next attempt only.
type hintedBackOff struct {
	next backoff.BackOff
	hint time.Duration
}

func (h *hintedBackOff) Reset() {
	h.hint = 0
	h.next.Reset()
}

func (h *hintedBackOff) NextBackOff() time.Duration {
	d := h.next.NextBackOff()
	if h.hint > 0 {
		d, h.hint = h.hint, 0
	}
	return d
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout bounds every Generate call, retries included, by d.
// A non-positive d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
