package llm

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StopReason is why the model stopped generating.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"

	// StopRefused means the vendor's safety system declined to answer,
	// typically because of the learner's topic text.
	StopRefused StopReason = "refused"
)

// completion is a vendor response reduced to what every provider shares.
type completion struct {
	text  string
	usage Usage
	model string
	stop  StopReason
}

// finish turns a completion into a Response. Truncated structured output
// and refusals become errors; everything else goes through schema
// validation when req asks for it.
func finish(req Request, c completion) (*Response, error) {
	switch {
	case c.stop == StopRefused:
		return nil, &ErrRefused{Content: c.text}
	case c.stop == StopMaxTokens && req.Schema != nil:
		return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(c.text)}
	}

	content, err := structuredContent(req.Schema, []byte(c.text))
	if err != nil {
		return nil, err
	}
	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}

// statusError classifies a failed vendor call by its HTTP status.
// A zero status means the request never got an answer.
func statusError(status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	case status == http.StatusRequestTimeout:
		return &ErrProviderUnavailable{Err: err}
	case status >= 400 && status < 500:
		return &ErrRequestRejected{Status: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
