package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
)

// APIError is a non-2xx answer from Konduto.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("konduto api error: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the same request may succeed later.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// newAPIError reads the message out of an error envelope like {"status":"error","message":...}.
func newAPIError(status int, body []byte) *APIError {
	msg := http.StatusText(status)
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Message) > 0 {
		var s string
		if json.Unmarshal(env.Message, &s) == nil {
			msg = s
		} else {
			msg = string(env.Message)
		}
	} else if trimmed := strings.TrimSpace(string(body)); trimmed != "" && len(trimmed) <= 256 {
		msg = trimmed
	}
	return &APIError{StatusCode: status, Message: msg}
}

const (
	outcomeSuccess     = "success"
	outcomeInvalid     = "invalid"
	outcomeRateLimited = "rate_limited"
	outcomeRejected    = "rejected"
	outcomeTransport   = "transport_error"
)

func outcomeOf(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, pkg.ErrRateLimitExceeded):
		return outcomeRateLimited
	case errors.Is(err, konduto.ErrInvalidEntity):
		return outcomeInvalid
	case errors.As(err, &apiErr):
		return outcomeRejected
	default:
		return outcomeTransport
	}
}
