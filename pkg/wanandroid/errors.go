package wanandroid

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError reports a failed exchange: the request never completed, or the
// server answered with a non-2xx status and a body that is not an envelope.
type TransportError struct {
	Endpoint   string
	URL        string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: http %d from %s: %v", e.Endpoint, e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: request %s: %v", e.Endpoint, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a body that is not JSON or whose shape cannot populate the
// declared payload type.
type DecodeError struct {
	Endpoint string
	Body     string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is an application error carried inside a well-formed envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wanandroid api error %d", e.Code)
	}
	return fmt.Sprintf("wanandroid api error %d: %s", e.Code, e.Message)
}

// IsTransport reports whether err wraps a *TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsDecode reports whether err wraps a *DecodeError.
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// IsAPI reports whether err wraps an *APIError.
func IsAPI(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
