package fetcher

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

type InvalidURLError struct {
	Detail string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL: %s", e.Detail)
}

type InvalidSchemeError struct {
	Scheme string
}

func (e *InvalidSchemeError) Error() string {
	return fmt.Sprintf("invalid URL scheme %q: only http and https are supported", e.Scheme)
}

type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}

type TooManyRedirectsError struct {
	Max int
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("too many redirects (max %d)", e.Max)
}

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

type InvalidContentTypeError struct {
	MIME string
}

func (e *InvalidContentTypeError) Error() string {
	return fmt.Sprintf("invalid content type %q: expected HTML", e.MIME)
}

type ResponseTooLargeError struct {
	Limit int64
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response too large (max %d bytes)", e.Limit)
}

type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read response: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// statusMessage returns the phrase shown for a non-2xx response.
func statusMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "authentication required"
	case status == http.StatusForbidden:
		return "access denied"
	case status == http.StatusNotFound:
		return "page not found"
	case status == http.StatusTooManyRequests:
		return "rate limited - try again later"
	case status >= 500 && status < 600:
		return "server error"
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unexpected status"
}

// IsTransient reports whether a later attempt at the same URL could succeed.
// The fetcher never retries on its own; callers use this to decide.
func IsTransient(err error) bool {
	var timeoutErr *TimeoutError
	var connErr *ConnectionError
	var httpErr *HTTPError

	switch {
	case errors.As(err, &timeoutErr), errors.As(err, &connErr):
		return true
	case errors.As(err, &httpErr):
		return httpErr.Status == http.StatusTooManyRequests || httpErr.Status >= 500
	}
	return false
}
