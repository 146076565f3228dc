package fetcher

import (
	"cmp"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultUserAgent    = "feast"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 5
	DefaultMaxBytes     = 10 * 1024 * 1024
)

var errRedirectLimit = errors.New("redirect limit reached")

type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
	MaxBytes     int64
}

type Fetcher struct {
	client       *http.Client
	userAgent    string
	timeout      time.Duration
	maxRedirects int
	maxBytes     int64
}

// NewFetcher builds a fetcher; zero option fields fall back to the defaults.
func NewFetcher(opts Options) *Fetcher {
	f := &Fetcher{
		userAgent:    cmp.Or(opts.UserAgent, DefaultUserAgent),
		timeout:      cmp.Or(opts.Timeout, DefaultTimeout),
		maxRedirects: cmp.Or(opts.MaxRedirects, DefaultMaxRedirects),
		maxBytes:     cmp.Or(opts.MaxBytes, DefaultMaxBytes),
	}

	f.client = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// via includes the original request, so len(via) == maxRedirects is still in bounds.
			if len(via) > f.maxRedirects {
				return errRedirectLimit
			}
			return nil
		},
	}

	return f
}

// Run downloads an HTML page. The URL is validated before any network call.
func (f *Fetcher) Run(ctx context.Context, rawURL string) (string, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", &InvalidURLError{Detail: err.Error()}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{Status: resp.StatusCode, Message: statusMessage(resp.StatusCode)}
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		mime := normalizeContentType(contentType)
		if mime != "text/html" && mime != "application/xhtml+xml" {
			return "", &InvalidContentTypeError{MIME: mime}
		}
	}

	if resp.ContentLength > f.maxBytes {
		return "", &ResponseTooLargeError{Limit: f.maxBytes}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &TimeoutError{Timeout: f.timeout}
		}
		return "", &ReadError{Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return "", &ResponseTooLargeError{Limit: f.maxBytes}
	}

	return string(body), nil
}

func (f *Fetcher) classify(ctx context.Context, err error) error {
	// caller cancellation wins over our own timeout
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if errors.Is(err, errRedirectLimit) {
		return &TooManyRedirectsError{Max: f.maxRedirects}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Timeout: f.timeout}
	}

	return &ConnectionError{Err: err}
}

func validateURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, &InvalidURLError{Detail: "empty URL"}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &InvalidURLError{Detail: err.Error()}
	}
	if u.Scheme == "" {
		return nil, &InvalidURLError{Detail: "relative URL without a scheme"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &InvalidSchemeError{Scheme: u.Scheme}
	}
	if u.Hostname() == "" {
		return nil, &InvalidURLError{Detail: "missing host"}
	}

	return u, nil
}

func normalizeContentType(contentType string) string {
	mime, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mime))
}
