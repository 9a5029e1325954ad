// Package fetch retrieves job posting pages and turns their HTML into text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; SkillMatch/1.0)"
	DefaultMaxBytes  = 5 << 20
)

// ErrInvalidURL is returned for URLs without a http(s) scheme and host.
var ErrInvalidURL = errors.New("invalid URL")

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP status %d", e.URL, e.Code)
}

// Options configures a Client. Zero fields take the package defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	MaxBytes  int64
	// HTTPClient overrides the transport; its Timeout is left alone.
	HTTPClient *http.Client
}

// Client fetches pages and decodes them to UTF-8.
type Client struct {
	http      *http.Client
	userAgent string
	headers   map[string]string
	maxBytes  int64
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		http:      opts.HTTPClient,
		userAgent: opts.UserAgent,
		headers:   opts.Headers,
		maxBytes:  opts.MaxBytes,
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.maxBytes <= 0 {
		c.maxBytes = DefaultMaxBytes
	}
	return c
}

// Response is a fetched page. Body is UTF-8 regardless of the served charset.
type Response struct {
	URL         string // after redirects
	Body        string
	ContentType string
	StatusCode  int
	Truncated   bool
}

// Get fetches rawURL. A non-200 status returns the response together with a
// *StatusError so callers can still inspect the body.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	out := &Response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if int64(len(raw)) > c.maxBytes {
		raw = raw[:c.maxBytes]
		out.Truncated = true
	}
	out.Body = decodeCharset(raw, out.ContentType)

	if resp.StatusCode != http.StatusOK {
		return out, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return out, nil
}

// decodeCharset converts body to UTF-8 using the Content-Type charset.
// Unknown or missing charsets leave the bytes untouched.
func decodeCharset(body []byte, contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}
	name := strings.ToLower(strings.TrimSpace(params["charset"]))
	if name == "" || name == "utf-8" || name == "utf8" {
		return string(body)
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
