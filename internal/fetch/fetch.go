package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultUserAgent = "dp-headlines/1.0 (github.com/pfrederiksen/dp-headlines)"
	DefaultTimeout   = 30 * time.Second
)

// Response is the outcome of a completed HTTP exchange
type Response struct {
	URL        string // final URL after redirects
	StatusCode int
	Body       string
}

// OK reports whether the status code is 2xx
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NetworkError is returned when a request could not be completed at all
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client handles HTTP fetching
type Client struct {
	http *resty.Client
}

// New creates a new Client. Empty or zero arguments fall back to the defaults.
func New(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		http: resty.New().
			SetHeader("User-Agent", userAgent).
			SetTimeout(timeout),
	}
}

// Get performs a single GET request against url
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	final := url
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL.String()
	}

	return &Response{
		URL:        final,
		StatusCode: res.StatusCode(),
		Body:       string(res.Body()),
	}, nil
}
