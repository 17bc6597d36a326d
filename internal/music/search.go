// Package music searches the Radio Javan catalogue through the ineo-team proxy.
package music

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultURL     = "https://api.ineo-team.ir/rj.php"
	DefaultTimeout = 10 * time.Second
)

var (
	ErrNoAccessKey = errors.New("radio javan access key not configured")
	ErrTimeout     = errors.New("radio javan request timed out")
	ErrRequest     = errors.New("radio javan request failed")
	ErrStatus      = errors.New("radio javan search unsuccessful")
	ErrDecode      = errors.New("radio javan response malformed")
)

// Hit is a single search result.
type Hit struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Client is a Radio Javan search client.
type Client struct {
	httpClient *http.Client
	apiURL     string
	accessKey  string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the search endpoint.
func WithURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = u
		}
	}
}

// WithTimeout sets the per-search timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new search client. An empty access key makes every search
// fail with ErrNoAccessKey.
func New(accessKey string, opts ...Option) *Client {
	c := &Client{
		apiURL:    DefaultURL,
		accessKey: accessKey,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Search posts the query and returns hits in the provider's order.
func (c *Client) Search(ctx context.Context, query string) ([]Hit, error) {
	if c.accessKey == "" {
		return nil, ErrNoAccessKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{
		"accessKey": {c.accessKey},
		"action":    {"search"},
		"query":     {query},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err, ErrRequest)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequest, resp.StatusCode, body)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, classify(err, ErrDecode)
	}

	if !statusOK(searchResp.StatusCode) {
		return nil, fmt.Errorf("%w: status_code %s", ErrStatus, searchResp.StatusCode)
	}

	var hits []Hit
	if len(searchResp.Result) > 0 {
		if err := json.Unmarshal(searchResp.Result, &hits); err != nil {
			return nil, fmt.Errorf("%w: result: %w", ErrDecode, err)
		}
	}

	return hits, nil
}

// statusOK reports whether the body's status_code is the number 200. Strings
// such as "200" and a missing field do not count.
func statusOK(raw json.RawMessage) bool {
	var code float64
	return json.Unmarshal(raw, &code) == nil && code == http.StatusOK
}

// classify wraps err as ErrTimeout when it stems from a deadline, otherwise as kind.
func classify(err error, kind error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type searchResponse struct {
	StatusCode json.RawMessage `json:"status_code"`
	Result     json.RawMessage `json:"result"`
}
