package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrLoadFailed covers any transport error or non-success status while
	// fetching the jobs listing. Callers keep whatever they already hold.
	ErrLoadFailed = errors.New("api: jobs listing load failed")

	// ErrAuthFailed means sign-in or sign-up was rejected. Credentials are
	// never retained after a failure.
	ErrAuthFailed = errors.New("api: authentication failed")
)

// SubmissionError carries the submission endpoint's rejection verbatim so it
// can be shown to the applicant unchanged.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	return "api: submission failed: " + e.Message
}

// StatusError is a non-2xx response with the server's message decoded.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// Doer abstracts the underlying HTTP transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures the platform client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient Doer // defaults to a plain *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
	return o
}

// Client talks to the Raven platform REST API.
type Client struct {
	baseURL    string
	inner      Doer
	tokens     TokenSource
	maxRetries int
}

// New creates a Client for the API at baseURL.
func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()

	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", opts.BaseURL)
	}

	inner := opts.HTTPClient
	if inner == nil {
		inner = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		inner:      inner,
		maxRetries: opts.MaxRetries,
	}, nil
}

// SetTokenSource attaches the session store after construction. The store
// needs the client for sign-in, the client needs the store for tokens; this
// breaks the cycle.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// doOnce executes the request exactly once. The jobs listing and application
// submission must never be retried automatically; a failure goes straight
// back to the caller.
func (c *Client) doOnce(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	return resp, nil
}

// do executes the request with auth headers and retry with exponential
// backoff on 429/503 responses.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)

	var resp *http.Response
	var err error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, gerr := req.GetBody()
			if gerr != nil {
				return nil, fmt.Errorf("api: rewinding request body: %w", gerr)
			}
			req.Body = body
		}

		resp, err = c.inner.Do(req)
		if err != nil {
			return nil, fmt.Errorf("api: request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
			return resp, nil
		}
		if attempt == c.maxRetries-1 {
			break
		}

		resp.Body.Close()
		backoff := time.Duration(1<<uint(attempt)) * time.Second

		select {
		case <-time.After(backoff):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	return resp, err
}

// doJSON executes req and decodes a 2xx response into out. Non-2xx
// responses yield the server's error message.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: marshaling payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling
// back to the status text.
func errorMessage(resp *http.Response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
