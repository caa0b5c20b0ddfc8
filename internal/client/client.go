// Package client posts completed resume forms to the remote resume service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/resume-form/internal/types"
)

// DefaultTimeout bounds a single submission at the transport level.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for outbound requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeForm/1.0)"

// DefaultBaseURL is the resume service the form submits to.
const DefaultBaseURL = "https://tb-family-qrcode-6f3beee0dd82.herokuapp.com"

// Error represents a failed submission.
// StatusCode is zero when no response was received.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("submit error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("submit error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	UserAgent  string
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		UserAgent: DefaultUserAgent,
	}
}

// Client submits resume payloads to one service base URL.
type Client struct {
	baseURL    *url.URL
	userAgent  string
	httpClient *http.Client
}

// New creates a client for baseURL, which must be an absolute http(s) URL.
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: baseURL, Message: "invalid base URL", Cause: err}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    parsed,
		userAgent:  userAgent,
		httpClient: httpClient,
	}, nil
}

// EndpointURL returns the submission URL for an employee. The ID is a
// single path segment, so slashes in it are escaped.
func (c *Client) EndpointURL(employeeID string) string {
	return c.baseURL.String() + "/resume-details/" + url.PathEscape(employeeID)
}

// SubmitResume posts payload to /resume-details/{employeeID}. Any 2xx
// response is success; the response body is discarded.
func (c *Client) SubmitResume(ctx context.Context, employeeID string, payload *types.SubmissionPayload) error {
	endpoint := c.EndpointURL(employeeID)

	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{URL: endpoint, Message: "failed to encode payload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &Error{URL: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{URL: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}
	return nil
}
