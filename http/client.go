package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout is the default delivery request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxRetries is the default number of delivery attempts.
const DefaultMaxRetries = 3

// DefaultRetryWait is the default initial wait between attempts.
const DefaultRetryWait = 1 * time.Second

// Client delivers JSON payloads to a single endpoint, retrying transient
// failures with exponential backoff. A Retry-After header from the receiver
// overrides the backoff.
type Client struct {
	client     *http.Client
	endpoint   string
	name       string
	maxRetries int
	retryWait  time.Duration

	// beforeRequest is called before each attempt (for auth headers, etc.)
	beforeRequest func(req *http.Request)
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client        *http.Client
	Endpoint      string // URL payloads are delivered to
	Name          string // endpoint label used in errors
	MaxRetries    int
	RetryWait     time.Duration
	BeforeRequest func(req *http.Request)
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:        cfg.Client,
		endpoint:      cfg.Endpoint,
		name:          cfg.Name,
		maxRetries:    cfg.MaxRetries,
		retryWait:     cfg.RetryWait,
		beforeRequest: cfg.BeforeRequest,
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}
	if c.name == "" {
		c.name = "endpoint"
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.retryWait <= 0 {
		c.retryWait = DefaultRetryWait
	}

	return c
}

// Post delivers one JSON payload.
func (c *Client) Post(ctx context.Context, payload any) error {
	return c.PostWithHeaders(ctx, payload, nil)
}

// PostWithHeaders delivers one JSON payload with custom headers.
func (c *Client) PostWithHeaders(ctx context.Context, payload any, headers map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	var lastErr error
	for attempt := range c.maxRetries {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		// Apply auth headers via callback
		if c.beforeRequest != nil {
			c.beforeRequest(req)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries-1 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryWait * time.Duration(1<<attempt)):
					continue
				}
			}
			return fmt.Errorf("%s delivery failed: %w", c.name, err)
		}

		// Retry throttling and server errors while attempts remain
		if retryableStatus(resp.StatusCode) && attempt < c.maxRetries-1 {
			wait := c.getRetryWait(resp, attempt)
			drain(resp)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		if resp.StatusCode >= 400 {
			return c.deliveryError(resp)
		}

		drain(resp)
		return nil
	}

	return lastErr
}

// deliveryError parses an error response into the matching error type.
func (c *Client) deliveryError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Endpoint:   c.name,
			RetryAfter: retryAfterHeader(resp),
		}
	}

	dErr := &DeliveryError{
		Endpoint:   c.name,
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	// Try to parse error message from body
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			dErr.Message = errResp.Message
		} else if errResp.Error != "" {
			dErr.Message = errResp.Error
		}
	}

	if dErr.Message == "" {
		dErr.Message = http.StatusText(resp.StatusCode)
	}

	return dErr
}

// getRetryWait calculates the wait time before the next attempt. A
// parseable Retry-After header always wins, zero included.
func (c *Client) getRetryWait(resp *http.Response, attempt int) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff
	return c.retryWait * time.Duration(1<<attempt)
}

// retryAfterHeader parses a Retry-After header given in seconds.
func retryAfterHeader(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// retryableStatus reports whether a status code is worth another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// drain discards the response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
