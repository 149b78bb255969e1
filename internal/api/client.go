// Package api implements the typed REST client for the claims backend.
// Safe requests retry once on transport errors and 5xx responses;
// mutations are sent exactly once, so a timeout can never double-submit a
// claim. Read paths treat a 404 as an empty result.
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

	"github.com/avast/retry-go/v5"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 15 * time.Second

	// defaultReadAttempts is the total number of tries for a safe request:
	// the initial attempt plus one retry.
	defaultReadAttempts = 2
)

// TokenSource yields the bearer token attached to outgoing requests.
// Requests go out unauthenticated when it reports no token.
type TokenSource interface {
	Token() (string, bool)
}

// StaticToken adapts a fixed token string to TokenSource.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, bool) {
	return string(t), t != ""
}

// Config holds client configuration.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ReadAttempts uint
}

// Client is the REST client. It is safe for concurrent use.
type Client struct {
	http     *http.Client
	base     string
	tokens   TokenSource
	attempts uint
	logger   *zap.Logger
}

// NewClient creates a client for the backend at cfg.BaseURL.
func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", cfg.BaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.ReadAttempts
	if attempts == 0 {
		attempts = defaultReadAttempts
	}

	return &Client{
		http:     &http.Client{Timeout: timeout},
		base:     strings.TrimSuffix(parsed.String(), "/"),
		tokens:   tokens,
		attempts: attempts,
		logger:   logger,
	}, nil
}

// newRequest builds a request with auth and content headers attached.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send executes the request and decodes a 2xx JSON body into out. Non-2xx
// responses are normalized into *Error.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// get executes a safe request with the retry policy: one extra attempt on
// transport errors and 5xx, honoring a Retry-After hint when present.
// Permanent failures (4xx, cancellation) short-circuit.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	var last error
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
			var apiErr *Error
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				return apiErr.RetryAfter
			}
			return retry.BackOffDelay(n, err, config)
		}),
	)

	err := r.Do(func() error {
		req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
		if err != nil {
			last = err
			return nil
		}
		last = c.send(req, out)
		if last == nil || !retryable(last) {
			return nil
		}
		c.logger.Debug("read failed, retrying",
			zap.String("path", path),
			zap.Error(last))
		return last
	})
	if last != nil {
		return last
	}
	return err
}

// write executes a mutation exactly once with a JSON body.
func (c *Client) write(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, nil, body, "application/json")
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.write(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.write(ctx, http.MethodPut, path, in, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.write(ctx, http.MethodDelete, path, nil, nil)
}

// retryable reports whether a failed read may be tried again. Backend
// responses qualify only at 5xx; transport failures qualify unless the
// caller's context ended.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}
