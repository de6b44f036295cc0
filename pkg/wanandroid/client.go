// Package wanandroid is a typed client for the WanAndroid article API.
package wanandroid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/wanreader/pkg/httpclient"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://www.wanandroid.com/"

const defaultTimeout = 15 * time.Second

// Client issues one HTTP exchange per call and holds no per-call state, so a single
// value can be shared across goroutines.
type Client struct {
	baseURL string
	http    httpclient.Client
	timeout time.Duration
	headers map[string]string
	log     Logger
}

// New builds a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: base,
		timeout: defaultTimeout,
		headers: map[string]string{"Accept": "application/json"},
		log:     noopLogger{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	return c, nil
}

// BaseURL returns the normalized root every endpoint path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("base url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url %q must use http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("base url %q must not carry a query or fragment", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}
	return u.String(), nil
}

// call sends req and decodes the body into Envelope[T].
func call[T any](ctx context.Context, c *Client, req *endpointRequest) (Envelope[T], error) {
	var env Envelope[T]
	if c == nil || c.http == nil {
		return env, errors.New("wanandroid client is not initialized")
	}

	name := req.endpoint.name
	target, err := req.url(c.baseURL)
	if err != nil {
		return env, err
	}

	start := time.Now()
	resp, err := c.send(ctx, req, target)
	if err != nil {
		observe(name, outcomeTransport, start)
		c.log.WarnObj("wanandroid request failed", "request_error", map[string]any{
			"endpoint": name,
			"url":      target,
			"error":    err.Error(),
		})
		return env, &TransportError{Endpoint: name, URL: target, Err: err}
	}

	body := resp.Body()
	decodeErr := decodeEnvelope(body, &env)

	// The API reports application errors inside 200 responses; a non-2xx status is
	// only tolerated when the body is an envelope carrying a non-zero errorCode.
	if !httpclient.IsSuccess(resp) {
		if decodeErr != nil || !carriesErrorCode(body) {
			observe(name, outcomeTransport, start)
			c.log.WarnObj("wanandroid unexpected status", "request_error", map[string]any{
				"endpoint": name,
				"url":      target,
				"status":   resp.StatusCode(),
			})
			return Envelope[T]{}, &TransportError{
				Endpoint:   name,
				URL:        target,
				StatusCode: resp.StatusCode(),
				Body:       bodySnippet(body),
				Err:        fmt.Errorf("unexpected status %d", resp.StatusCode()),
			}
		}
	} else if decodeErr != nil {
		observe(name, outcomeDecode, start)
		c.log.WarnObj("wanandroid response decode failed", "decode_error", map[string]any{
			"endpoint": name,
			"url":      target,
			"error":    decodeErr.Error(),
		})
		return Envelope[T]{}, &DecodeError{Endpoint: name, Body: bodySnippet(body), Err: decodeErr}
	}

	if env.ErrorCode != 0 {
		observe(name, outcomeAPIError, start)
	} else {
		observe(name, outcomeOK, start)
	}
	c.log.DebugObj("wanandroid request completed", "request", map[string]any{
		"endpoint":   name,
		"url":        target,
		"status":     resp.StatusCode(),
		"error_code": env.ErrorCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return env, nil
}

// decodeEnvelope requires body to be a JSON object; a bare null would otherwise
// decode into a zero envelope that reads as success.
func decodeEnvelope[T any](body []byte, env *Envelope[T]) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("response body is not a JSON object")
	}
	return json.Unmarshal(trimmed, env)
}

// carriesErrorCode reports whether body holds an explicit, non-zero errorCode.
func carriesErrorCode(body []byte) bool {
	var head struct {
		ErrorCode *int `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return false
	}
	return head.ErrorCode != nil && *head.ErrorCode != 0
}

func (c *Client) send(ctx context.Context, req *endpointRequest, target string) (httpclient.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	headers := make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		headers[k] = v
	}

	switch req.endpoint.method {
	case http.MethodGet:
		return c.http.Get(ctx, target, headers)
	case http.MethodPost:
		headers["Content-Type"] = formContentType
		return c.http.Post(ctx, target, req.body(), headers)
	default:
		return nil, fmt.Errorf("unsupported method %s", req.endpoint.method)
	}
}
