package wanandroid

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/wanreader/pkg/httpclient"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithTimeout sets the request timeout of the default transport. It has no effect
// when WithHTTPClient supplies the transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithHeaders adds headers sent on every request. Blank keys or values are skipped.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) error {
		for k, v := range headers {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k == "" || v == "" {
				continue
			}
			c.headers[k] = v
		}
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return WithHeaders(map[string]string{"User-Agent": ua})
}

// WithLogger routes request logging to log.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}
