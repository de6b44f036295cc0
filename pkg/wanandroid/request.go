package wanandroid

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const formContentType = "application/x-www-form-urlencoded"

// endpoint describes one remote operation: a verb and a path template relative to
// the base URL. Placeholders are written as {name}.
type endpoint struct {
	name   string
	method string
	path   string
}

type param struct {
	key   string
	value string
}

// endpointRequest is a single call against an endpoint. Query and form parameters
// keep insertion order so the wire form is deterministic.
type endpointRequest struct {
	endpoint   endpoint
	pathParams map[string]string
	query      []param
	form       []param
}

func newRequest(ep endpoint) *endpointRequest {
	return &endpointRequest{endpoint: ep, pathParams: map[string]string{}}
}

func (r *endpointRequest) path(name, value string) *endpointRequest {
	r.pathParams[name] = value
	return r
}

// queryOpt adds key only when value is non-nil.
func (r *endpointRequest) queryOpt(key string, value *string) *endpointRequest {
	if value != nil {
		r.query = append(r.query, param{key: key, value: *value})
	}
	return r
}

func (r *endpointRequest) queryParam(key, value string) *endpointRequest {
	r.query = append(r.query, param{key: key, value: value})
	return r
}

func (r *endpointRequest) field(key, value string) *endpointRequest {
	r.form = append(r.form, param{key: key, value: value})
	return r
}

// url joins the expanded path and encoded query onto base. base must end in "/".
func (r *endpointRequest) url(base string) (string, error) {
	p, err := expandPath(r.endpoint.path, r.pathParams)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.endpoint.name, err)
	}
	target := base + p
	if q := encodeParams(r.query); q != "" {
		target += "?" + q
	}
	return target, nil
}

// body returns the form-encoded body, or nil for requests without one.
func (r *endpointRequest) body() []byte {
	if r.endpoint.method != http.MethodPost {
		return nil
	}
	return []byte(encodeParams(r.form))
}

// expandPath substitutes every {name} placeholder with its escaped value.
func expandPath(template string, values map[string]string) (string, error) {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", template)
		}
		name := rest[open+1 : open+end]
		value, ok := values[name]
		if !ok {
			return "", fmt.Errorf("missing path parameter %q", name)
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(value))
		rest = rest[open+end+1:]
	}
}

func encodeParams(params []param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, escapeComponent(p.key)+"="+escapeComponent(p.value))
	}
	return strings.Join(parts, "&")
}

// escapeComponent percent-encodes the UTF-8 bytes of s. Only ASCII letters, digits
// and "-", "_", ".", "~" stay literal; everything else, "*" included, is escaped.
// Spaces become %20 rather than "+"; a literal "+" is already %2B.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// String returns a pointer to v, for optional string parameters.
func String(v string) *string { return &v }

// Int returns a pointer to v, for optional integer parameters.
func Int(v int) *int { return &v }
