package wanandroid

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake server saw on the wire.
type recordedRequest struct {
	Method      string
	Path        string // raw request target: escaped path plus query
	Body        string
	ContentType string
	UserAgent   string
}

type queuedResponse struct {
	status int
	body   string
}

// fakeServer replays queued responses in order and records every request.
type fakeServer struct {
	t        *testing.T
	srv      *httptest.Server
	mu       sync.Mutex
	queue    []queuedResponse
	fallback *queuedResponse
	requests chan recordedRequest
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{t: t, requests: make(chan recordedRequest, 64)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.requests <- recordedRequest{
		Method:      r.Method,
		Path:        r.RequestURI,
		Body:        string(raw),
		ContentType: r.Header.Get("Content-Type"),
		UserAgent:   r.Header.Get("User-Agent"),
	}

	f.mu.Lock()
	var resp queuedResponse
	switch {
	case len(f.queue) > 0:
		resp = f.queue[0]
		f.queue = f.queue[1:]
	case f.fallback != nil:
		resp = *f.fallback
	default:
		resp = queuedResponse{status: http.StatusInternalServerError, body: "no response queued"}
	}
	f.mu.Unlock()

	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

func (f *fakeServer) enqueue(status int, body string) {
	f.mu.Lock()
	f.queue = append(f.queue, queuedResponse{status: status, body: body})
	f.mu.Unlock()
}

func (f *fakeServer) enqueueEmptyJSON() { f.enqueue(http.StatusOK, "{}") }

func (f *fakeServer) enqueueFixture(name string) {
	f.enqueue(http.StatusOK, readFixture(f.t, name))
}

func (f *fakeServer) alwaysRespond(status int, body string) {
	f.mu.Lock()
	f.fallback = &queuedResponse{status: status, body: body}
	f.mu.Unlock()
}

func (f *fakeServer) takeRequest() recordedRequest {
	f.t.Helper()
	select {
	case req := <-f.requests:
		return req
	case <-time.After(2 * time.Second):
		f.t.Fatalf("no request received")
		return recordedRequest{}
	}
}

// client returns a Client rooted at /mock/ on the fake server.
func (f *fakeServer) client(opts ...Option) *Client {
	f.t.Helper()
	opts = append([]Option{WithTimeout(2 * time.Second)}, opts...)
	c, err := New(f.srv.URL+"/mock/", opts...)
	require.NoError(f.t, err)
	return c
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(raw)
}
