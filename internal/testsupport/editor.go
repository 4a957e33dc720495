package testsupport

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is one call observed by a FakeEditor.
type Request struct {
	Method string
	Path   string
	Body   string
}

// FakeEditor is an httptest editor backend keyed by "METHOD /path". Unknown
// routes answer 404. Every request is recorded with its body.
type FakeEditor struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

// NewFakeEditor starts a backend that is closed when the test ends.
func NewFakeEditor(t testing.TB) *FakeEditor {
	t.Helper()
	fe := &FakeEditor{routes: map[string]http.HandlerFunc{}}
	fe.server = httptest.NewServer(http.HandlerFunc(fe.serve))
	t.Cleanup(fe.server.Close)
	return fe
}

func (fe *FakeEditor) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	fe.mu.Lock()
	fe.requests = append(fe.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	handler, ok := fe.routes[r.Method+" "+r.URL.Path]
	fe.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	handler(w, r)
}

// Handle installs fn for method and path.
func (fe *FakeEditor) Handle(method, path string, fn http.HandlerFunc) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.routes[method+" "+path] = fn
}

// Respond installs a route that always answers status with a JSON body.
func (fe *FakeEditor) Respond(method, path string, status int, body string) {
	fe.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Requests returns a copy of everything received so far.
func (fe *FakeEditor) Requests() []Request {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	out := make([]Request, len(fe.requests))
	copy(out, fe.requests)
	return out
}

// URL is the backend's base URL.
func (fe *FakeEditor) URL() string {
	return fe.server.URL
}
