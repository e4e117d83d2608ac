// Package remotetest provides a recording fake of the API for service tests.
package remotetest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/matchme/internal/remote"
)

// Call is one request received by the fake
type Call struct {
	Method string
	Path   string
	Query  string
	Body   []byte
	Auth   string
	At     time.Time
}

// Server is an httptest server that routes by method and path and records
// every call. Paths are registered and recorded without the /v1 prefix.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	routes map[string]http.HandlerFunc
}

// New starts a fake API closed at test cleanup
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for method and path, e.g. ("GET", "/matchs")
func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = h
}

// Calls returns the recorded calls in arrival order
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Count returns how many calls matched method and path
func (s *Server) Count(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Client returns an API client pointed at the fake with fast retries
func (s *Server) Client(t *testing.T) *remote.Client {
	t.Helper()
	return s.ClientWith(t, remote.ResilienceConfig{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	})
}

// ClientWith returns a client for the server using res
func (s *Server) ClientWith(t *testing.T, res remote.ResilienceConfig) *remote.Client {
	t.Helper()
	c, err := remote.New(remote.Config{
		BaseURL:    s.URL + "/v1",
		Timeout:    2 * time.Second,
		Resilience: res,
		Logger:     Logger(),
	})
	if err != nil {
		t.Fatalf("remote.New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/v1")

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.RawQuery,
		Body:   body,
		Auth:   r.Header.Get("Authorization"),
		At:     time.Now(),
	})
	h, ok := s.routes[r.Method+" "+path]
	s.mu.Unlock()

	if !ok {
		Error(w, http.StatusNotFound, "NOT_FOUND", "no route "+r.Method+" "+path)
		return
	}
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	h(w, r)
}

// JSON writes v with status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes an error envelope carrying one code
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, map[string]any{
		"message": message,
		"errors": []map[string]any{
			{"code": code, "message": message, "details": nil},
		},
	})
}

// Logger discards output
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
