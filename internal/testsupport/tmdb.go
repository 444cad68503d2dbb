package testsupport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// TMDBServer is an httptest stub serving canned TMDB payloads. Detail bodies
// are keyed by "movie/<id>" or "tv/<id>"; unknown keys return 404.
type TMDBServer struct {
	server *httptest.Server

	mu      sync.Mutex
	details map[string]string
	search  string
	images  map[string][]byte
	calls   map[string]int
	failAll bool
}

// NewTMDBServer starts a stub and registers cleanup.
func NewTMDBServer(t testing.TB) *TMDBServer {
	t.Helper()

	stub := &TMDBServer{
		details: map[string]string{},
		images:  map[string][]byte{},
		calls:   map[string]int{},
		search:  `{"page":1,"results":[]}`,
	}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.server.Close)
	return stub
}

// URL returns the stub's base URL.
func (s *TMDBServer) URL() string {
	return s.server.URL
}

// SetDetails registers the body returned for /{mediaType}/{id}.
func (s *TMDBServer) SetDetails(mediaType string, id int64, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[fmt.Sprintf("%s/%d", mediaType, id)] = body
}

// SetSearch registers the body returned for /search/multi.
func (s *TMDBServer) SetSearch(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = body
}

// SetImage registers bytes served for /images/{size}/{file}.
func (s *TMDBServer) SetImage(size, file string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[size+"/"+strings.TrimPrefix(file, "/")] = data
}

// FailAll makes every request return 503.
func (s *TMDBServer) FailAll(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAll = fail
}

// Calls returns how many requests hit the given key ("movie/603", "search", "images/w500/x.jpg").
func (s *TMDBServer) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *TMDBServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "search/multi" {
		key = "search"
	}
	s.calls[key]++

	if s.failAll {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	if rest, ok := strings.CutPrefix(key, "images/"); ok {
		data, found := s.images[rest]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
		return
	}

	body := s.search
	if key != "search" {
		var found bool
		body, found = s.details[key]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
