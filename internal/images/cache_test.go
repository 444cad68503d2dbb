package images_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"samecast/internal/images"
	"samecast/internal/services"
)

type fakeFetcher struct {
	mu    sync.Mutex
	data  map[string][]byte
	calls int
}

func (f *fakeFetcher) FetchImage(_ context.Context, size, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	data, ok := f.data[size+path]
	if !ok {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "fake", "image", "missing", nil)
	}
	return data, nil
}

func (f *fakeFetcher) ImageURL(size, path string) string {
	return "https://cdn.example.com/" + size + path
}

type fakeMarker struct {
	posters  []string
	profiles []string
}

func (m *fakeMarker) MarkPosterCached(_ context.Context, p string) error {
	m.posters = append(m.posters, p)
	return nil
}

func (m *fakeMarker) MarkProfileCached(_ context.Context, p string) error {
	m.profiles = append(m.profiles, p)
	return nil
}

func TestServeDownloadsOnceAndMarks(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{data: map[string][]byte{"w500/poster.jpg": []byte("poster-bytes")}}
	marker := &fakeMarker{}
	cache := images.New(dir, fetcher, marker, nil)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		cache.Serve(rec, httptest.NewRequest(http.MethodGet, "/images/poster/poster.jpg", nil), images.KindPoster, "poster.jpg")
		if rec.Code != http.StatusOK || rec.Body.String() != "poster-bytes" {
			t.Fatalf("request %d: status %d body %q", i, rec.Code, rec.Body.String())
		}
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one download, got %d", fetcher.calls)
	}
	if len(marker.posters) != 1 || marker.posters[0] != "/poster.jpg" {
		t.Fatalf("expected poster marked cached, got %#v", marker.posters)
	}
	if _, err := os.Stat(filepath.Join(dir, "posters", "poster.jpg")); err != nil {
		t.Fatalf("expected cached file: %v", err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "posters", ".download-*"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestServeProfileUsesW185(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string][]byte{"w185/face.jpg": []byte("face")}}
	marker := &fakeMarker{}
	cache := images.New(t.TempDir(), fetcher, marker, nil)

	rec := httptest.NewRecorder()
	cache.Serve(rec, httptest.NewRequest(http.MethodGet, "/images/profile/face.jpg", nil), images.KindProfile, "face.jpg")
	if rec.Code != http.StatusOK || rec.Body.String() != "face" {
		t.Fatalf("status %d body %q", rec.Code, rec.Body.String())
	}
	if len(marker.profiles) != 1 {
		t.Fatalf("expected profile marked, got %#v", marker.profiles)
	}
}

func TestServeRedirectsWhenDownloadFails(t *testing.T) {
	cache := images.New(t.TempDir(), &fakeFetcher{}, nil, nil)

	rec := httptest.NewRecorder()
	cache.Serve(rec, httptest.NewRequest(http.MethodGet, "/images/poster/gone.jpg", nil), images.KindPoster, "gone.jpg")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://cdn.example.com/w500/gone.jpg" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestServeUsesExistingFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "posters"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "posters", "local.jpg"), []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}
	fetcher := &fakeFetcher{}
	cache := images.New(dir, fetcher, nil, nil)

	rec := httptest.NewRecorder()
	cache.Serve(rec, httptest.NewRequest(http.MethodGet, "/images/poster/local.jpg", nil), images.KindPoster, "local.jpg")
	if rec.Code != http.StatusOK || rec.Body.String() != "local" || fetcher.calls != 0 {
		t.Fatalf("expected local file without download, got %d %q (calls=%d)", rec.Code, rec.Body.String(), fetcher.calls)
	}
}

func TestSanitizeName(t *testing.T) {
	for _, bad := range []string{"", "..", "../etc/passwd", "a/b.jpg", `a\b.jpg`, ".hidden"} {
		if _, err := images.SanitizeName(bad); !errors.Is(err, services.ErrInvalidInput) {
			t.Fatalf("SanitizeName(%q) should fail, got %v", bad, err)
		}
	}
	got, err := images.SanitizeName("/abc.jpg")
	if err != nil || got != "abc.jpg" {
		t.Fatalf("SanitizeName(/abc.jpg) = %q, %v", got, err)
	}

	cache := images.New(t.TempDir(), &fakeFetcher{}, nil, nil)
	rec := httptest.NewRecorder()
	cache.Serve(rec, httptest.NewRequest(http.MethodGet, "/images/poster/x", nil), images.KindPoster, "../secret")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for traversal, got %d", rec.Code)
	}
}
