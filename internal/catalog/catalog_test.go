package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"samecast/internal/catalog"
	"samecast/internal/metadata"
	"samecast/internal/services"
	"samecast/internal/store"
	"samecast/internal/testsupport"
	"samecast/internal/tmdb"
)

type fakeUpstream struct {
	mu      sync.Mutex
	details map[int64]*tmdb.Details
	search  []tmdb.Result
	calls   map[string]int
	err     error
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{details: map[int64]*tmdb.Details{}, calls: map[string]int{}}
}

func (f *fakeUpstream) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
}

func (f *fakeUpstream) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeUpstream) SearchMulti(_ context.Context, _ string) (*tmdb.SearchResponse, error) {
	f.record("search")
	if f.err != nil {
		return nil, f.err
	}
	return &tmdb.SearchResponse{Page: 1, Results: f.search}, nil
}

func (f *fakeUpstream) GetMovieDetails(_ context.Context, id int64) (*tmdb.Details, error) {
	f.record(fmt.Sprintf("movie/%d", id))
	return f.lookup(id)
}

func (f *fakeUpstream) GetTVDetails(_ context.Context, id int64) (*tmdb.Details, error) {
	f.record(fmt.Sprintf("tv/%d", id))
	return f.lookup(id)
}

func (f *fakeUpstream) lookup(id int64) (*tmdb.Details, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "fake", "details", "unknown id", nil)
	}
	return d, nil
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func movie(id int64, title, releaseDate string) *tmdb.Details {
	return &tmdb.Details{
		ID:          int64Ptr(id),
		Title:       title,
		ReleaseDate: releaseDate,
		Credits: &tmdb.Credits{
			Cast: []tmdb.CreditMember{
				{ID: int64Ptr(2), Name: "Second", Character: "B", Order: intPtr(1)},
				{ID: int64Ptr(1), Name: "First", Character: "A", Order: intPtr(0)},
			},
			Crew: []tmdb.CreditMember{{ID: int64Ptr(9), Name: "Director", Job: "Director", Department: "Directing"}},
		},
	}
}

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, 6, 15, 0, 0, 0, 0, time.UTC) }
}

func newCatalog(t *testing.T, upstream catalog.Upstream, year int) (*catalog.Catalog, *store.Store) {
	t.Helper()
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	return catalog.New(st, upstream, catalog.WithClock(fixedClock(year))), st
}

func TestPastReleaseIsServedFromCache(t *testing.T) {
	up := newFakeUpstream()
	up.details[603] = movie(603, "The Matrix", "1999-03-30")
	cat, _ := newCatalog(t, up, 2026)
	ctx := context.Background()

	first, err := cat.GetDetails(ctx, 603, metadata.MediaMovie)
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	second, err := cat.GetDetails(ctx, 603, metadata.MediaMovie)
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	if got := up.count("movie/603"); got != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", got)
	}
	if second.Title != first.Title || len(second.Cast) != 2 || second.Cast[0].ID != 1 || len(second.Crew) != 1 {
		t.Fatalf("cached details differ: %#v", second)
	}
}

func TestFreshFetchReturnsNormalizedOrder(t *testing.T) {
	up := newFakeUpstream()
	up.details[603] = movie(603, "The Matrix", "1999-03-30")
	cat, _ := newCatalog(t, up, 2026)

	details, err := cat.GetDetails(context.Background(), 603, metadata.MediaMovie)
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	if details.Cast[0].ID != 2 {
		t.Fatalf("expected upstream order on a miss, got %#v", details.Cast)
	}
}

func TestCurrentAndFutureReleasesAlwaysRefetch(t *testing.T) {
	for _, date := range []string{"2026-01-01", "2027-12-31"} {
		t.Run(date, func(t *testing.T) {
			up := newFakeUpstream()
			up.details[42] = movie(42, "Upcoming", date)
			cat, _ := newCatalog(t, up, 2026)
			for i := 0; i < 3; i++ {
				if _, err := cat.GetDetails(context.Background(), 42, metadata.MediaMovie); err != nil {
					t.Fatalf("GetDetails: %v", err)
				}
			}
			if got := up.count("movie/42"); got != 3 {
				t.Fatalf("expected 3 upstream fetches, got %d", got)
			}
		})
	}
}

func TestNullReleaseYearIsCached(t *testing.T) {
	up := newFakeUpstream()
	up.details[7] = movie(7, "Undated", "")
	cat, _ := newCatalog(t, up, 2026)
	for i := 0; i < 2; i++ {
		if _, err := cat.GetDetails(context.Background(), 7, metadata.MediaMovie); err != nil {
			t.Fatalf("GetDetails: %v", err)
		}
	}
	if got := up.count("movie/7"); got != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", got)
	}
}

func TestYearRolloverExpiresCache(t *testing.T) {
	up := newFakeUpstream()
	up.details[42] = movie(42, "Now Showing", "2026-03-01")
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := catalog.New(st, up, catalog.WithClock(fixedClock(2026))).GetDetails(ctx, 42, metadata.MediaMovie); err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	next := catalog.New(st, up, catalog.WithClock(fixedClock(2027)))
	for i := 0; i < 2; i++ {
		if _, err := next.GetDetails(ctx, 42, metadata.MediaMovie); err != nil {
			t.Fatalf("GetDetails: %v", err)
		}
	}
	if got := up.count("movie/42"); got != 1 {
		t.Fatalf("expected the following year to hit the cache, got %d fetches", got)
	}
}

func TestUncachedCreditsRefetch(t *testing.T) {
	rec := &store.TitleRecord{ID: 1, CreditsCached: false, ReleaseYear: intPtr(1990)}
	if catalog.IsFresh(rec, time.Now()) {
		t.Fatal("title without cached credits must not be fresh")
	}
	rec.CreditsCached = true
	if !catalog.IsFresh(rec, time.Now()) {
		t.Fatal("past title with cached credits should be fresh")
	}
	if catalog.IsFresh(nil, time.Now()) {
		t.Fatal("missing title must not be fresh")
	}
}

func TestTVUsesTVEndpoint(t *testing.T) {
	up := newFakeUpstream()
	up.details[1399] = &tmdb.Details{
		ID:           int64Ptr(1399),
		Name:         "Game of Thrones",
		FirstAirDate: "2011-04-17",
		AggregateCredits: &tmdb.Credits{Cast: []tmdb.CreditMember{
			{ID: int64Ptr(1), Name: "Kit", Roles: []tmdb.Role{{Character: "Jon"}, {Character: ""}, {Character: "Aegon"}}},
		}},
	}
	cat, st := newCatalog(t, up, 2026)

	details, err := cat.GetDetails(context.Background(), 1399, metadata.MediaTV)
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	if up.count("tv/1399") != 1 || up.count("movie/1399") != 0 {
		t.Fatalf("unexpected endpoint usage: %#v", up.calls)
	}
	if details.Cast[0].Character != "Jon / Aegon" {
		t.Fatalf("unexpected character %q", details.Cast[0].Character)
	}
	rec, err := st.GetTitle(context.Background(), 1399)
	if err != nil || rec == nil || rec.MediaType != metadata.MediaTV {
		t.Fatalf("expected tv title cached, got %#v, %v", rec, err)
	}
}

func TestUpstreamFailureWritesNothing(t *testing.T) {
	up := newFakeUpstream()
	up.err = services.Wrap(services.ErrUpstreamUnavailable, "fake", "details", "down", nil)
	cat, st := newCatalog(t, up, 2026)

	_, err := cat.GetDetails(context.Background(), 603, metadata.MediaMovie)
	if !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if rec, _ := st.GetTitle(context.Background(), 603); rec != nil {
		t.Fatalf("nothing should be cached, got %#v", rec)
	}
}

func TestMalformedPayloadWritesNothing(t *testing.T) {
	up := newFakeUpstream()
	bad := movie(603, "The Matrix", "1999-03-30")
	bad.Credits.Cast = append(bad.Credits.Cast, tmdb.CreditMember{Name: "No id"})
	up.details[603] = bad
	cat, st := newCatalog(t, up, 2026)

	_, err := cat.GetDetails(context.Background(), 603, metadata.MediaMovie)
	if !errors.Is(err, services.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload, got %v", err)
	}
	if rec, _ := st.GetTitle(context.Background(), 603); rec != nil {
		t.Fatalf("nothing should be cached, got %#v", rec)
	}
}

func TestGetDetailsRejectsInvalidInput(t *testing.T) {
	cat, _ := newCatalog(t, newFakeUpstream(), 2026)
	if _, err := cat.GetDetails(context.Background(), 0, metadata.MediaMovie); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input for id 0, got %v", err)
	}
	if _, err := cat.GetDetails(context.Background(), 1, "person"); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input for media type, got %v", err)
	}
}

func TestSearchLimits(t *testing.T) {
	up := newFakeUpstream()
	for i := int64(1); i <= 12; i++ {
		up.search = append(up.search, tmdb.Result{ID: int64Ptr(i), MediaType: "movie", Title: fmt.Sprintf("Result %d", i)})
	}
	cat, _ := newCatalog(t, up, 2026)
	ctx := context.Background()

	results, err := cat.Search(ctx, " a ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 || up.count("search") != 0 {
		t.Fatalf("short query should not hit upstream, got %d results and %d calls", len(results), up.count("search"))
	}

	results, err = cat.Search(ctx, "result")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 8 || results[0].ID != 1 {
		t.Fatalf("expected 8 capped results, got %d", len(results))
	}
}
