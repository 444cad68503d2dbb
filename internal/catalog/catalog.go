package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"samecast/internal/logging"
	"samecast/internal/metadata"
	"samecast/internal/services"
	"samecast/internal/store"
	"samecast/internal/tmdb"
)

const (
	defaultMinQueryLength = 2
	defaultMaxResults     = 8
)

// Upstream is the subset of the TMDB client the catalog depends on.
type Upstream interface {
	SearchMulti(ctx context.Context, query string) (*tmdb.SearchResponse, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*tmdb.Details, error)
	GetTVDetails(ctx context.Context, showID int64) (*tmdb.Details, error)
}

// Cache is the subset of the store the catalog reads and writes.
type Cache interface {
	GetTitle(ctx context.Context, id int64) (*store.TitleRecord, error)
	LoadTitleDetails(ctx context.Context, id int64) (*metadata.TitleDetails, error)
	UpsertTitleWithCredits(ctx context.Context, details *metadata.TitleDetails, cachedAt time.Time) error
}

// Catalog serves title details from the cache when they are trustworthy and
// from TMDB otherwise, writing every fresh fetch back to the cache.
type Catalog struct {
	cache          Cache
	upstream       Upstream
	now            func() time.Time
	logger         *slog.Logger
	minQueryLength int
	maxResults     int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the time source used for freshness and cached_at stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logging.NewComponentLogger(logger, "catalog")
	}
}

// WithSearchLimits sets the minimum query length and the result cap.
func WithSearchLimits(minQueryLength, maxResults int) Option {
	return func(c *Catalog) {
		if minQueryLength > 0 {
			c.minQueryLength = minQueryLength
		}
		if maxResults > 0 {
			c.maxResults = maxResults
		}
	}
}

// New builds a Catalog.
func New(cache Cache, upstream Upstream, opts ...Option) *Catalog {
	c := &Catalog{
		cache:          cache,
		upstream:       upstream,
		now:            time.Now,
		logger:         logging.NewNop(),
		minQueryLength: defaultMinQueryLength,
		maxResults:     defaultMaxResults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsFresh reports whether a cached title may be served without refetching:
// its credits must be cached and its release year must be unknown or earlier
// than the current UTC year. Titles from this year or later keep changing.
func IsFresh(rec *store.TitleRecord, now time.Time) bool {
	if rec == nil || !rec.CreditsCached {
		return false
	}
	return rec.ReleaseYear == nil || *rec.ReleaseYear < now.UTC().Year()
}

// GetDetails returns canonical details for a title, keyed by id alone.
func (c *Catalog) GetDetails(ctx context.Context, id int64, mediaType metadata.MediaType) (*metadata.TitleDetails, error) {
	if id <= 0 {
		return nil, services.Wrap(services.ErrInvalidInput, "catalog", "get details", fmt.Sprintf("invalid title id %d", id), nil)
	}
	if mediaType != metadata.MediaMovie && mediaType != metadata.MediaTV {
		return nil, services.Wrap(services.ErrInvalidInput, "catalog", "get details", fmt.Sprintf("invalid media type %q", mediaType), nil)
	}
	logger := logging.WithContext(ctx, c.logger).With(
		logging.Int64(logging.FieldTitleID, id),
		logging.String(logging.FieldMediaType, string(mediaType)),
	)

	rec, err := c.cache.GetTitle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	now := c.now()
	if IsFresh(rec, now) {
		details, err := c.cache.LoadTitleDetails(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load cached title: %w", err)
		}
		if details != nil {
			logger.Debug("cache hit", logging.Int("cast", len(details.Cast)), logging.Int("crew", len(details.Crew)))
			return details, nil
		}
	}
	logger.Debug("cache miss", logging.String("reason", missReason(rec)))

	var raw *tmdb.Details
	switch mediaType {
	case metadata.MediaTV:
		raw, err = c.upstream.GetTVDetails(ctx, id)
	default:
		raw, err = c.upstream.GetMovieDetails(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	details, err := metadata.NormalizeDetails(raw, mediaType)
	if err != nil {
		return nil, err
	}
	if err := c.cache.UpsertTitleWithCredits(ctx, details, now); err != nil {
		return nil, fmt.Errorf("write cache: %w", err)
	}
	logger.Info("title cached",
		logging.String("title", details.DisplayTitle()),
		logging.Int("cast", len(details.Cast)),
		logging.Int("crew", len(details.Crew)),
	)
	return details, nil
}

// Search returns up to the configured number of movie and TV matches. Queries
// shorter than the minimum length return no results without calling TMDB.
func (c *Catalog) Search(ctx context.Context, query string) ([]metadata.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < c.minQueryLength {
		return []metadata.SearchResult{}, nil
	}
	resp, err := c.upstream.SearchMulti(ctx, query)
	if err != nil {
		return nil, err
	}
	raw := resp.Results
	if len(raw) > c.maxResults {
		raw = raw[:c.maxResults]
	}
	results, err := metadata.NormalizeSearchResults(raw)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, c.logger).Debug("search",
		logging.String("query", query),
		logging.Int("results", len(results)),
	)
	return results, nil
}

func missReason(rec *store.TitleRecord) string {
	switch {
	case rec == nil:
		return "not cached"
	case !rec.CreditsCached:
		return "credits not cached"
	default:
		return "release year not in the past"
	}
}
