package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Stats summarizes the cache contents.
type Stats struct {
	Titles            int        `json:"titles"`
	Movies            int        `json:"movies"`
	TVShows           int        `json:"tv_shows"`
	Persons           int        `json:"persons"`
	Credits           int        `json:"credits"`
	PostersCached     int        `json:"posters_cached"`
	ProfilesCached    int        `json:"profiles_cached"`
	ActiveSuggestions int        `json:"active_suggestions"`
	OldestCachedAt    *time.Time `json:"oldest_cached_at,omitempty"`
	NewestCachedAt    *time.Time `json:"newest_cached_at,omitempty"`
}

// Stats counts cached rows.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats     Stats
		oldestRaw sql.NullString
		newestRaw sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(1),
			COALESCE(SUM(media_type = 'movie'), 0),
			COALESCE(SUM(media_type = 'tv'), 0),
			COALESCE(SUM(poster_cached), 0),
			MIN(cached_at),
			MAX(cached_at)
		FROM titles`).Scan(&stats.Titles, &stats.Movies, &stats.TVShows, &stats.PostersCached, &oldestRaw, &newestRaw)
	if err != nil {
		return Stats{}, fmt.Errorf("title stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(profile_cached), 0) FROM persons`).Scan(&stats.Persons, &stats.ProfilesCached); err != nil {
		return Stats{}, fmt.Errorf("person stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM credits`).Scan(&stats.Credits); err != nil {
		return Stats{}, fmt.Errorf("credit stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM suggestions WHERE active = 1`).Scan(&stats.ActiveSuggestions); err != nil {
		return Stats{}, fmt.Errorf("suggestion stats: %w", err)
	}
	if oldestRaw.Valid {
		if ts, err := parseTimeString(oldestRaw.String); err == nil {
			stats.OldestCachedAt = &ts
		}
	}
	if newestRaw.Valid {
		if ts, err := parseTimeString(newestRaw.String); err == nil {
			stats.NewestCachedAt = &ts
		}
	}
	return stats, nil
}
