package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"samecast/internal/metadata"
)

// TitleRecord is a cached title row without its credits.
type TitleRecord struct {
	ID            int64
	MediaType     metadata.MediaType
	Title         string
	ReleaseYear   *int
	Overview      string
	PosterPath    *string
	PosterCached  bool
	CreditsCached bool
	CachedAt      time.Time
}

const titleColumns = "id, media_type, title, release_year, overview, poster_path, poster_cached, credits_cached, cached_at"

func scanTitle(scanner rowScanner) (*TitleRecord, error) {
	var (
		rec           TitleRecord
		mediaType     string
		releaseYear   sql.NullInt64
		posterPath    sql.NullString
		posterCached  int
		creditsCached int
		cachedRaw     string
	)
	if err := scanner.Scan(
		&rec.ID,
		&mediaType,
		&rec.Title,
		&releaseYear,
		&rec.Overview,
		&posterPath,
		&posterCached,
		&creditsCached,
		&cachedRaw,
	); err != nil {
		return nil, err
	}
	rec.MediaType = metadata.MediaType(mediaType)
	rec.ReleaseYear = intPtr(releaseYear)
	rec.PosterPath = stringPtr(posterPath)
	rec.PosterCached = posterCached != 0
	rec.CreditsCached = creditsCached != 0
	if cachedAt, err := parseTimeString(cachedRaw); err == nil {
		rec.CachedAt = cachedAt
	}
	return &rec, nil
}

// UpsertTitleWithCredits writes a title, its people, and its complete credit
// set in one transaction. Existing credits for the title are replaced and the
// title is marked credits_cached. poster_cached and profile_cached survive the
// update only while the image path is unchanged.
func (s *Store) UpsertTitleWithCredits(ctx context.Context, details *metadata.TitleDetails, cachedAt time.Time) error {
	if details == nil {
		return errors.New("upsert title: details required")
	}
	stamp := formatTime(cachedAt)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO titles (id, media_type, title, release_year, overview, poster_path, credits_cached, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, 1, ?)
			ON CONFLICT(id) DO UPDATE SET
				media_type = excluded.media_type,
				title = excluded.title,
				release_year = excluded.release_year,
				overview = excluded.overview,
				poster_cached = CASE WHEN titles.poster_path IS excluded.poster_path THEN titles.poster_cached ELSE 0 END,
				poster_path = excluded.poster_path,
				credits_cached = 1,
				cached_at = excluded.cached_at`,
			details.ID,
			string(details.MediaType),
			details.Title,
			nullableInt(details.ReleaseYear),
			details.Overview,
			nullableString(details.PosterPath),
			stamp,
		); err != nil {
			return fmt.Errorf("upsert title %d: %w", details.ID, err)
		}

		personStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO persons (id, name, profile_path, known_for_department, cached_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				profile_cached = CASE WHEN persons.profile_path IS excluded.profile_path THEN persons.profile_cached ELSE 0 END,
				profile_path = excluded.profile_path,
				known_for_department = excluded.known_for_department,
				cached_at = excluded.cached_at`)
		if err != nil {
			return fmt.Errorf("prepare person upsert: %w", err)
		}
		defer personStmt.Close()

		upsertPerson := func(p metadata.Person) error {
			if _, err := personStmt.ExecContext(ctx, p.ID, p.Name, nullableString(p.ProfilePath), nullableString(p.KnownForDepartment), stamp); err != nil {
				return fmt.Errorf("upsert person %d: %w", p.ID, err)
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM credits WHERE title_id = ?`, details.ID); err != nil {
			return fmt.Errorf("delete credits for title %d: %w", details.ID, err)
		}

		creditStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO credits (title_id, person_id, credit_type, character, display_order, job, department)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare credit insert: %w", err)
		}
		defer creditStmt.Close()

		for _, credit := range details.Credits() {
			var (
				person metadata.Person
				args   []any
			)
			switch c := credit.(type) {
			case metadata.CastCredit:
				person = c.Person
				args = []any{c.Character, c.DisplayOrder, nil, nil}
			case metadata.CrewCredit:
				person = c.Person
				args = []any{nil, nil, c.Job, c.Department}
			default:
				return fmt.Errorf("unsupported credit %T", credit)
			}
			if err := upsertPerson(person); err != nil {
				return err
			}
			params := append([]any{details.ID, credit.PersonID(), string(credit.CreditType())}, args...)
			if _, err := creditStmt.ExecContext(ctx, params...); err != nil {
				return fmt.Errorf("insert %s credit %d/%d: %w", credit.CreditType(), details.ID, credit.PersonID(), err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store title %d: %w", details.ID, err)
	}
	return nil
}

// GetTitle returns the cached title row, or nil when the title is not cached.
func (s *Store) GetTitle(ctx context.Context, id int64) (*TitleRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+titleColumns+` FROM titles WHERE id = ?`, id)
	rec, err := scanTitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get title %d: %w", id, err)
	}
	return rec, nil
}

// ListTitles returns cached titles ordered by most recent refresh.
func (s *Store) ListTitles(ctx context.Context) ([]*TitleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+titleColumns+` FROM titles ORDER BY cached_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var out []*TitleRecord
	for rows.Next() {
		rec, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}
	return out, nil
}

// LoadTitleDetails rebuilds the canonical details of a cached title. Cast is
// ordered by display order; crew keeps insertion order. Credits whose person
// row is missing are skipped. Returns nil when the title is not cached.
func (s *Store) LoadTitleDetails(ctx context.Context, id int64) (*metadata.TitleDetails, error) {
	rec, err := s.GetTitle(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.credit_type, c.character, c.display_order, c.job, c.department,
			p.id, p.name, p.profile_path, p.known_for_department
		FROM credits c
		JOIN persons p ON p.id = c.person_id
		WHERE c.title_id = ?
		ORDER BY c.id`, id)
	if err != nil {
		return nil, fmt.Errorf("load credits for title %d: %w", id, err)
	}
	defer rows.Close()

	details := &metadata.TitleDetails{
		ID:          rec.ID,
		MediaType:   rec.MediaType,
		Title:       rec.Title,
		ReleaseYear: rec.ReleaseYear,
		Overview:    rec.Overview,
		PosterPath:  rec.PosterPath,
		Cast:        []metadata.CastCredit{},
		Crew:        []metadata.CrewCredit{},
	}
	for rows.Next() {
		var (
			creditType   string
			character    sql.NullString
			displayOrder sql.NullInt64
			job          sql.NullString
			department   sql.NullString
			person       metadata.Person
			profilePath  sql.NullString
			knownFor     sql.NullString
		)
		if err := rows.Scan(&creditType, &character, &displayOrder, &job, &department,
			&person.ID, &person.Name, &profilePath, &knownFor); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		person.ProfilePath = stringPtr(profilePath)
		person.KnownForDepartment = stringPtr(knownFor)

		switch metadata.CreditType(creditType) {
		case metadata.CreditCast:
			order := metadata.DefaultDisplayOrder
			if displayOrder.Valid {
				order = int(displayOrder.Int64)
			}
			details.Cast = append(details.Cast, metadata.CastCredit{Person: person, Character: character.String, DisplayOrder: order})
		case metadata.CreditCrew:
			details.Crew = append(details.Crew, metadata.CrewCredit{Person: person, Job: job.String, Department: department.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credits: %w", err)
	}

	sort.SliceStable(details.Cast, func(i, j int) bool {
		return details.Cast[i].DisplayOrder < details.Cast[j].DisplayOrder
	})
	return details, nil
}

// RemoveTitle deletes a title and its credits, then prunes people no longer
// credited anywhere. Reports whether the title existed.
func (s *Store) RemoveTitle(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM titles WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete title %d: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		removed = affected > 0
		if _, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id NOT IN (SELECT DISTINCT person_id FROM credits)`); err != nil {
			return fmt.Errorf("prune persons: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Clear removes every cached title, person, and credit. Suggestions are kept.
func (s *Store) Clear(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{`DELETE FROM credits`, `DELETE FROM titles`, `DELETE FROM persons`} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
		}
		return nil
	})
}

// MarkPosterCached flags every title using posterPath as having its image on disk.
func (s *Store) MarkPosterCached(ctx context.Context, posterPath string) error {
	if _, err := s.execWithRetry(ctx, `UPDATE titles SET poster_cached = 1 WHERE poster_path = ?`, posterPath); err != nil {
		return fmt.Errorf("mark poster cached: %w", err)
	}
	return nil
}

// MarkProfileCached flags every person using profilePath as having its image on disk.
func (s *Store) MarkProfileCached(ctx context.Context, profilePath string) error {
	if _, err := s.execWithRetry(ctx, `UPDATE persons SET profile_cached = 1 WHERE profile_path = ?`, profilePath); err != nil {
		return fmt.Errorf("mark profile cached: %w", err)
	}
	return nil
}
