package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"samecast/internal/metadata"
)

// TitleRef identifies a title by id and media type.
type TitleRef struct {
	ID        int64              `json:"id"`
	MediaType metadata.MediaType `json:"media_type"`
}

func (r TitleRef) String() string {
	return fmt.Sprintf("%s:%d", r.MediaType, r.ID)
}

// Suggestion is a curated pair of titles offered as a starting comparison.
type Suggestion struct {
	ID        int64     `json:"id"`
	First     TitleRef  `json:"first"`
	Second    TitleRef  `json:"second"`
	Label     string    `json:"label"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

const suggestionColumns = "id, title_id_1, media_type_1, title_id_2, media_type_2, label, active, created_at"

func scanSuggestion(scanner rowScanner) (*Suggestion, error) {
	var (
		sug        Suggestion
		mediaType1 string
		mediaType2 string
		active     int
		createdRaw string
	)
	if err := scanner.Scan(&sug.ID, &sug.First.ID, &mediaType1, &sug.Second.ID, &mediaType2, &sug.Label, &active, &createdRaw); err != nil {
		return nil, err
	}
	sug.First.MediaType = metadata.MediaType(mediaType1)
	sug.Second.MediaType = metadata.MediaType(mediaType2)
	sug.Active = active != 0
	if created, err := parseTimeString(createdRaw); err == nil {
		sug.CreatedAt = created
	}
	return &sug, nil
}

// AddSuggestion stores a new active suggestion and returns it.
func (s *Store) AddSuggestion(ctx context.Context, first, second TitleRef, label string) (*Suggestion, error) {
	res, err := s.execWithRetry(ctx, `
		INSERT INTO suggestions (title_id_1, media_type_1, title_id_2, media_type_2, label, active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		first.ID, string(first.MediaType), second.ID, string(second.MediaType), label, formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert suggestion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetSuggestion(ctx, id)
}

// GetSuggestion returns a suggestion by id, or nil when absent.
func (s *Store) GetSuggestion(ctx context.Context, id int64) (*Suggestion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+suggestionColumns+` FROM suggestions WHERE id = ?`, id)
	sug, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get suggestion %d: %w", id, err)
	}
	return sug, nil
}

// ListSuggestions returns suggestions in creation order.
func (s *Store) ListSuggestions(ctx context.Context, activeOnly bool) ([]*Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	out := []*Suggestion{}
	for rows.Next() {
		sug, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, sug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return out, nil
}

// SetSuggestionActive toggles a suggestion. Reports whether it exists.
func (s *Store) SetSuggestionActive(ctx context.Context, id int64, active bool) (bool, error) {
	res, err := s.execWithRetry(ctx, `UPDATE suggestions SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return false, fmt.Errorf("update suggestion %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
