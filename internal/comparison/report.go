package comparison

import "samecast/internal/metadata"

// TitleSummary is the lightweight descriptor of a compared title.
type TitleSummary struct {
	ID         int64              `json:"id"`
	Title      string             `json:"title"`
	Year       *int               `json:"year"`
	MediaType  metadata.MediaType `json:"media_type"`
	PosterPath *string            `json:"poster_path"`
}

// SharedCast is a person credited as cast in both titles.
type SharedCast struct {
	PersonID    int64   `json:"person_id"`
	Name        string  `json:"name"`
	ProfilePath *string `json:"profile_path"`
	Role1       string  `json:"role_1"`
	Role2       string  `json:"role_2"`
	Order       int     `json:"order"`
}

// SharedCrew is a person credited as crew in both titles and as cast in at most one.
type SharedCrew struct {
	PersonID    int64   `json:"person_id"`
	Name        string  `json:"name"`
	ProfilePath *string `json:"profile_path"`
	Role1       string  `json:"role_1"`
	Role2       string  `json:"role_2"`
	Department  string  `json:"department"`
}

// Report is the result of comparing two titles.
type Report struct {
	Title1      TitleSummary `json:"title_1"`
	Title2      TitleSummary `json:"title_2"`
	SharedCast  []SharedCast `json:"shared_cast"`
	SharedCrew  []SharedCrew `json:"shared_crew"`
	TotalShared int          `json:"total_shared"`
}

func summarize(d *metadata.TitleDetails) TitleSummary {
	return TitleSummary{
		ID:         d.ID,
		Title:      d.Title,
		Year:       d.ReleaseYear,
		MediaType:  d.MediaType,
		PosterPath: d.PosterPath,
	}
}
