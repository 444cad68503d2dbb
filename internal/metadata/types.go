package metadata

import (
	"fmt"
	"strings"
)

// MediaType discriminates movies from TV shows.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// ParseMediaType accepts only "movie" and "tv".
func ParseMediaType(value string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(value))) {
	case MediaMovie:
		return MediaMovie, nil
	case MediaTV:
		return MediaTV, nil
	default:
		return "", fmt.Errorf("unsupported media type %q", value)
	}
}

// CreditType discriminates cast from crew credits.
type CreditType string

const (
	CreditCast CreditType = "cast"
	CreditCrew CreditType = "crew"
)

// DefaultDisplayOrder is used when the provider omits a cast order.
const DefaultDisplayOrder = 999

// Person is the portion of a credit that describes the person.
type Person struct {
	ID                 int64   `json:"person_id"`
	Name               string  `json:"name"`
	ProfilePath        *string `json:"profile_path"`
	KnownForDepartment *string `json:"known_for_department"`
}

// Credit is implemented by CastCredit and CrewCredit.
type Credit interface {
	CreditType() CreditType
	PersonID() int64
}

// CastCredit is an acting credit.
type CastCredit struct {
	Person
	Character    string `json:"character"`
	DisplayOrder int    `json:"order"`
}

func (CastCredit) CreditType() CreditType { return CreditCast }

func (c CastCredit) PersonID() int64 { return c.ID }

// CrewCredit is a behind-the-camera credit.
type CrewCredit struct {
	Person
	Job        string `json:"job"`
	Department string `json:"department"`
}

func (CrewCredit) CreditType() CreditType { return CreditCrew }

func (c CrewCredit) PersonID() int64 { return c.ID }

// SearchResult is one normalized search match.
type SearchResult struct {
	ID          int64     `json:"id"`
	MediaType   MediaType `json:"media_type"`
	Title       string    `json:"title"`
	ReleaseYear *int      `json:"release_year"`
	Overview    string    `json:"overview"`
	PosterPath  *string   `json:"poster_path"`
}

// TitleDetails is the canonical record for a movie or TV show with its credits.
type TitleDetails struct {
	ID          int64        `json:"id"`
	MediaType   MediaType    `json:"media_type"`
	Title       string       `json:"title"`
	ReleaseYear *int         `json:"release_year"`
	Overview    string       `json:"overview"`
	PosterPath  *string      `json:"poster_path"`
	Cast        []CastCredit `json:"cast"`
	Crew        []CrewCredit `json:"crew"`
}

// Credits returns cast then crew as one sequence.
func (d *TitleDetails) Credits() []Credit {
	if d == nil {
		return nil
	}
	out := make([]Credit, 0, len(d.Cast)+len(d.Crew))
	for _, c := range d.Cast {
		out = append(out, c)
	}
	for _, c := range d.Crew {
		out = append(out, c)
	}
	return out
}

// DisplayTitle renders "Title (Year)" or just the title when the year is unknown.
func (d *TitleDetails) DisplayTitle() string {
	if d == nil {
		return ""
	}
	if d.ReleaseYear == nil {
		return d.Title
	}
	return fmt.Sprintf("%s (%d)", d.Title, *d.ReleaseYear)
}
