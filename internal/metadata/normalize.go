package metadata

import (
	"strconv"
	"strings"

	"samecast/internal/services"
	"samecast/internal/tmdb"
)

const roleSeparator = " / "

// NormalizeSearchResult converts a raw multi-search match.
func NormalizeSearchResult(raw tmdb.Result) (SearchResult, error) {
	if raw.ID == nil {
		return SearchResult{}, malformed("search result", "missing id")
	}
	mediaType := MediaMovie
	if raw.MediaType == string(MediaTV) {
		mediaType = MediaTV
	}
	title, date := pickTitle(mediaType, raw.Title, raw.ReleaseDate, raw.Name, raw.FirstAirDate)
	return SearchResult{
		ID:          *raw.ID,
		MediaType:   mediaType,
		Title:       title,
		ReleaseYear: ParseYear(date),
		Overview:    raw.Overview,
		PosterPath:  raw.PosterPath,
	}, nil
}

// NormalizeSearchResults converts every raw match, stopping at the first malformed one.
func NormalizeSearchResults(raw []tmdb.Result) ([]SearchResult, error) {
	out := make([]SearchResult, 0, len(raw))
	for _, r := range raw {
		res, err := NormalizeSearchResult(r)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// NormalizeDetails converts a movie or TV detail payload, with credits, into
// the canonical record. Movies read "credits"; TV reads "aggregate_credits".
func NormalizeDetails(raw *tmdb.Details, mediaType MediaType) (*TitleDetails, error) {
	if raw == nil {
		return nil, malformed("details", "empty payload")
	}
	if raw.ID == nil {
		return nil, malformed("details", "missing id")
	}
	if mediaType != MediaTV {
		mediaType = MediaMovie
	}

	title, date := pickTitle(mediaType, raw.Title, raw.ReleaseDate, raw.Name, raw.FirstAirDate)
	details := &TitleDetails{
		ID:          *raw.ID,
		MediaType:   mediaType,
		Title:       title,
		ReleaseYear: ParseYear(date),
		Overview:    raw.Overview,
		PosterPath:  raw.PosterPath,
		Cast:        []CastCredit{},
		Crew:        []CrewCredit{},
	}

	credits := raw.Credits
	if mediaType == MediaTV {
		credits = raw.AggregateCredits
	}
	if credits == nil {
		return details, nil
	}

	for _, member := range credits.Cast {
		person, err := normalizePerson(member)
		if err != nil {
			return nil, err
		}
		character := member.Character
		if mediaType == MediaTV {
			character = joinRoles(member.Roles)
		}
		order := DefaultDisplayOrder
		if member.Order != nil {
			order = *member.Order
		}
		details.Cast = append(details.Cast, CastCredit{Person: person, Character: character, DisplayOrder: order})
	}
	for _, member := range credits.Crew {
		person, err := normalizePerson(member)
		if err != nil {
			return nil, err
		}
		job := member.Job
		if mediaType == MediaTV {
			job = joinJobs(member.Jobs)
		}
		details.Crew = append(details.Crew, CrewCredit{Person: person, Job: job, Department: member.Department})
	}
	return details, nil
}

// ParseYear returns the integer value of the first four characters of an
// ISO date, or nil when the date is too short or does not start with digits.
func ParseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return nil
		}
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

func pickTitle(mediaType MediaType, title, releaseDate, name, firstAirDate string) (string, string) {
	if mediaType == MediaTV {
		return name, firstAirDate
	}
	return title, releaseDate
}

func normalizePerson(member tmdb.CreditMember) (Person, error) {
	if member.ID == nil {
		return Person{}, malformed("credit", "missing person id")
	}
	return Person{
		ID:                 *member.ID,
		Name:               member.Name,
		ProfilePath:        member.ProfilePath,
		KnownForDepartment: member.KnownForDepartment,
	}, nil
}

func joinRoles(roles []tmdb.Role) string {
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		if role.Character != "" {
			parts = append(parts, role.Character)
		}
	}
	return strings.Join(parts, roleSeparator)
}

func joinJobs(jobs []tmdb.Job) string {
	parts := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if job.Job != "" {
			parts = append(parts, job.Job)
		}
	}
	return strings.Join(parts, roleSeparator)
}

func malformed(operation, message string) error {
	return services.Wrap(services.ErrMalformedPayload, "metadata", operation, message, nil)
}
