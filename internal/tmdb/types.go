package tmdb

// Result represents a single TMDB search match. Fields TMDB may send as null
// or omit entirely are pointers so the normalizer can tell them apart.
type Result struct {
	ID           *int64  `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
}

// SearchResponse models the first page of a TMDB multi search.
type SearchResponse struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Role is one character a TV cast member played across episodes.
type Role struct {
	Character    string `json:"character"`
	EpisodeCount int    `json:"episode_count"`
}

// Job is one job a TV crew member held across episodes.
type Job struct {
	Job          string `json:"job"`
	EpisodeCount int    `json:"episode_count"`
}

// CreditMember is a cast or crew entry in either credits or aggregate_credits.
// Movie entries carry Character/Job directly; TV entries carry Roles/Jobs.
type CreditMember struct {
	ID                 *int64  `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        *string `json:"profile_path"`
	KnownForDepartment *string `json:"known_for_department"`
	Order              *int    `json:"order"`
	Character          string  `json:"character"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	Roles              []Role  `json:"roles"`
	Jobs               []Job   `json:"jobs"`
}

// Credits is the cast/crew block appended to a detail response.
type Credits struct {
	Cast []CreditMember `json:"cast"`
	Crew []CreditMember `json:"crew"`
}

// Details is a movie or TV detail payload with its credits appended.
type Details struct {
	ID               *int64   `json:"id"`
	Title            string   `json:"title"`
	Name             string   `json:"name"`
	ReleaseDate      string   `json:"release_date"`
	FirstAirDate     string   `json:"first_air_date"`
	Overview         string   `json:"overview"`
	PosterPath       *string  `json:"poster_path"`
	Credits          *Credits `json:"credits"`
	AggregateCredits *Credits `json:"aggregate_credits"`
}
