// Package metadata defines samecast's canonical title and credit records and
// normalizes raw TMDB payloads into them.
//
// Movie and TV payloads differ: movies carry a single character or job per
// credit under "credits", while TV shows list every role or job under
// "aggregate_credits". Normalization hides that difference, fills defaults
// (empty strings, display order 999) and derives the nullable release year.
package metadata
