// Package catalog decides whether cached title data can be trusted and fills
// the cache from TMDB when it cannot.
//
// A cached title is served only when its credits were stored and its release
// year is unknown or before the current UTC year. Everything else is fetched,
// normalized, written back in a single transaction, and returned as fetched.
// The package also fronts TMDB's multi search for autocomplete.
package catalog
