// Package tmdb provides the minimal TMDB API client samecast needs.
//
// It exposes a one-page multi search plus movie and TV detail lookups with
// credits (or aggregate credits) appended in the same request, and builds or
// downloads CDN image URLs. Requests share a client-side rate limiter. Failures
// are tagged with the services error markers: transport errors and non-2xx
// responses as upstream unavailable, undecodable bodies as malformed payloads.
// Raw payload types stay close to the wire; the metadata package turns them
// into canonical records.
package tmdb
