// Package testsupport holds shared fixtures for samecast tests: temp-dir
// configs, an opened store with cleanup, and a stub TMDB server that counts
// requests per endpoint.
package testsupport
