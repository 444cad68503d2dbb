// Package httpapi serves samecast's JSON API and image proxy over chi.
//
// Routes cover title search, title details, two-title comparison, curated
// suggestions, cache status, and the poster/profile image cache. Every request
// gets an X-Request-ID that is threaded into log lines. Error markers from the
// services package decide the status code and the user-safe message; internal
// detail stays in the logs. Run holds a file lock beside the database so only
// one server owns it at a time.
package httpapi
