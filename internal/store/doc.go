// Package store persists samecast's cache in SQLite.
//
// Titles, people, and credits mirror the canonical metadata records; a title's
// credit set is only ever replaced as a whole inside one transaction, so
// readers see either the old set or the new one. The package also keeps the
// curated comparison suggestions and exposes counts for status output.
//
// Connections use WAL mode, enforce foreign keys, and take write locks at
// BEGIN; transactions that still hit SQLITE_BUSY are retried with backoff.
// The embedded schema carries a version number and Open refuses databases
// created by a different version.
package store
