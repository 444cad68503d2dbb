// Package main implements the samecast CLI.
//
// The binary runs the HTTP API (serve) and offers direct access to the same
// services for scripting: title search and lookup, two-title comparison with
// table or JSON output, cache inspection and pruning, curated suggestion
// management, and config file helpers. Configuration is loaded once per
// invocation through commandContext, which also wires the store, TMDB client,
// catalog, comparison engine, and image cache on demand.
package main
