// Package services defines shared utilities consumed by the cache, comparison,
// and HTTP layers.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation identifiers and component
//     names for logging.
//   - Structured error markers plus the Wrap helper so upstream failures,
//     malformed payloads, and caller mistakes can be told apart with errors.Is
//     at the edges without string matching.
//
// The cache and comparison layers never swallow errors; they wrap and return
// them, and the outermost caller picks a user-safe message via UserMessage.
package services
