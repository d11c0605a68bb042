// Package projects persists pipeline output as a directory tree and exposes
// helpers for reading it back.
//
// Each project occupies one directory named <timestamp>_<sanitized-title>
// containing a metadata record, the narration script, and whichever media
// artifacts the pipeline has produced so far. The directory listing is the
// database: listing scans directory names newest-first, and lookup matches
// identifier fragments against directory names.
//
// Metadata writes go through a temp-file-and-rename so concurrent readers
// never observe a truncated record. The Store is the only writer; the query
// surface reads concurrently without coordination.
package projects
