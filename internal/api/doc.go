// Package api exposes the dashboard surface: a transport-agnostic service
// over the job and project stores, wire-format DTOs, and the HTTP handlers
// the daemon mounts.
//
// DTOs use snake_case JSON tags matching the metadata records on disk, so a
// dashboard can render either without translation. Not-found outcomes are
// explicit results (404 payloads, the "unknown" job status), never errors.
package api
