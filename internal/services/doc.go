// Package services defines shared utilities consumed by the pipeline and the
// external provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job identifiers, pipeline step names, and
//     correlation identifiers for logging and tracing.
//   - The Failure type that provider adapters return instead of raising, so
//     the orchestrator can pattern-match on step outcomes.
//
// Use these helpers when wiring new provider adapters so error handling and
// observability stay uniform across the pipeline.
package services
