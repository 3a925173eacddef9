// Package services defines shared utilities consumed by the pipeline stages
// and external engine integrations: structured error markers plus the Wrap
// helper that classify failures (run-fatal vs per-file), and context helpers
// that stamp the current file, stage, and correlation ID for logging.
package services
