// Package logging constructs the slog loggers used throughout the pipeline.
// It offers a human-oriented console handler (colored on terminals) and a
// JSON handler with normalized timestamp and level keys, writing to any mix
// of stdout, stderr, and files.
package logging
