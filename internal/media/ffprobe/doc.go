// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no subweave-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (duration, size, format name)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns a parsed Result
//   - Parse: decodes already-captured ffprobe JSON
package ffprobe
