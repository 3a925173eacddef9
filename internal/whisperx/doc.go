// Package whisperx integrates the word-aligned engine (WhisperX).
//
// The Service half launches WhisperX through uvx against an extracted WAV and
// collects its JSON output; ParseJSON is the adapter that normalizes that
// output — per-word timestamps, alignment gaps, diarization turns — into the
// canonical transcript model. Alignment is optional end to end: a failed or
// partial run is discarded wholesale and the pipeline degrades to
// approximated word timing.
package whisperx
