// Package timecode holds the shared timing primitives: the Interval value
// type plus parsing and formatting for the timestamp dialects spoken by the
// transcription engines and the caption formats (SRT, VTT, ASS).
//
// Timestamp text never crosses an adapter boundary; adapters parse into
// Interval here and renderers format back out. Everything between works in
// float64 seconds.
package timecode
