// Package whispercpp integrates the fast segment-level engine (whisper.cpp).
//
// It has two halves: the Service that invokes the whisper-cli binary against
// an extracted WAV, and ParseSRT, the adapter that normalizes the engine's
// textual output into the canonical transcript model. Timestamp dialect
// quirks, duplicate cues, and overlapping cues are all absorbed here; nothing
// downstream ever sees raw engine output.
package whispercpp
