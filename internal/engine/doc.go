// Package engine holds the stateless engine selection policy: which
// transcription sources run for a given file, and whether diarization is
// attached. Keeping the decision in one pure function replaces the implicit
// "which engine won" state that tends to accrete in flag handling.
package engine
