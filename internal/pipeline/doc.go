// Package pipeline orchestrates the per-file stage chain (probe, track
// selection, audio extraction, base transcription, optional word alignment,
// synchronization, post-processing, rendering) and runs batches of files
// through it with a bounded worker pool. Files fail independently; only
// systemic faults such as a missing engine binary abort a batch.
package pipeline
