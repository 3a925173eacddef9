// Package transcript defines the canonical in-memory transcript model:
// ordered segments containing ordered words, with optional speaker labels.
//
// Entities are created fresh per input file, populated by exactly one engine
// adapter each, mutated only by the synchronizer, and discarded once the
// renderers have consumed them. No state survives across files.
package transcript
