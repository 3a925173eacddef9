// Package render holds the stateless output renderers: SRT, WebVTT, plain
// text, timestamped text and JSON. Renderers assume the transcript already
// satisfies the synchronizer's invariants and never reorder or repair cues.
package render
