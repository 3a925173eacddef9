// Package karaoke turns a merged transcript into word-level highlight output.
// BuildSchedule derives the deterministic per-word reveal schedule; WriteASS
// renders it as an ASS document with cumulative \k timing tags and one of the
// named style presets.
package karaoke
