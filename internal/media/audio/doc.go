// Package audio selects and extracts the speech track of a media file.
//
// Select assumes the longest audio stream carries the speech, since
// commentary and music tracks are typically shorter; an explicit track
// ordinal from configuration overrides the heuristic. The Extractor then
// demuxes that stream into the mono 16 kHz WAV both transcription engines
// consume.
package audio
