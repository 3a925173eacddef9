package audio

import (
	"strconv"
	"strings"

	"subweave/internal/media/ffprobe"
)

// Selection identifies the audio stream to transcribe.
type Selection struct {
	Stream ffprobe.Stream
	// Ordinal is the zero-based position among audio streams, usable in an
	// ffmpeg "-map 0:a:<ordinal>" argument.
	Ordinal int
}

// Label returns a human-readable summary of the selected stream.
func (s Selection) Label() string {
	parts := make([]string, 0, 3)
	if lang := s.Stream.Language(); lang != "" {
		parts = append(parts, lang)
	}
	if s.Stream.CodecName != "" {
		parts = append(parts, s.Stream.CodecName)
	}
	if s.Stream.Channels > 0 {
		parts = append(parts, channelLabel(s.Stream.Channels))
	}
	if len(parts) == 0 {
		return "audio"
	}
	return strings.Join(parts, " | ")
}

func channelLabel(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return strconv.Itoa(channels) + "ch"
	}
}

// Select picks the audio stream to feed the engines. An explicit track
// ordinal wins when valid; otherwise the longest stream is assumed to carry
// the speech (commentary and music tracks are typically shorter), with ties
// going to the earlier stream.
func Select(streams []ffprobe.Stream, explicitTrack int) (Selection, bool) {
	audio := make([]ffprobe.Stream, 0, len(streams))
	for _, stream := range streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			audio = append(audio, stream)
		}
	}
	if len(audio) == 0 {
		return Selection{}, false
	}

	if explicitTrack >= 0 && explicitTrack < len(audio) {
		return Selection{Stream: audio[explicitTrack], Ordinal: explicitTrack}, true
	}

	best := 0
	bestDuration := audio[0].DurationSeconds()
	for i := 1; i < len(audio); i++ {
		if d := audio[i].DurationSeconds(); d > bestDuration {
			best = i
			bestDuration = d
		}
	}
	return Selection{Stream: audio[best], Ordinal: best}, true
}
