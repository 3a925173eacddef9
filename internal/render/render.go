package render

import (
	"fmt"
	"io"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

// Options applies to all text renderers.
type Options struct {
	// SpeakerPrefix prepends "[SPEAKER] " to diarized cue text.
	SpeakerPrefix bool
}

func cueText(seg transcript.Segment, opts Options) string {
	if opts.SpeakerPrefix && seg.Speaker != "" {
		return fmt.Sprintf("[%s] %s", seg.Speaker, seg.Text)
	}
	return seg.Text
}

// WriteSRT renders the transcript as SubRip: 1-based indices, comma
// millisecond timestamps, one blank line between cues.
func WriteSRT(w io.Writer, t *transcript.Transcript, opts Options) error {
	for i, seg := range t.Segments {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1,
			timecode.FormatSRT(seg.Interval.Start), timecode.FormatSRT(seg.Interval.End),
			cueText(seg, opts))
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteVTT renders the transcript as WebVTT.
func WriteVTT(w io.Writer, t *transcript.Transcript, opts Options) error {
	if _, err := io.WriteString(w, "WEBVTT\n\n"); err != nil {
		return err
	}
	for _, seg := range t.Segments {
		_, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n",
			timecode.FormatVTT(seg.Interval.Start), timecode.FormatVTT(seg.Interval.End),
			cueText(seg, opts))
		if err != nil {
			return err
		}
	}
	return nil
}

// WritePlainText renders one cue per line without timing.
func WritePlainText(w io.Writer, t *transcript.Transcript, opts Options) error {
	for _, seg := range t.Segments {
		if _, err := fmt.Fprintln(w, cueText(seg, opts)); err != nil {
			return err
		}
	}
	return nil
}

// WriteTimestamped renders one cue per line prefixed with its interval.
func WriteTimestamped(w io.Writer, t *transcript.Transcript, opts Options) error {
	for _, seg := range t.Segments {
		_, err := fmt.Fprintf(w, "[%s --> %s] %s\n",
			timecode.FormatVTT(seg.Interval.Start), timecode.FormatVTT(seg.Interval.End),
			cueText(seg, opts))
		if err != nil {
			return err
		}
	}
	return nil
}
