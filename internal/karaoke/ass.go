package karaoke

import (
	"fmt"
	"io"
	"math"
	"strings"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

// Options controls ASS rendering.
type Options struct {
	Style Style
	// SpeakerPrefix prepends "[SPEAKER] " to diarized dialogue lines.
	SpeakerPrefix bool
}

const assEventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

// WriteASS renders the transcript as an ASS karaoke document. Each segment
// becomes one Dialogue line whose words carry cumulative `\k` centisecond
// tags: the sum of tags up to word N is the delay from the line's start until
// word N lights up. Rendering is deterministic for identical input.
func WriteASS(w io.Writer, t *transcript.Transcript, opts Options) error {
	style := opts.Style
	if style.Font == "" {
		style = presets["viral"]
	}
	if err := writeHeader(w, style); err != nil {
		return err
	}
	for _, ss := range BuildSchedule(t) {
		text := dialogueText(ss, style)
		if opts.SpeakerPrefix && ss.Speaker != "" {
			text = fmt.Sprintf("[%s] ", ss.Speaker) + text
		}
		if style.MaxLineChars > 0 {
			text = wrapDialogue(text, style.MaxLineChars, style.MaxLines)
		}
		_, err := fmt.Fprintf(w, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			timecode.FormatASS(ss.Interval.Start), timecode.FormatASS(ss.Interval.End), text)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w io.Writer, style Style) error {
	bold := 0
	if style.Bold {
		bold = -1
	}
	_, err := fmt.Fprintf(w, `[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
ScaledBorderAndShadow: yes
WrapStyle: 2

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,%s,%d,%s,%s,%s,&H00000000,%d,0,0,0,100,100,%d,0,1,%d,%d,%d,60,60,%d,1

[Events]
%s
`,
		style.PlayResX, style.PlayResY,
		style.Font, style.FontSize,
		assColor(style.PrimaryColor), assColor(style.SecondaryColor), assColor(style.OutlineColor),
		bold, style.LetterSpacing, style.OutlineSize, style.ShadowDepth, style.Alignment, style.MarginV,
		assEventFormat)
	return err
}

// dialogueText emits the override block and text for every cue of a segment.
// The `\k` value of cue N is the centisecond gap between cue N-1's reveal and
// cue N's reveal (for the first cue, the gap from the line start); later cues
// get a one-centisecond floor so renderers never collapse them.
func dialogueText(ss SegmentSchedule, style Style) string {
	var sb strings.Builder
	prevReveal := ss.Interval.Start
	for i, cue := range ss.Cues {
		delay := cue.Reveal - prevReveal
		if delay < 0 {
			delay = 0
		}
		cs := int(math.Round(delay * 100))
		if i > 0 && cs < 1 {
			cs = 1
		}
		prevReveal = cue.Reveal

		var tags []string
		tags = append(tags, fmt.Sprintf("\\k%d", cs))
		tags = append(tags, animationTags(cue, style)...)

		text := strings.NewReplacer("{", "", "}", "").Replace(cue.Text)
		if style.AllCaps {
			text = strings.ToUpper(text)
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("{" + strings.Join(tags, "") + "}" + text)
	}
	return sb.String()
}

func animationTags(cue Cue, style Style) []string {
	durationMS := int((cue.FullReveal - cue.Reveal) * 1000)
	if durationMS < 100 {
		durationMS = 100
	}
	switch style.Animation {
	case AnimationPop:
		d := min(150, durationMS/2)
		return []string{
			fmt.Sprintf("\\t(0,%d,\\fscx110\\fscy110)", d),
			fmt.Sprintf("\\t(%d,%d,\\fscx100\\fscy100)", d, d*2),
		}
	case AnimationScaleIn:
		d := min(300, durationMS)
		return []string{
			"\\fscx20\\fscy20",
			fmt.Sprintf("\\t(0,%d,\\fscx100\\fscy100)", d),
		}
	default:
		return nil
	}
}

// wrapDialogue inserts \N breaks counting only visible characters; override
// blocks are free. When maxLines is exceeded, the tail piles onto the last
// line rather than being dropped.
func wrapDialogue(text string, maxChars, maxLines int) string {
	tokens := strings.Split(text, " ")
	var lines []string
	var lineLen int
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		visible := visibleLen(tok)
		if len(lines) == 0 {
			lines = append(lines, tok)
			lineLen = visible
			continue
		}
		if lineLen > 0 && lineLen+1+visible > maxChars && (maxLines <= 0 || len(lines) < maxLines) {
			lines = append(lines, tok)
			lineLen = visible
			continue
		}
		lines[len(lines)-1] += " " + tok
		lineLen += 1 + visible
	}
	return strings.Join(lines, "\\N")
}

func visibleLen(token string) int {
	visible := 0
	inTag := false
	for _, r := range token {
		switch {
		case r == '{':
			inTag = true
		case r == '}':
			inTag = false
		case !inTag:
			visible++
		}
	}
	return visible
}
