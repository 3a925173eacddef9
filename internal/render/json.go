package render

import (
	"encoding/json"
	"io"

	"subweave/internal/transcript"
)

type jsonWord struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Speaker    string   `json:"speaker,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type jsonSegment struct {
	Start   float64    `json:"start"`
	End     float64    `json:"end"`
	Text    string     `json:"text"`
	Speaker string     `json:"speaker,omitempty"`
	Words   []jsonWord `json:"words,omitempty"`
}

type jsonDocument struct {
	Language   string        `json:"language,omitempty"`
	Source     string        `json:"source"`
	WordTiming string        `json:"word_timing"`
	Diarized   bool          `json:"diarized"`
	Segments   []jsonSegment `json:"segments"`
}

// WriteJSON renders the full transcript as indented JSON. Word entries are
// included only when word timing was actually measured; approximated timing
// is a rendering aid, not data worth re-exporting.
func WriteJSON(w io.Writer, t *transcript.Transcript) error {
	doc := jsonDocument{
		Language:   t.Language,
		Source:     string(t.Source),
		WordTiming: string(t.WordTiming),
		Diarized:   t.Diarized,
		Segments:   make([]jsonSegment, 0, len(t.Segments)),
	}
	for _, seg := range t.Segments {
		js := jsonSegment{
			Start:   seg.Interval.Start,
			End:     seg.Interval.End,
			Text:    seg.Text,
			Speaker: string(seg.Speaker),
		}
		if t.WordTiming == transcript.TimingMeasured {
			for _, word := range seg.Words {
				if word.Interval == nil {
					continue
				}
				js.Words = append(js.Words, jsonWord{
					Start:      word.Interval.Start,
					End:        word.Interval.End,
					Text:       word.Text,
					Speaker:    string(word.Speaker),
					Confidence: word.Confidence,
				})
			}
		}
		doc.Segments = append(doc.Segments, js)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
