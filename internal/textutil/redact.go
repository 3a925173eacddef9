package textutil

import (
	"regexp"

	"subweave/internal/transcript"
)

// Personally identifying patterns scrubbed from transcripts on request.
// Phone, CPF and CNPJ follow Brazilian formats; email is generic.
var (
	piiEmail = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	piiPhone = regexp.MustCompile(`(?:(?:\+?55)\s*)?(?:\(?\d{2}\)?\s*)?\d{4,5}[-\s]?\d{4}\b`)
	piiCPF   = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)
	piiCNPJ  = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
)

// RedactPII replaces emails, phone numbers, CPFs and CNPJs with placeholder
// tags.
func RedactPII(text string) string {
	text = piiEmail.ReplaceAllString(text, "[EMAIL]")
	text = piiCNPJ.ReplaceAllString(text, "[CNPJ]")
	text = piiCPF.ReplaceAllString(text, "[CPF]")
	text = piiPhone.ReplaceAllString(text, "[TEL]")
	return text
}

// RedactTranscript scrubs all segment and word text in place.
func RedactTranscript(t *transcript.Transcript) {
	for si := range t.Segments {
		seg := &t.Segments[si]
		seg.Text = RedactPII(seg.Text)
		for wi := range seg.Words {
			seg.Words[wi].Text = RedactPII(seg.Words[wi].Text)
		}
	}
}
