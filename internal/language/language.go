package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ToISO2 converts any recognized language hint (ISO 639-1/2 code or BCP-47
// tag such as "pt-BR") to the ISO 639-1 two-letter form the transcription
// engines expect. Returns the empty string for unrecognized input.
func ToISO2(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	code := base.String()
	// Base.String returns the ISO 639-3 code for languages without a
	// two-letter form; the engines only accept two-letter codes.
	if len(code) != 2 {
		return ""
	}
	return code
}

// DisplayName returns the English display name for a language hint, or the
// input itself when it cannot be resolved.
func DisplayName(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return hint
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return hint
	}
	return name
}
