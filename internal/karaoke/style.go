package karaoke

import (
	"fmt"
	"sort"
	"strings"

	"subweave/internal/services"
)

// Animation selects the per-word entrance effect a style applies.
type Animation string

const (
	AnimationNone    Animation = "none"
	AnimationPop     Animation = "pop"
	AnimationScaleIn Animation = "scale_in"
)

// Style describes an ASS karaoke look. Colors are RGB hex without the "#".
type Style struct {
	Font          string
	FontSize      int
	Bold          bool
	AllCaps       bool
	LetterSpacing int
	// PrimaryColor is the highlighted (sung) color, SecondaryColor the
	// not-yet-sung color.
	PrimaryColor   string
	SecondaryColor string
	OutlineColor   string
	OutlineSize    int
	ShadowDepth    int
	Alignment      int
	MarginV        int
	PlayResX       int
	PlayResY       int
	MaxLineChars   int
	MaxLines       int
	Animation      Animation
}

// Presets recovered from short-form caption styling in the wild: the viral
// yellow karaoke look, its static variant, a minimalist podcast look and a
// condensed cyan tutorial look.
var presets = map[string]Style{
	"viral": {
		Font:           "Montserrat",
		FontSize:       46,
		Bold:           true,
		AllCaps:        true,
		LetterSpacing:  1,
		PrimaryColor:   "FFE600",
		SecondaryColor: "F5F5F5",
		OutlineColor:   "0B0B0B",
		OutlineSize:    3,
		ShadowDepth:    1,
		Alignment:      2,
		MarginV:        80,
		PlayResX:       1920,
		PlayResY:       1080,
		MaxLineChars:   34,
		MaxLines:       2,
		Animation:      AnimationPop,
	},
	"flat": {
		Font:           "Montserrat",
		FontSize:       46,
		Bold:           true,
		AllCaps:        true,
		LetterSpacing:  1,
		PrimaryColor:   "FFE600",
		SecondaryColor: "F5F5F5",
		OutlineColor:   "0B0B0B",
		OutlineSize:    3,
		ShadowDepth:    1,
		Alignment:      2,
		MarginV:        80,
		PlayResX:       1920,
		PlayResY:       1080,
		MaxLineChars:   34,
		MaxLines:       2,
		Animation:      AnimationNone,
	},
	"clean": {
		Font:           "Inter",
		FontSize:       40,
		PrimaryColor:   "FFFFFF",
		SecondaryColor: "B5C0CB",
		OutlineColor:   "000000",
		Alignment:      2,
		MarginV:        90,
		PlayResX:       1920,
		PlayResY:       1080,
		MaxLineChars:   36,
		MaxLines:       2,
		Animation:      AnimationNone,
	},
	"tech": {
		Font:           "Oswald",
		FontSize:       44,
		Bold:           true,
		AllCaps:        true,
		LetterSpacing:  1,
		PrimaryColor:   "00E0FF",
		SecondaryColor: "EFF7FF",
		OutlineColor:   "000000",
		OutlineSize:    2,
		ShadowDepth:    1,
		Alignment:      2,
		MarginV:        78,
		PlayResX:       1920,
		PlayResY:       1080,
		MaxLineChars:   36,
		MaxLines:       2,
		Animation:      AnimationScaleIn,
	},
}

// Preset returns the named style.
func Preset(name string) (Style, error) {
	style, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Style{}, services.Wrap(services.ErrConfiguration, "karaoke", "select preset",
			fmt.Sprintf("unknown karaoke preset %q (available: %s)", name, strings.Join(PresetNames(), ", ")), nil)
	}
	return style, nil
}

// PresetNames lists the available presets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// assColor converts "RRGGBB" to the ASS "&H00BBGGRR" form.
func assColor(rgb string) string {
	rgb = strings.TrimPrefix(strings.TrimSpace(rgb), "#")
	if len(rgb) != 6 {
		rgb = "FFFFFF"
	}
	return "&H00" + strings.ToUpper(rgb[4:6]+rgb[2:4]+rgb[0:2])
}
