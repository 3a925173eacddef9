package textutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"subweave/internal/services"
	"subweave/internal/transcript"
)

// Glossary maps misrecognized terms to their corrections, applied as literal
// replacements in cue and word text.
type Glossary map[string]string

// LoadGlossary reads a glossary file. JSON files hold a flat string map;
// anything else is parsed as "wrong = right" lines with '#' comments.
func LoadGlossary(path string) (Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "textutil", "load glossary", "", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var g Glossary
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, services.Wrap(services.ErrValidation, "textutil", "load glossary",
				fmt.Sprintf("invalid glossary JSON in %s", path), err)
		}
		return g, nil
	}

	g := make(Glossary)
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wrong, right, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		wrong = strings.TrimSpace(wrong)
		if wrong != "" {
			g[wrong] = strings.TrimSpace(right)
		}
	}
	return g, nil
}

// Apply rewrites text with every glossary entry, longest keys first so
// overlapping entries behave predictably.
func (g Glossary) Apply(text string) string {
	if len(g) == 0 {
		return text
	}
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		text = strings.ReplaceAll(text, k, g[k])
	}
	return text
}

// ApplyToTranscript rewrites all segment and word text in place.
func (g Glossary) ApplyToTranscript(t *transcript.Transcript) {
	if len(g) == 0 {
		return
	}
	for si := range t.Segments {
		seg := &t.Segments[si]
		seg.Text = g.Apply(seg.Text)
		for wi := range seg.Words {
			seg.Words[wi].Text = g.Apply(seg.Words[wi].Text)
		}
	}
}
