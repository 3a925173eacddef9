package textutil

import (
	"os"
	"path/filepath"
	"testing"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

func TestLoadGlossaryLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.txt")
	content := "# corrections\nkubernets = Kubernetes\n\ngo lang=Go\nbroken line without separator\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write glossary: %v", err)
	}
	g, err := LoadGlossary(path)
	if err != nil {
		t.Fatalf("LoadGlossary: %v", err)
	}
	if len(g) != 2 {
		t.Fatalf("entries = %d: %v", len(g), g)
	}
	if g["kubernets"] != "Kubernetes" || g["go lang"] != "Go" {
		t.Fatalf("glossary = %v", g)
	}
}

func TestLoadGlossaryJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.json")
	if err := os.WriteFile(path, []byte(`{"whisper cpp": "whisper.cpp"}`), 0o644); err != nil {
		t.Fatalf("write glossary: %v", err)
	}
	g, err := LoadGlossary(path)
	if err != nil {
		t.Fatalf("LoadGlossary: %v", err)
	}
	if g.Apply("using whisper cpp today") != "using whisper.cpp today" {
		t.Fatalf("apply = %q", g.Apply("using whisper cpp today"))
	}
}

func TestLoadGlossaryMissingFile(t *testing.T) {
	if _, err := LoadGlossary(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGlossaryLongestKeyFirst(t *testing.T) {
	g := Glossary{"go": "Go", "go lang": "Go"}
	if got := g.Apply("the go lang release"); got != "the Go release" {
		t.Fatalf("apply = %q", got)
	}
}

func TestGlossaryApplyToTranscript(t *testing.T) {
	tr := &transcript.Transcript{Segments: []transcript.Segment{{
		Interval: timecode.Interval{Start: 0, End: 1},
		Text:     "kubernets rocks",
		Words: []transcript.Word{
			{Text: "kubernets"},
			{Text: "rocks"},
		},
	}}}
	Glossary{"kubernets": "Kubernetes"}.ApplyToTranscript(tr)
	if tr.Segments[0].Text != "Kubernetes rocks" {
		t.Fatalf("segment text = %q", tr.Segments[0].Text)
	}
	if tr.Segments[0].Words[0].Text != "Kubernetes" {
		t.Fatalf("word text = %q", tr.Segments[0].Words[0].Text)
	}
}

func TestRedactPII(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"email", "mail me at ana.silva@example.com please", "mail me at [EMAIL] please"},
		{"phone", "call (11) 98765-4321 now", "call [TEL] now"},
		{"cpf", "cpf 123.456.789-09 registered", "cpf [CPF] registered"},
		{"cnpj", "cnpj 12.345.678/0001-95 on file", "cnpj [CNPJ] on file"},
		{"clean", "nothing sensitive here", "nothing sensitive here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RedactPII(tc.in); got != tc.want {
				t.Fatalf("RedactPII(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRedactTranscript(t *testing.T) {
	tr := &transcript.Transcript{Segments: []transcript.Segment{{
		Text:  "reach me at bob@example.com",
		Words: []transcript.Word{{Text: "bob@example.com"}},
	}}}
	RedactTranscript(tr)
	if tr.Segments[0].Text != "reach me at [EMAIL]" {
		t.Fatalf("segment = %q", tr.Segments[0].Text)
	}
	if tr.Segments[0].Words[0].Text != "[EMAIL]" {
		t.Fatalf("word = %q", tr.Segments[0].Words[0].Text)
	}
}
