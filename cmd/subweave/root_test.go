package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"subweave/internal/pipeline"
	"subweave/internal/transcript"
)

func TestPresetsCommandListsAllPresets(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"presets"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, name := range []string{"viral", "flat", "clean", "tech"} {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("preset %q missing from output:\n%s", name, out.String())
		}
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "subweave ") {
		t.Fatalf("version output = %q", out.String())
	}
}

func TestRenderBatchSummary(t *testing.T) {
	summary := pipeline.BatchSummary{
		Results: []pipeline.FileResult{
			{
				Path:       "/media/talk.mkv",
				WordTiming: transcript.TimingMeasured,
				Outputs:    []string{"talk.srt", "talk.vtt"},
				Elapsed:    3 * time.Second,
			},
			{
				Path: "/media/broken.mkv",
				Err:  errors.New("no audio streams"),
			},
			{
				Path:    "/media/done.mkv",
				Skipped: true,
			},
		},
		Succeeded: 1,
		Skipped:   1,
		Failed:    1,
	}
	rendered := renderBatchSummary(summary)
	for _, want := range []string{"talk.mkv", "measured", "failed", "no audio streams", "skipped", "1 succeeded, 1 skipped, 1 failed"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("summary missing %q:\n%s", want, rendered)
		}
	}
}

func TestRenderTableRightAlignment(t *testing.T) {
	out := renderTable([]string{"Name", "Count"}, [][]string{{"a", "5"}, {"b", "1234"}}, 1)
	if !strings.Contains(out, "Name") || !strings.Contains(out, "1234") {
		t.Fatalf("table content missing:\n%s", out)
	}
	// The Count column is right-aligned, so the short value is padded left.
	if !strings.Contains(out, "    5 ") {
		t.Fatalf("count column not right-aligned:\n%s", out)
	}
}

func TestRunCommandRequiresArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"run"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("run without arguments should fail")
	}
}
