package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "transcribe", "run whisper-cli", "engine failed", cause)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatal("marker lost")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	msg := err.Error()
	for _, part := range []string{"transcribe", "run whisper-cli", "engine failed"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("detail %q missing from %q", part, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestRunFatalClassification(t *testing.T) {
	if !RunFatal(Wrap(ErrConfiguration, "preflight", "locate model", "", nil)) {
		t.Fatal("configuration errors should abort the run")
	}
	if !RunFatal(Wrap(ErrNotFound, "preflight", "locate binary", "", nil)) {
		t.Fatal("not-found errors should abort the run")
	}
	if RunFatal(Wrap(ErrDesync, "merge", "clip ratio", "", nil)) {
		t.Fatal("desync is per-file, not run-fatal")
	}
	if RunFatal(Wrap(ErrExternalTool, "align", "whisperx", "", nil)) {
		t.Fatal("tool failures are per-file")
	}
}
