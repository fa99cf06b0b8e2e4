package fasterwhisper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dndscribe/dndscribe/internal/speech"
)

func TestNewExtractsScript(t *testing.T) {
	dir := t.TempDir()

	tr, err := New(Config{ScriptDir: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer tr.Close()

	data, err := os.ReadFile(tr.ScriptPath())
	if err != nil {
		t.Fatalf("read extracted script: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("extracted script is empty")
	}
	if filepath.Dir(tr.ScriptPath()) != dir {
		t.Errorf("script extracted outside configured dir: %s", tr.ScriptPath())
	}
}

func TestNewRequiresScriptDir(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing script dir")
	}
}

func TestBuildArgs(t *testing.T) {
	opts := speech.DefaultOptions()
	opts.Language = "en"
	opts.LanguageSet = true

	decision := speech.Decision{Device: speech.DeviceCUDA, Compute: speech.ComputeFloat16}
	args := buildArgs("/tmp/fw.py", "/tmp/a.wav", "large-v2", decision, opts)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"--audio /tmp/a.wav",
		"--model large-v2",
		"--device cuda",
		"--compute-type float16",
		"--language en",
		"--beam-size 5",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}

	// Defaults keep word timestamps and VAD on and conditioning off, so none
	// of the toggle flags should be emitted.
	for _, unexpected := range []string{"--no-word-timestamps", "--no-vad-filter", "--condition-on-previous-text", "--translate"} {
		if strings.Contains(joined, unexpected) {
			t.Errorf("args unexpectedly contain %q: %s", unexpected, joined)
		}
	}
}

func TestBuildArgsToggles(t *testing.T) {
	opts := speech.Options{
		WordTimestampsSet:  true,
		VADFilterSet:       true,
		ConditionOnPrev:    true,
		ConditionOnPrevSet: true,
		Translate:          true,
		TranslateSet:       true,
	}
	args := buildArgs("fw.py", "a.wav", "medium", speech.Decision{Device: speech.DeviceCPU, Compute: speech.ComputeInt8}, opts)
	joined := strings.Join(args, " ")

	for _, want := range []string{"--no-word-timestamps", "--no-vad-filter", "--condition-on-previous-text", "--translate", "--compute-type int8"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestSecondsToDuration(t *testing.T) {
	if got := secondsToDuration(1.5); got != 1500*time.Millisecond {
		t.Errorf("secondsToDuration(1.5) = %v", got)
	}
	if got := secondsToDuration(-3); got != 0 {
		t.Errorf("negative input should map to zero, got %v", got)
	}
}
