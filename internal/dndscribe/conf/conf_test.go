package conf

import (
	"testing"

	"github.com/dndscribe/dndscribe/internal/speech"
)

func TestSpeechConfigToOptionsDefaults(t *testing.T) {
	var cfg *SpeechConfig

	opts := cfg.ToOptions()
	if opts.BeamSize != speech.DefaultBeamSize {
		t.Errorf("beam size = %d, want %d", opts.BeamSize, speech.DefaultBeamSize)
	}
	if !opts.WordTimestamps || !opts.VADFilter || opts.ConditionOnPrev {
		t.Errorf("long-form defaults not applied: %+v", opts)
	}
}

func TestSpeechConfigToOptionsOverrides(t *testing.T) {
	translate := true
	vad := false
	temp := 0.4

	cfg := &SpeechConfig{
		Language:    "en",
		Translate:   &translate,
		Threads:     4,
		BeamSize:    2,
		VADFilter:   &vad,
		Temperature: &temp,
	}

	opts := cfg.ToOptions()
	if !opts.LanguageSet || opts.Language != "en" {
		t.Errorf("language not applied: %+v", opts)
	}
	if !opts.TranslateSet || !opts.Translate {
		t.Error("translate not applied")
	}
	if !opts.ThreadsSet || opts.Threads != 4 {
		t.Error("threads not applied")
	}
	if opts.BeamSize != 2 {
		t.Errorf("beam size = %d, want 2", opts.BeamSize)
	}
	if opts.VADFilter {
		t.Error("vad filter override not applied")
	}
	if !opts.TemperatureSet || opts.Temperature != 0.4 {
		t.Errorf("temperature not applied: %v", opts.Temperature)
	}
}

func TestExtensionAllowed(t *testing.T) {
	cfg := &Config{Extensions: DefaultAllowedExtensions}

	for _, name := range []string{"session.mp3", "one-shot.WAV", "a/b/c.m4a", "x.flac"} {
		if !cfg.ExtensionAllowed(name) {
			t.Errorf("%q should be allowed", name)
		}
	}
	for _, name := range []string{"notes.txt", "video.mkv", "noext"} {
		if cfg.ExtensionAllowed(name) {
			t.Errorf("%q should be rejected", name)
		}
	}
}

func TestNormalizeFillsDirs(t *testing.T) {
	cfg := &Config{Engine: " FasterWhisper "}
	cfg.Normalize()

	if cfg.DataDir == "" || cfg.OutputDir == "" {
		t.Errorf("normalize left dirs empty: %+v", cfg)
	}
	if cfg.Engine != "fasterwhisper" {
		t.Errorf("engine not normalized: %q", cfg.Engine)
	}
	if cfg.Extensions != DefaultAllowedExtensions {
		t.Errorf("extensions default missing: %q", cfg.Extensions)
	}
}
