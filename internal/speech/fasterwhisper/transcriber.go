package fasterwhisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	_ "embed"

	"github.com/dndscribe/dndscribe/internal/speech"
)

//go:embed fasterwhisper.py
var embeddedScript []byte

// Config describes how to initialise the faster-whisper backend.
type Config struct {
	ScriptDir      string
	PythonPath     string
	Model          string
	Decision       speech.Decision
	DefaultOptions speech.Options
	Env            map[string]string
}

// Transcriber bridges to faster-whisper through a bundled Python helper.
type Transcriber struct {
	cfg        Config
	scriptPath string
}

// New ensures the Python helper script is available and ready.
func New(cfg Config) (*Transcriber, error) {
	if cfg.ScriptDir == "" {
		return nil, errors.New("script directory is required")
	}
	if cfg.Env == nil {
		cfg.Env = make(map[string]string)
	}
	if cfg.Model == "" {
		cfg.Model = speech.DefaultModel
	}
	if cfg.Decision.Device == "" {
		cfg.Decision = speech.Decision{Device: speech.DeviceAuto}
	}

	pythonPath := cfg.PythonPath
	if pythonPath == "" {
		if envPath := os.Getenv("DNDSCRIBE_PYTHON"); envPath != "" {
			pythonPath = envPath
		}
	}
	if pythonPath == "" {
		if runtime.GOOS == "windows" {
			pythonPath = "python.exe"
		} else {
			pythonPath = "python3"
		}
	}

	if err := os.MkdirAll(cfg.ScriptDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure script directory: %w", err)
	}

	scriptPath := filepath.Join(cfg.ScriptDir, "fasterwhisper.py")
	if err := ensureScript(scriptPath); err != nil {
		return nil, err
	}

	cfg.PythonPath = pythonPath

	return &Transcriber{
		cfg:        cfg,
		scriptPath: scriptPath,
	}, nil
}

// ScriptPath returns the path to the extracted Python helper script.
func (t *Transcriber) ScriptPath() string {
	return t.scriptPath
}

// Close implements the Transcriber interface. No-op for this backend.
func (t *Transcriber) Close() {}

// Transcribe runs a recognition pass over the given audio file.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, opts speech.Options) (*speech.Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, errors.New("audio path is required")
	}

	effective := speech.MergeOptions(t.cfg.DefaultOptions, opts)
	args := buildArgs(t.scriptPath, audioPath, t.cfg.Model, t.cfg.Decision, effective)

	cmd := exec.CommandContext(ctx, t.cfg.PythonPath, args...)
	env := append([]string{}, os.Environ()...)
	env = append(env, "PYTHONIOENCODING=utf-8")
	for key, value := range t.cfg.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = env

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("faster-whisper: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("faster-whisper: %w", err)
	}

	var resp bridgeResult
	if err := json.Unmarshal(bytes.TrimSpace(output), &resp); err != nil {
		return nil, fmt.Errorf("decode faster-whisper response: %w", err)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	result := &speech.Result{
		Language: resp.Language,
		Duration: secondsToDuration(resp.Duration),
	}
	if result.Language == "" && effective.LanguageSet {
		result.Language = effective.Language
	}

	if len(resp.Segments) > 0 {
		segments := make([]speech.Segment, 0, len(resp.Segments))
		var text strings.Builder
		for i, seg := range resp.Segments {
			segments = append(segments, speech.Segment{
				ID:    i,
				Start: secondsToDuration(seg.Start),
				End:   secondsToDuration(seg.End),
				Text:  seg.Text,
			})
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(strings.TrimSpace(seg.Text))
		}
		result.Segments = segments
		result.Text = text.String()
	}

	return result, nil
}

func buildArgs(scriptPath, audioPath, model string, decision speech.Decision, opts speech.Options) []string {
	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", model,
		"--device", string(decision.Device),
	}
	if decision.Compute != "" {
		args = append(args, "--compute-type", string(decision.Compute))
	}
	if opts.LanguageSet && strings.TrimSpace(opts.Language) != "" && opts.Language != "auto" {
		args = append(args, "--language", strings.TrimSpace(opts.Language))
	}
	if opts.BeamSizeSet && opts.BeamSize > 0 {
		args = append(args, "--beam-size", strconv.Itoa(opts.BeamSize))
	}
	if opts.InitialPromptSet && strings.TrimSpace(opts.InitialPrompt) != "" {
		args = append(args, "--initial-prompt", strings.TrimSpace(opts.InitialPrompt))
	}
	if opts.TranslateSet && opts.Translate {
		args = append(args, "--translate")
	}
	if opts.WordTimestampsSet && !opts.WordTimestamps {
		args = append(args, "--no-word-timestamps")
	}
	if opts.VADFilterSet && !opts.VADFilter {
		args = append(args, "--no-vad-filter")
	}
	if opts.ConditionOnPrevSet && opts.ConditionOnPrev {
		args = append(args, "--condition-on-previous-text")
	}
	return args
}

func ensureScript(path string) error {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		current, readErr := os.ReadFile(path)
		if readErr == nil && bytes.Equal(current, embeddedScript) {
			return nil
		}
	}
	if err := os.WriteFile(path, embeddedScript, 0o644); err != nil {
		return fmt.Errorf("write faster-whisper helper: %w", err)
	}
	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

type bridgeResult struct {
	Language string          `json:"language"`
	Duration float64         `json:"duration"`
	Segments []bridgeSegment `json:"segments"`
	Error    string          `json:"error"`
}

type bridgeSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
