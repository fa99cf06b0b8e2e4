package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/dndscribe/dndscribe/internal/speech"
)

// DefaultModel is the hosted transcription model used when none is configured.
const DefaultModel = "whisper-1"

// Config describes how to reach the hosted transcription API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Transcriber sends audio to the OpenAI transcription endpoint. The hosted API
// returns plain text without segment timings, so the result carries a single
// segment starting at zero.
type Transcriber struct {
	client openaisdk.Client
	model  string
}

// New builds a hosted transcriber from the given config.
func New(cfg Config) (*Transcriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	return &Transcriber{
		client: openaisdk.NewClient(opts...),
		model:  model,
	}, nil
}

// Close implements the Transcriber interface. No-op for the hosted backend.
func (t *Transcriber) Close() {}

// Transcribe uploads the audio file and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, opts speech.Options) (*speech.Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	params := openaisdk.AudioTranscriptionNewParams{
		Model: openaisdk.AudioModel(t.model),
		File:  file,
	}
	if opts.LanguageSet && strings.TrimSpace(opts.Language) != "" && opts.Language != "auto" {
		params.Language = openaisdk.String(strings.TrimSpace(opts.Language))
	}
	if opts.InitialPromptSet && strings.TrimSpace(opts.InitialPrompt) != "" {
		params.Prompt = openaisdk.String(strings.TrimSpace(opts.InitialPrompt))
	}
	if opts.TemperatureSet {
		params.Temperature = openaisdk.Float(float64(opts.Temperature))
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("hosted transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	result := &speech.Result{Text: text}
	if text != "" {
		result.Segments = []speech.Segment{{ID: 0, Start: 0, End: 0, Text: text}}
	}
	return result, nil
}
