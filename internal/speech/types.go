package speech

import (
	"context"
	"time"
)

// Options configures a transcription request.
type Options struct {
	Language            string  // "auto" to let the model detect language
	LanguageSet         bool    // true when Language should override defaults
	Translate           bool    // translate non-English speech into English
	TranslateSet        bool    // true when Translate should override defaults
	Threads             int     // number of threads used by the backend (<=0 uses default)
	ThreadsSet          bool    // true when Threads should override defaults
	InitialPrompt       string  // optional priming prompt
	InitialPromptSet    bool    // true when InitialPrompt should override defaults
	Temperature         float32 // sampling temperature
	TemperatureSet      bool    // true when Temperature should override defaults
	BeamSize            int     // decoder beam width
	BeamSizeSet         bool    // true when BeamSize should override defaults
	WordTimestamps      bool    // request per-word timing from the backend
	WordTimestampsSet   bool    // true when WordTimestamps should override defaults
	VADFilter           bool    // voice activity detection pre-filter
	VADFilterSet        bool    // true when VADFilter should override defaults
	ConditionOnPrev     bool    // condition decoding on previously decoded text
	ConditionOnPrevSet  bool    // true when ConditionOnPrev should override defaults
}

// DefaultBeamSize is the decoder beam width used when none is configured.
const DefaultBeamSize = 5

// DefaultOptions returns the request defaults for long-form session audio:
// wide beam, word timestamps, VAD pre-filtering, and no conditioning on
// previous text so a bad stretch cannot poison the rest of a multi-hour file.
func DefaultOptions() Options {
	return Options{
		BeamSize:           DefaultBeamSize,
		BeamSizeSet:        true,
		WordTimestamps:     true,
		WordTimestampsSet:  true,
		VADFilter:          true,
		VADFilterSet:       true,
		ConditionOnPrev:    false,
		ConditionOnPrevSet: true,
	}
}

// Segment represents a portion of transcribed text with timestamps.
type Segment struct {
	ID    int           `json:"id"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

// Result holds the transcription outcome returned by a backend.
type Result struct {
	Text     string        `json:"text"`
	Language string        `json:"language"`
	Duration time.Duration `json:"duration"`
	Segments []Segment     `json:"segments"`
}

// Transcriber describes a component capable of converting an audio file into
// timestamped text.
type Transcriber interface {
	Close()
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error)
}

// MergeOptions layers override on top of base, field by field.
func MergeOptions(base, override Options) Options {
	result := base

	if override.LanguageSet {
		result.Language = override.Language
		result.LanguageSet = true
	}
	if override.TranslateSet {
		result.Translate = override.Translate
		result.TranslateSet = true
	}
	if override.ThreadsSet {
		result.Threads = override.Threads
		result.ThreadsSet = true
	}
	if override.InitialPromptSet {
		result.InitialPrompt = override.InitialPrompt
		result.InitialPromptSet = true
	}
	if override.TemperatureSet {
		result.Temperature = override.Temperature
		result.TemperatureSet = true
	}
	if override.BeamSizeSet {
		result.BeamSize = override.BeamSize
		result.BeamSizeSet = true
	}
	if override.WordTimestampsSet {
		result.WordTimestamps = override.WordTimestamps
		result.WordTimestampsSet = true
	}
	if override.VADFilterSet {
		result.VADFilter = override.VADFilter
		result.VADFilterSet = true
	}
	if override.ConditionOnPrevSet {
		result.ConditionOnPrev = override.ConditionOnPrev
		result.ConditionOnPrevSet = true
	}

	return result
}
