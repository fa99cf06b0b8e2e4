package conf

import "github.com/dndscribe/dndscribe/internal/speech"

// SpeechConfig tunes the recognition pass applied to every upload.
type SpeechConfig struct {
	Language        string   `mapstructure:"language" json:"language"`
	Translate       *bool    `mapstructure:"translate" json:"translate"`
	Threads         int      `mapstructure:"threads" json:"threads"`
	InitialPrompt   string   `mapstructure:"initial_prompt" json:"initial_prompt"`
	Temperature     *float64 `mapstructure:"temperature" json:"temperature"`
	BeamSize        int      `mapstructure:"beam_size" json:"beam_size"`
	WordTimestamps  *bool    `mapstructure:"word_timestamps" json:"word_timestamps"`
	VADFilter       *bool    `mapstructure:"vad_filter" json:"vad_filter"`
	ConditionOnPrev *bool    `mapstructure:"condition_on_previous_text" json:"condition_on_previous_text"`
}

// ToOptions converts the speech config into runtime options, layered over the
// built-in long-form defaults.
func (c *SpeechConfig) ToOptions() speech.Options {
	opts := speech.DefaultOptions()

	if c == nil {
		return opts
	}

	if c.Language != "" {
		opts.Language = c.Language
		opts.LanguageSet = true
	}
	if c.Translate != nil {
		opts.Translate = *c.Translate
		opts.TranslateSet = true
	}
	if c.Threads > 0 {
		opts.Threads = c.Threads
		opts.ThreadsSet = true
	}
	if c.InitialPrompt != "" {
		opts.InitialPrompt = c.InitialPrompt
		opts.InitialPromptSet = true
	}
	if c.Temperature != nil {
		opts.Temperature = float32(*c.Temperature)
		opts.TemperatureSet = true
	}
	if c.BeamSize > 0 {
		opts.BeamSize = c.BeamSize
		opts.BeamSizeSet = true
	}
	if c.WordTimestamps != nil {
		opts.WordTimestamps = *c.WordTimestamps
		opts.WordTimestampsSet = true
	}
	if c.VADFilter != nil {
		opts.VADFilter = *c.VADFilter
		opts.VADFilterSet = true
	}
	if c.ConditionOnPrev != nil {
		opts.ConditionOnPrev = *c.ConditionOnPrev
		opts.ConditionOnPrevSet = true
	}

	return opts
}
