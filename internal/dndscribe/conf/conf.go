package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dndscribe/dndscribe/pkg/util"
)

// DefaultAllowedExtensions lists the upload formats the service accepts.
const DefaultAllowedExtensions = "mp3,wav,m4a,flac"

// Config is the root configuration for the service and CLI.
type Config struct {
	HTTPAddr   string `mapstructure:"http_addr" json:"http_addr"`
	DataDir    string `mapstructure:"data_dir" json:"data_dir"`
	OutputDir  string `mapstructure:"output_dir" json:"output_dir"`
	WatchDir   string `mapstructure:"watch_dir" json:"watch_dir"`
	Engine     string `mapstructure:"engine" json:"engine"`
	Model      string `mapstructure:"model" json:"model"`
	Device     string `mapstructure:"device" json:"device"`
	Extensions string `mapstructure:"extensions" json:"extensions"`

	Speech SpeechConfig `mapstructure:"speech" json:"speech"`
	OpenAI OpenAIConfig `mapstructure:"openai" json:"openai"`
}

// OpenAIConfig configures the hosted transcription backend.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key" json:"api_key"`
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	Model   string `mapstructure:"model" json:"model"`
}

// Load reads configuration from the given file (optional), the environment
// (DNDSCRIBE_ prefix), and defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", "127.0.0.1:5030")
	v.SetDefault("engine", "fasterwhisper")
	v.SetDefault("model", "large-v2")
	v.SetDefault("device", "auto")
	v.SetDefault("extensions", DefaultAllowedExtensions)

	v.SetEnvPrefix("DNDSCRIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("dndscribe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".dndscribe"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills derived defaults that depend on the environment.
func (c *Config) Normalize() {
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, ".dndscribe")
		} else {
			c.DataDir = ".dndscribe"
		}
	}
	if c.OutputDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.OutputDir = filepath.Join(home, "Downloads")
		} else {
			c.OutputDir = "."
		}
	}
	if c.Extensions == "" {
		c.Extensions = DefaultAllowedExtensions
	}
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
}

// AllowedExtensions returns the accepted upload extensions as a list.
func (c *Config) AllowedExtensions() []string {
	return util.Str2List(strings.ToLower(c.Extensions), ",")
}

// ExtensionAllowed reports whether a file name carries an accepted extension.
func (c *Config) ExtensionAllowed(name string) bool {
	ext := util.FileExt(name)
	for _, allowed := range c.AllowedExtensions() {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ModelCacheDir is where whisper.cpp model files are kept.
func (c *Config) ModelCacheDir() string {
	return filepath.Join(c.DataDir, "models")
}

// ScriptDir is where embedded helper scripts are extracted.
func (c *Config) ScriptDir() string {
	return filepath.Join(c.DataDir, "scripts")
}

// SessionDBPath is the sqlite database holding transcription history.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.DataDir, "sessions.db")
}
