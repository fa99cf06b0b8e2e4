package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dndscribe/dndscribe/internal/dndscribe/conf"
)

var (
	configFile string
	logLevel   string

	flagModel  string
	flagDevice string
	flagEngine string
	flagOutput string
)

var rootCmd = &cobra.Command{
	Use:   "dndscribe",
	Short: "Transcribe D&D session recordings into timestamped transcripts",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLog()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./dndscribe.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model size (medium, large-v2, large-v3)")
	rootCmd.PersistentFlags().StringVar(&flagDevice, "device", "", "processing device (auto, cuda, cpu)")
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", "speech engine (fasterwhisper, whispercpp, openai)")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "transcript output directory")
}

func initLog() {
	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// loadConfig reads the config file and applies CLI flag overrides.
func loadConfig() (*conf.Config, error) {
	cfg, err := conf.Load(configFile)
	if err != nil {
		return nil, err
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagDevice != "" {
		cfg.Device = flagDevice
	}
	if flagEngine != "" {
		cfg.Engine = strings.ToLower(flagEngine)
	}
	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	return cfg, nil
}
