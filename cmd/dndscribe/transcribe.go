package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dndscribe/dndscribe/internal/dndscribe"
	"github.com/dndscribe/dndscribe/internal/transcript"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio file> [audio file...]",
	Short: "Transcribe recordings from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := dndscribe.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	for _, path := range args {
		if !cfg.ExtensionAllowed(path) {
			return fmt.Errorf("%s: unsupported audio format, expected one of: %s", path, cfg.Extensions)
		}

		session, err := svc.TranscribeFile(ctx, path, filepath.Base(path))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		status := "transcribed"
		if session.Cached {
			status = "already transcribed"
		}
		fmt.Printf("%s: %s, %d segments, %s of audio -> %s\n",
			filepath.Base(path),
			status,
			session.SegmentCount,
			transcript.FormatTimestamp(session.DurationSeconds),
			filepath.Join(cfg.OutputDir, session.Filename),
		)
	}

	return nil
}
