package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dndscribe/dndscribe/internal/dndscribe/conf"
	"github.com/dndscribe/dndscribe/internal/speech"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported recognizer models",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range speech.Models() {
			marker := " "
			if m.Name == speech.DefaultModel {
				marker = "*"
			}
			fmt.Printf("%s %-10s %s\n", marker, m.Name, m.Description)
		}
		return nil
	},
}

var modelsDownloadCmd = &cobra.Command{
	Use:   "download <model>",
	Short: "Download a whisper.cpp model into the local cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mdl, ok := speech.LookupModel(args[0])
		if !ok {
			return fmt.Errorf("unknown model %q", args[0])
		}

		cfg, err := conf.Load(configFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		result, err := speech.NewDownloader(cfg.ModelCacheDir()).EnsureModel(ctx, mdl)
		if err != nil {
			return err
		}
		if result.Existed {
			fmt.Printf("%s already present at %s\n", mdl.Name, result.Path)
		} else {
			fmt.Printf("%s downloaded to %s\n", mdl.Name, result.Path)
		}
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsDownloadCmd)
	rootCmd.AddCommand(modelsCmd)
}
