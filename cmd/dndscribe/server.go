package main

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dndscribe/dndscribe/internal/dndscribe"
	dndhttp "github.com/dndscribe/dndscribe/internal/dndscribe/http"
	"github.com/dndscribe/dndscribe/internal/dndscribe/watch"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the upload UI and API, optionally watching a drop folder",
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().String("addr", "", "listen address (overrides config)")
	serverCmd.Flags().String("watch", "", "directory to watch for dropped recordings")
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if dir, _ := cmd.Flags().GetString("watch"); dir != "" {
		cfg.WatchDir = dir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := dndscribe.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	if cfg.WatchDir != "" {
		watcher, err := watch.New(cfg.WatchDir, cfg.ExtensionAllowed, svc)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				log.Err(err).Msg("watcher stopped")
			}
		}()
	}

	httpSvc := dndhttp.NewService(svc)
	go func() {
		if err := httpSvc.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	return httpSvc.Stop()
}
