package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"vidscribe/internal/api"
	"vidscribe/internal/article"
	"vidscribe/internal/logging"
	"vidscribe/internal/notifications"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/staging"
)

// staleAudioAge is how long a staged audio file may linger before the
// periodic sweep removes it. Anything this old came from a crashed run.
const staleAudioAge = 24 * time.Hour

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the article API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			lock := flock.New(cfg.LockFilePath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock file: %w", err)
			}
			if !locked {
				return fmt.Errorf("another vidscribe instance is already running (lock: %s)", cfg.LockFilePath())
			}
			defer func() { _ = lock.Unlock() }()

			store, err := article.Open(cfg)
			if err != nil {
				return fmt.Errorf("open article store: %w", err)
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := staging.EnsureDir(cfg.Paths.StagingDir); err != nil {
				return err
			}
			result := staging.CleanStale(runCtx, cfg.Paths.StagingDir, staleAudioAge, logger)
			if len(result.Removed) > 0 {
				logger.Info("reclaimed stale staging files",
					logging.Int("count", len(result.Removed)),
					logging.String(logging.FieldEventType, "staging_sweep"),
				)
			}

			notifier := notifications.NewService(cfg)
			runner := pipeline.New(cfg, logger)
			server := api.NewServer(cfg, runner, store, notifier, logger)
			if server == nil {
				return fmt.Errorf("api_bind is not configured")
			}

			if err := server.Start(runCtx); err != nil {
				return err
			}
			defer server.Stop()

			sweep := time.NewTicker(time.Hour)
			defer sweep.Stop()
			for {
				select {
				case <-runCtx.Done():
					logger.Info("shutting down")
					return nil
				case <-sweep.C:
					staging.CleanStale(runCtx, cfg.Paths.StagingDir, staleAudioAge, logger)
				}
			}
		},
	}
}
