package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vidscribe/internal/article"
	"vidscribe/internal/logging"
	"vidscribe/internal/notifications"
	"vidscribe/internal/pipeline"
	"vidscribe/internal/services"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "generate <youtube-url>",
		Short: "Generate an article from a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			p := pipeline.New(cfg, logger)
			notifier := notifications.NewService(cfg)

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}

			artifact, err := p.Run(runCtx, args[0])
			if err != nil {
				_ = notifier.NotifyPipelineFailed(runCtx, "", err)
				return fmt.Errorf("%s (%s)", services.Details(err).Message, services.Category(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated article: %s\n", artifact.Describe())
			fmt.Fprintf(out, "Content source: %s\n", artifact.Source)

			if !noSave {
				store, err := article.Open(cfg)
				if err != nil {
					return fmt.Errorf("open article store: %w", err)
				}
				defer store.Close()

				saved, err := store.Save(runCtx, article.FromArtifact(artifact))
				if err != nil {
					return fmt.Errorf("save article: %w", err)
				}
				fmt.Fprintf(out, "Saved as article %d (%s)\n", saved.ID, store.Path())
			} else {
				fmt.Fprintln(out, artifact.HTML)
			}

			_ = notifier.NotifyArticleReady(runCtx, artifact.Title, artifact.WordCount, artifact.ReadTime)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Print the article HTML instead of persisting it")
	return cmd
}
