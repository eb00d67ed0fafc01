package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vidscribe/internal/article"
)

var countPrinter = message.NewPrinter(language.English)

func newArticlesCommand(ctx *commandContext) *cobra.Command {
	articlesCmd := &cobra.Command{
		Use:   "articles",
		Short: "Browse stored articles",
	}

	articlesCmd.AddCommand(newArticlesListCommand(ctx))
	articlesCmd.AddCommand(newArticlesShowCommand(ctx))
	articlesCmd.AddCommand(newArticlesDeleteCommand(ctx))

	return articlesCmd
}

func (c *commandContext) withStore(ctx context.Context, fn func(context.Context, *article.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := article.Open(cfg)
	if err != nil {
		return fmt.Errorf("open article store: %w", err)
	}
	defer store.Close()
	return fn(ctx, store)
}

func newArticlesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored articles, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(runCtx context.Context, store *article.Store) error {
				articles, err := store.List(runCtx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(articles) == 0 {
					fmt.Fprintln(out, "No articles yet. Run `vidscribe generate <url>` to create one.")
					return nil
				}

				rows := make([][]string, 0, len(articles))
				for _, a := range articles {
					rows = append(rows, []string{
						strconv.FormatInt(a.ID, 10),
						a.Title,
						a.Uploader,
						countPrinter.Sprintf("%d", a.WordCount),
						fmt.Sprintf("%d min", a.ReadTime),
						a.Source,
						a.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Channel", "Words", "Read", "Source", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newArticlesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored article's HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			return ctx.withStore(cmd.Context(), func(runCtx context.Context, store *article.Store) error {
				a, err := store.GetByID(runCtx, id)
				if errors.Is(err, article.ErrNotFound) {
					return fmt.Errorf("article %d not found", id)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "# %s\n", a.Title)
				fmt.Fprintf(out, "# %s | %s words | %d min read | %s\n",
					a.Uploader, countPrinter.Sprintf("%d", a.WordCount), a.ReadTime, a.URL)
				fmt.Fprintln(out, a.HTML)
				return nil
			})
		},
	}
}

func newArticlesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			return ctx.withStore(cmd.Context(), func(runCtx context.Context, store *article.Store) error {
				if err := store.Delete(runCtx, id); err != nil {
					if errors.Is(err, article.ErrNotFound) {
						return fmt.Errorf("article %d not found", id)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted article %d\n", id)
				return nil
			})
		},
	}
}
