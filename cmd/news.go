package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/newsevents"

	"github.com/spf13/cobra"
)

var (
	newsBefore string
	newsSince  string
	newsLimit  int
	newsSkip   int
)

var newsCmd = &cobra.Command{
	Use:   "news [terms...]",
	Short: "List news, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, closeFn, err := newFetcher(GetConfig())
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
		defer cancel()
		res := f.FetchNews(ctx, newsevents.NewsQuery{
			Terms:              strings.Join(args, " "),
			PublishedBefore:    newsBefore,
			PublishedOnOrAfter: newsSince,
			Limit:              newsLimit,
			Skip:               newsSkip,
		})
		if !res.OK() {
			return fmt.Errorf("news: %w", res.Err)
		}
		return printValue(cmd.OutOrStdout(), res.Value)
	},
}

func init() {
	newsCmd.Flags().StringVar(&newsBefore, "before", "", "only news published before this ISO 8601 date")
	newsCmd.Flags().StringVar(&newsSince, "since", "", "only news published on or after this ISO 8601 date")
	newsCmd.Flags().IntVar(&newsLimit, "limit", 0, "page size")
	newsCmd.Flags().IntVar(&newsSkip, "skip", 0, "entries to skip")
	rootCmd.AddCommand(newsCmd)
}
