package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var landingLimit int

// landingCmd prints everything the news-and-events landing page shows.
var landingCmd = &cobra.Command{
	Use:   "landing [terms...]",
	Short: "Fetch upcoming and past events, news, stories and the landing page",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, closeFn, err := newFetcher(GetConfig())
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		landing := f.FetchLanding(ctx, strings.Join(args, " "), landingLimit)
		if err := landing.Err(); err != nil {
			return fmt.Errorf("landing: %w", err)
		}
		return printValue(cmd.OutOrStdout(), landing)
	},
}

func init() {
	landingCmd.Flags().IntVar(&landingLimit, "limit", 0, "max entries per events/news list (0 = API default)")
	rootCmd.AddCommand(landingCmd)
}
