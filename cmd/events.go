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
	eventsBefore string
	eventsSince  string
	eventsTypes  []string
	eventsLimit  int
	eventsSkip   int
)

var eventsCmd = &cobra.Command{
	Use:   "events [terms...]",
	Short: "List events, newest start date first",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, closeFn, err := newFetcher(GetConfig())
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
		defer cancel()
		res := f.FetchEvents(ctx, newsevents.EventsQuery{
			Terms:          strings.Join(args, " "),
			StartBefore:    eventsBefore,
			StartOnOrAfter: eventsSince,
			EventTypes:     eventsTypes,
			Limit:          eventsLimit,
			Skip:           eventsSkip,
		})
		if !res.OK() {
			return fmt.Errorf("events: %w", res.Err)
		}
		return printValue(cmd.OutOrStdout(), res.Value)
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsBefore, "before", "", "only events starting before this ISO 8601 date")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events starting on or after this ISO 8601 date")
	eventsCmd.Flags().StringSliceVar(&eventsTypes, "type", nil, "event types to include (repeatable or comma-separated)")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0, "page size")
	eventsCmd.Flags().IntVar(&eventsSkip, "skip", 0, "entries to skip")
	rootCmd.AddCommand(eventsCmd)
}
