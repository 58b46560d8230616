package cmd

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/redisclient"
	"newsdesk/internal/storage"

	"github.com/spf13/cobra"
)

// redisCmd groups Redis-related subcommands.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis cache utilities",
}

// flushCacheCmd drops every cached Contentful response.
var flushCacheCmd = &cobra.Command{
	Use:   "flush-cache",
	Short: "Delete cached Contentful responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		rdb := redisclient.New(GetConfig().Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		n, err := storage.Purge(ctx, rdb)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached responses\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
	redisCmd.AddCommand(flushCacheCmd)
}
