package cmd

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/redisclient"

	"github.com/spf13/cobra"
)

// pingCmd checks the Redis server backing the response cache.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and report cache settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		state := "disabled"
		if cfg.Cache.Enabled {
			state = "enabled, ttl " + cfg.Cache.TTL
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (cache %s)\n", res, state)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
