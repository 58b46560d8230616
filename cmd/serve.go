package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"newsdesk/internal/api"
	"newsdesk/internal/config"
	"newsdesk/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and run the cache warmer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		f, closeFn, err := newFetcher(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		ws := []worker.Worker{
			&worker.HTTPServer{
				Addr:    cfg.Server.Addr,
				Handler: api.NewHandler(f, slog.Default()).Router(),
			},
		}
		// Warming without a cache would only add load on the API.
		if cfg.Warmer.Enabled && cfg.Cache.Enabled {
			slog.Info("starting cache warmer", "terms", cfg.Warmer.Terms, "interval", cfg.Warmer.Interval)
			ws = append(ws, &worker.CacheWarmer{
				Fetcher:  f,
				Terms:    cfg.Warmer.Terms,
				Limit:    cfg.Warmer.Limit,
				Interval: config.Duration(cfg.Warmer.Interval),
				Log:      slog.Default(),
			})
		}
		mgr := worker.NewManager(ws...)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
