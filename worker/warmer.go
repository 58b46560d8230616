package worker

import (
	"context"
	"log/slog"
	"time"

	"newsdesk/internal/newsevents"
)

// LandingFetcher is implemented by newsevents.Fetcher.
type LandingFetcher interface {
	FetchLanding(ctx context.Context, terms string, limit int) newsevents.Landing
}

// CacheWarmer periodically re-reads the landing page for a set of search
// terms so the response cache never goes cold.
type CacheWarmer struct {
	Fetcher  LandingFetcher
	Terms    []string // "" is the unfiltered landing page
	Limit    int
	Interval time.Duration
	Log      *slog.Logger
}

func (w *CacheWarmer) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 4 * time.Minute
	}
	if w.Log == nil {
		w.Log = slog.Default()
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CacheWarmer) runOnce(ctx context.Context) {
	terms := w.Terms
	if len(terms) == 0 {
		terms = []string{""}
	}
	warmed := 0
	for _, term := range terms {
		if ctx.Err() != nil {
			return
		}
		l := w.Fetcher.FetchLanding(ctx, term, w.Limit)
		if err := l.Err(); err != nil {
			w.Log.Error("warmer: landing fetch failed", "terms", term, "error", err)
			continue
		}
		warmed++
	}
	w.Log.Info("warmer: completed", "warmed", warmed, "terms", len(terms))
}
