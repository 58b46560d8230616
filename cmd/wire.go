package cmd

import (
	"log/slog"

	"newsdesk/internal/config"
	"newsdesk/internal/contentful"
	"newsdesk/internal/newsevents"
	"newsdesk/internal/redisclient"
	"newsdesk/internal/search"
	"newsdesk/internal/storage"
)

// newFetcher builds client -> optional cache -> fetcher. The returned close
// func releases the Redis connection, if any.
func newFetcher(cfg config.Config) (*newsevents.Fetcher, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	var client newsevents.EntriesClient = contentful.NewClient(contentful.Config{
		SpaceID:     cfg.Contentful.SpaceID,
		AccessToken: cfg.Contentful.AccessToken,
		Environment: cfg.Contentful.Environment,
		BaseURL:     cfg.Contentful.BaseURL,
		Preview:     cfg.Contentful.Preview,
		Locale:      cfg.Contentful.Locale,
		Include:     cfg.Contentful.Include,
		Timeout:     config.Duration(cfg.Contentful.Timeout),
	})

	opts := []newsevents.Option{
		newsevents.WithLogger(slog.Default()),
		newsevents.WithNormalizer(search.NewNormalizer(cfg.Search.Replacements)),
	}
	closeFn := func() {}
	if cfg.Cache.Enabled {
		rdb := redisclient.New(cfg.Redis)
		closeFn = func() { _ = rdb.Close() }
		client = storage.NewRedisCache(rdb, client, config.Duration(cfg.Cache.TTL), slog.Default())
		// Landing date windows move in TTL steps so their keys can be hit.
		opts = append(opts, newsevents.WithTimeGranularity(config.Duration(cfg.Cache.TTL)))
		slog.Debug("cache: enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
	}

	f, err := newsevents.New(client, newsevents.Config{
		EventContentType:        cfg.Content.EventType,
		NewsContentType:         cfg.Content.NewsType,
		StoryContentType:        cfg.Content.StoryType,
		PageEntryID:             cfg.Content.PageEntryID,
		PastEventsLookbackYears: cfg.Content.PastEventsLookback,
	}, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return f, closeFn, nil
}
