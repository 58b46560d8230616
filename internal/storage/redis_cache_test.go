package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/contentful"
	"newsdesk/internal/newsevents"
)

// fakeRedis implements the two commands the cache issues.
type fakeRedis struct {
	redis.Cmdable
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.getErr != nil:
		cmd.SetErr(f.getErr)
	case ok:
		cmd.SetVal(v)
	default:
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

// Scan returns all matching keys in one page.
func (f *fakeRedis) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewScanCmd(ctx, nil, "scan", cursor, "match", match, "count", count)
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	cmd.SetVal(keys, 0)
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewIntCmd(ctx, "del")
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStatusCmd(ctx, "set", key, value, expiration)
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

type countingUpstream struct {
	mu             sync.Mutex
	entries, entry int
	err            error
}

func (u *countingUpstream) GetEntries(ctx context.Context, q contentful.Query) (*contentful.RawCollection, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entries++
	if u.err != nil {
		return nil, u.err
	}
	return &contentful.RawCollection{Total: 1, Limit: q.Limit, Items: []contentful.RawEntry{
		{Sys: contentful.Sys{ID: "n1"}, Fields: json.RawMessage(`{"title":"Hello"}`)},
	}}, nil
}

func (u *countingUpstream) GetEntry(ctx context.Context, id string) (*contentful.RawEntry, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entry++
	if u.err != nil {
		return nil, u.err
	}
	return &contentful.RawEntry{Sys: contentful.Sys{ID: id}, Fields: json.RawMessage(`{"page_title":"News"}`)}, nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCacheEntriesHitAfterMiss(t *testing.T) {
	rdb := newFakeRedis()
	up := &countingUpstream{}
	c := NewRedisCache(rdb, up, time.Minute, quiet)
	q := contentful.Query{ContentType: "news", Limit: 5}

	first, err := c.GetEntries(context.Background(), q)
	require.NoError(t, err)
	second, err := c.GetEntries(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, 1, up.entries)
	require.Equal(t, first.Total, second.Total)
	require.JSONEq(t, string(first.Items[0].Fields), string(second.Items[0].Fields))
	require.Equal(t, time.Minute, rdb.ttls[entriesKey(q)])

	// A different query misses.
	_, err = c.GetEntries(context.Background(), contentful.Query{ContentType: "news", Limit: 6})
	require.NoError(t, err)
	require.Equal(t, 2, up.entries)
}

func TestCacheEntry(t *testing.T) {
	rdb := newFakeRedis()
	up := &countingUpstream{}
	c := NewRedisCache(rdb, up, 0, quiet)

	for i := 0; i < 3; i++ {
		e, err := c.GetEntry(context.Background(), "page-1")
		require.NoError(t, err)
		require.Equal(t, "page-1", e.Sys.ID)
	}
	require.Equal(t, 1, up.entry)
	require.Equal(t, 5*time.Minute, rdb.ttls[entryKey("page-1")])
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	rdb := newFakeRedis()
	boom := errors.New("boom")
	c := NewRedisCache(rdb, &countingUpstream{err: boom}, time.Minute, quiet)

	_, err := c.GetEntries(context.Background(), contentful.Query{ContentType: "event"})
	require.ErrorIs(t, err, boom)
	require.Empty(t, rdb.data)
}

func TestCacheFallsThroughOnRedisError(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	up := &countingUpstream{}
	c := NewRedisCache(rdb, up, time.Minute, quiet)

	col, err := c.GetEntries(context.Background(), contentful.Query{ContentType: "event"})
	require.NoError(t, err)
	require.Equal(t, 1, col.Total)
	require.Equal(t, 1, up.entries)
}

func TestCacheIgnoresCorruptValues(t *testing.T) {
	rdb := newFakeRedis()
	q := contentful.Query{ContentType: "event"}
	rdb.data[entriesKey(q)] = "not json"
	up := &countingUpstream{}
	c := NewRedisCache(rdb, up, time.Minute, quiet)

	_, err := c.GetEntries(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 1, up.entries)
}

func TestEntriesKeyStable(t *testing.T) {
	a := contentful.Query{ContentType: "event", Limit: 3}.Where("fields.startDate", contentful.OpLt, "2024-01-01")
	b := contentful.Query{Limit: 3, ContentType: "event"}.Where("fields.startDate", contentful.OpLt, "2024-01-01")
	require.Equal(t, entriesKey(a), entriesKey(b))
	require.NotEqual(t, entriesKey(a), entriesKey(contentful.Query{ContentType: "event"}))
}

func TestPurgeRemovesOnlyCacheKeys(t *testing.T) {
	rdb := newFakeRedis()
	c := NewRedisCache(rdb, &countingUpstream{}, time.Minute, quiet)
	_, err := c.GetEntries(context.Background(), contentful.Query{ContentType: "news"})
	require.NoError(t, err)
	_, err = c.GetEntry(context.Background(), "page-1")
	require.NoError(t, err)
	rdb.data["other:key"] = "keep"

	n, err := Purge(context.Background(), rdb)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, map[string]string{"other:key": "keep"}, rdb.data)
}

func TestCacheServesRepeatedLanding(t *testing.T) {
	rdb := newFakeRedis()
	up := &countingUpstream{}
	c := NewRedisCache(rdb, up, time.Minute, quiet)

	now := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)
	f, err := newsevents.New(c, newsevents.Config{EventContentType: "event", NewsContentType: "news", PageEntryID: "page-1"},
		newsevents.WithLogger(quiet),
		newsevents.WithClock(func() time.Time { return now }),
		newsevents.WithTimeGranularity(time.Minute),
	)
	require.NoError(t, err)

	require.NoError(t, f.FetchLanding(context.Background(), "open day", 3).Err())
	require.Equal(t, 4, up.entries)
	require.Equal(t, 1, up.entry)
	keys := len(rdb.data)

	now = now.Add(30 * time.Second)
	l := f.FetchLanding(context.Background(), "open day", 3)
	require.NoError(t, l.Err())
	require.Equal(t, 4, up.entries)
	require.Equal(t, 1, up.entry)
	require.Len(t, rdb.data, keys)
	require.Equal(t, "Hello", l.UpcomingEvents.Value.Items[0].Fields.Title)
}
