package newsevents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"newsdesk/internal/contentful"
	"newsdesk/internal/model"
	"newsdesk/internal/search"
)

// DefaultStoryContentType is the content type holding success stories.
const DefaultStoryContentType = "successStoryDisplay"

const (
	fieldStartDate     = "fields.startDate"
	fieldPublishedDate = "fields.publishedDate"
	fieldEventType     = "fields.eventType"
)

// isoLayout matches the millisecond UTC timestamps the CMS stores.
const isoLayout = "2006-01-02T15:04:05.000Z"

// EntriesClient is the subset of the Contentful client the fetcher reads through.
type EntriesClient interface {
	GetEntries(ctx context.Context, q contentful.Query) (*contentful.RawCollection, error)
	GetEntry(ctx context.Context, id string) (*contentful.RawEntry, error)
}

// Config names the content the fetcher reads.
type Config struct {
	EventContentType string
	NewsContentType  string
	StoryContentType string // defaults to DefaultStoryContentType
	PageEntryID      string
	// PastEventsLookbackYears bounds how far back past events reach. Defaults to 2.
	PastEventsLookbackYears int
}

func (c *Config) fill() error {
	var missing []string
	if strings.TrimSpace(c.EventContentType) == "" {
		missing = append(missing, "event content type")
	}
	if strings.TrimSpace(c.NewsContentType) == "" {
		missing = append(missing, "news content type")
	}
	if strings.TrimSpace(c.PageEntryID) == "" {
		missing = append(missing, "page entry id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("newsevents: missing %s", strings.Join(missing, ", "))
	}
	if c.StoryContentType == "" {
		c.StoryContentType = DefaultStoryContentType
	}
	if c.PastEventsLookbackYears <= 0 {
		c.PastEventsLookbackYears = 2
	}
	return nil
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger fetch failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// WithClock overrides time.Now for the landing date windows.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// WithTimeGranularity truncates the landing "now" to d, so repeated landing
// reads inside one window build identical queries and can share a cached
// response. Zero keeps millisecond precision.
func WithTimeGranularity(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.granularity = d
		}
	}
}

// WithNormalizer replaces the default search substitution table.
func WithNormalizer(n *search.Normalizer) Option {
	return func(f *Fetcher) {
		if n != nil {
			f.norm = n
		}
	}
}

// Fetcher reads news-and-events content and shapes it for presentation.
type Fetcher struct {
	client EntriesClient
	cfg    Config
	norm   *search.Normalizer
	now    func() time.Time
	log    *slog.Logger

	granularity time.Duration
}

// New validates cfg and returns a Fetcher reading through client.
func New(client EntriesClient, cfg Config, opts ...Option) (*Fetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("newsevents: nil client")
	}
	if err := cfg.fill(); err != nil {
		return nil, err
	}
	f := &Fetcher{
		client: client,
		cfg:    cfg,
		norm:   search.NewNormalizer(search.DefaultReplacements()),
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Landing is everything the news-and-events landing page shows. Either all
// five results succeed or all five fail with the same error.
type Landing struct {
	UpcomingEvents Result[model.EventCollection] `json:"upcomingEvents"`
	PastEvents     Result[model.EventCollection] `json:"pastEvents"`
	News           Result[model.NewsCollection]  `json:"news"`
	Page           Result[model.PageEntry]       `json:"page"`
	Stories        Result[model.StoryCollection] `json:"stories"`
}

// Err returns the failure shared by every field, or nil.
func (l Landing) Err() error { return l.UpcomingEvents.Err }

func failedLanding(err error) Landing {
	return Landing{
		UpcomingEvents: Fail[model.EventCollection](err),
		PastEvents:     Fail[model.EventCollection](err),
		News:           Fail[model.NewsCollection](err),
		Page:           Fail[model.PageEntry](err),
		Stories:        Fail[model.StoryCollection](err),
	}
}

// FetchLanding reads upcoming events, past events, news, the landing page and
// success stories. limit caps each of the first three reads independently.
func (f *Fetcher) FetchLanding(ctx context.Context, terms string, limit int) Landing {
	query := f.norm.Normalize(terms)
	now := f.now().UTC()
	if f.granularity > 0 {
		now = now.Truncate(f.granularity)
	}
	lookback := yearsBefore(now, f.cfg.PastEventsLookbackYears)

	var (
		upcoming, past model.EventCollection
		news           model.NewsCollection
		page           model.PageEntry
		stories        model.StoryCollection
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		q := contentful.Query{ContentType: f.cfg.EventContentType, Order: fieldStartDate, Search: query, Limit: limit}.
			Where(fieldStartDate, contentful.OpGte, now.Format(isoLayout))
		upcoming, err = getCollection[model.Event](gctx, f.client, q)
		return wrap("upcoming events", err)
	})
	g.Go(func() (err error) {
		q := contentful.Query{ContentType: f.cfg.EventContentType, Order: "-" + fieldStartDate, Search: query, Limit: limit}.
			Where(fieldStartDate, contentful.OpLt, now.Format(isoLayout)).
			Where(fieldStartDate, contentful.OpGte, lookback.Format(isoLayout))
		past, err = getCollection[model.Event](gctx, f.client, q)
		return wrap("past events", err)
	})
	g.Go(func() (err error) {
		news, err = getCollection[model.NewsItem](gctx, f.client, f.newsQuery(query, NewsQuery{Limit: limit}))
		return wrap("news", err)
	})
	g.Go(func() error {
		raw, err := f.client.GetEntry(gctx, f.cfg.PageEntryID)
		if err != nil {
			return wrap("page", err)
		}
		page, err = contentful.DecodeEntry[model.PageData](*raw)
		return wrap("page", err)
	})
	g.Go(func() (err error) {
		q := contentful.Query{ContentType: f.cfg.StoryContentType, Order: "-" + fieldPublishedDate}
		stories, err = getCollection[model.SuccessStory](gctx, f.client, q)
		return wrap("stories", err)
	})
	if err := g.Wait(); err != nil {
		f.log.Error("newsevents: landing fetch failed", "terms", terms, "error", err)
		return failedLanding(err)
	}
	return Landing{
		UpcomingEvents: Ok(upcoming),
		PastEvents:     Ok(past),
		News:           Ok(news),
		Page:           Ok(page),
		Stories:        Ok(stories),
	}
}

// EventsQuery filters an events listing. Empty fields apply no constraint.
type EventsQuery struct {
	Terms string
	// StartBefore is an exclusive upper bound on the start date.
	StartBefore string
	// StartOnOrAfter is an inclusive lower bound on the start date.
	StartOnOrAfter string
	EventTypes     []string
	Limit          int
	Skip           int
}

// FetchEvents lists events, newest start date first.
func (f *Fetcher) FetchEvents(ctx context.Context, eq EventsQuery) Result[model.EventCollection] {
	q := contentful.Query{
		ContentType: f.cfg.EventContentType,
		Order:       "-" + fieldStartDate,
		Search:      f.norm.Normalize(eq.Terms),
		Limit:       eq.Limit,
		Skip:        eq.Skip,
	}.
		Where(fieldStartDate, contentful.OpLt, eq.StartBefore).
		Where(fieldStartDate, contentful.OpGte, eq.StartOnOrAfter).
		Where(fieldEventType, contentful.OpIn, eq.EventTypes...)

	col, err := getCollection[model.Event](ctx, f.client, q)
	if err != nil {
		f.log.Error("newsevents: fetch events failed", "terms", eq.Terms, "error", err)
		return Fail[model.EventCollection](err)
	}
	return Ok(col)
}

// NewsQuery filters a news listing. Empty fields apply no constraint.
type NewsQuery struct {
	Terms string
	// PublishedBefore is an exclusive upper bound on the published date.
	PublishedBefore string
	// PublishedOnOrAfter is an inclusive lower bound on the published date.
	PublishedOnOrAfter string
	Limit              int
	Skip               int
}

// FetchNews lists news, newest first.
func (f *Fetcher) FetchNews(ctx context.Context, nq NewsQuery) Result[model.NewsCollection] {
	col, err := getCollection[model.NewsItem](ctx, f.client, f.newsQuery(f.norm.Normalize(nq.Terms), nq))
	if err != nil {
		f.log.Error("newsevents: fetch news failed", "terms", nq.Terms, "error", err)
		return Fail[model.NewsCollection](err)
	}
	return Ok(col)
}

// newsQuery builds the news request from already-normalized search terms.
func (f *Fetcher) newsQuery(normalized string, nq NewsQuery) contentful.Query {
	return contentful.Query{
		ContentType: f.cfg.NewsContentType,
		Order:       "-" + fieldPublishedDate,
		Search:      normalized,
		Limit:       nq.Limit,
		Skip:        nq.Skip,
	}.
		Where(fieldPublishedDate, contentful.OpLt, nq.PublishedBefore).
		Where(fieldPublishedDate, contentful.OpGte, nq.PublishedOnOrAfter)
}

// yearsBefore steps back n calendar years. Feb 29 lands on Feb 28.
func yearsBefore(t time.Time, n int) time.Time {
	d := t.AddDate(-n, 0, 0)
	if d.Month() != t.Month() {
		d = d.AddDate(0, 0, -d.Day())
	}
	return d
}

func getCollection[T any](ctx context.Context, c EntriesClient, q contentful.Query) (contentful.Collection[T], error) {
	raw, err := c.GetEntries(ctx, q)
	if err != nil {
		return contentful.Collection[T]{}, err
	}
	return contentful.DecodeCollection[T](raw)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}
