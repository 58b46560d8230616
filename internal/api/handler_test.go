package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"newsdesk/internal/contentful"
	"newsdesk/internal/newsevents"
)

type fakeClient struct {
	mu      sync.Mutex
	queries []contentful.Query
	fail    map[string]bool
}

func (c *fakeClient) GetEntries(ctx context.Context, q contentful.Query) (*contentful.RawCollection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, q)
	if c.fail[q.ContentType] {
		return nil, errors.New("upstream down")
	}
	return &contentful.RawCollection{Total: 1, Limit: q.Limit, Items: []contentful.RawEntry{
		{Sys: contentful.Sys{ID: q.ContentType + "-1"}, Fields: json.RawMessage(`{"title":"Item"}`)},
	}}, nil
}

func (c *fakeClient) GetEntry(ctx context.Context, id string) (*contentful.RawEntry, error) {
	return &contentful.RawEntry{Sys: contentful.Sys{ID: id}, Fields: json.RawMessage(`{"page_title":"News and events"}`)}, nil
}

func newTestRouter(t *testing.T, c *fakeClient) http.Handler {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	f, err := newsevents.New(c, newsevents.Config{
		EventContentType: "event",
		NewsContentType:  "news",
		PageEntryID:      "page-1",
	}, newsevents.WithLogger(quiet))
	require.NoError(t, err)
	return NewHandler(f, quiet).Router()
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t, &fakeClient{}), "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLanding(t *testing.T) {
	w := do(t, newTestRouter(t, &fakeClient{}), "/landing?q=webinars&limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, k := range []string{"upcomingEvents", "pastEvents", "news", "page", "stories"} {
		require.Contains(t, body, k)
		require.NotEqual(t, "null", string(body[k]), k)
	}
	require.Contains(t, string(body["page"]), "News and events")
}

func TestLandingFailure(t *testing.T) {
	w := do(t, newTestRouter(t, &fakeClient{fail: map[string]bool{"news": true}}), "/landing")
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.JSONEq(t, `{"error":"content unavailable"}`, w.Body.String())
}

func TestListEventsParams(t *testing.T) {
	c := &fakeClient{}
	w := do(t, newTestRouter(t, c), "/events?q=open&before=2024-01-01&since=2022-01-01&type=Talk,Webinar&type=Open%20Day&limit=4&skip=8")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, c.queries, 1)
	v := c.queries[0].Values()
	require.Equal(t, "event", v.Get("content_type"))
	require.Equal(t, "2024-01-01", v.Get("fields.startDate[lt]"))
	require.Equal(t, "2022-01-01", v.Get("fields.startDate[gte]"))
	require.Equal(t, "Talk,Webinar,Open Day", v.Get("fields.eventType[in]"))
	require.Equal(t, "4", v.Get("limit"))
	require.Equal(t, "8", v.Get("skip"))

	var col struct {
		Total int `json:"total"`
		Items []struct {
			Fields struct {
				Title string `json:"title"`
			} `json:"fields"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
	require.Equal(t, 1, col.Total)
	require.Equal(t, "Item", col.Items[0].Fields.Title)
}

func TestListNews(t *testing.T) {
	c := &fakeClient{}
	w := do(t, newTestRouter(t, c), "/news?since=2024-06-01")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2024-06-01", c.queries[0].Values().Get("fields.publishedDate[gte]"))
}

func TestListNewsFailure(t *testing.T) {
	w := do(t, newTestRouter(t, &fakeClient{fail: map[string]bool{"news": true}}), "/news")
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBadPagination(t *testing.T) {
	h := newTestRouter(t, &fakeClient{})
	for _, target := range []string{"/events?limit=abc", "/news?skip=-1", "/landing?limit=x"} {
		w := do(t, h, target)
		require.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}
