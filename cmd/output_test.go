package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"newsdesk/internal/model"
	"newsdesk/internal/newsevents"
)

func withFormat(t *testing.T, f string) {
	t.Helper()
	prev := outputFormat
	outputFormat = f
	t.Cleanup(func() { outputFormat = prev })
}

func TestPrintValueJSON(t *testing.T) {
	withFormat(t, "json")
	var buf bytes.Buffer
	require.NoError(t, printValue(&buf, model.NewsItem{Title: "Lab opens", PublishedDate: "2025-02-01"}))
	require.JSONEq(t, `{"title":"Lab opens","publishedDate":"2025-02-01"}`, buf.String())
}

func TestPrintValueYAML(t *testing.T) {
	withFormat(t, "yaml")
	var buf bytes.Buffer
	v := map[string]any{
		"title": "Open Day",
		"total": 3,
		"when":  "true",
		"items": []string{"a", "b"},
	}
	require.NoError(t, printValue(&buf, v))
	out := buf.String()
	require.Contains(t, out, "title: Open Day\n")
	require.Contains(t, out, "total: 3\n")
	require.Contains(t, out, `when: "true"`)
	require.Contains(t, out, "items:\n  - a\n  - b\n")
}

func TestPrintValueFailedResultIsNull(t *testing.T) {
	withFormat(t, "json")
	var buf bytes.Buffer
	require.NoError(t, printValue(&buf, newsevents.Fail[model.NewsCollection](errors.New("down"))))
	require.Equal(t, "null\n", buf.String())
}

func TestPrintValueUnknownFormat(t *testing.T) {
	withFormat(t, "xml")
	require.Error(t, printValue(&bytes.Buffer{}, 1))
}
