package newsevents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"newsdesk/internal/contentful"
	"newsdesk/internal/model"
)

func TestResultMarshal(t *testing.T) {
	ok := Ok(model.NewsCollection{Total: 1, Items: []model.NewsEntry{
		{Sys: contentful.Sys{ID: "n1"}, Fields: model.NewsItem{Title: "Lab opens"}},
	}})
	b, err := contentful.JSON.Marshal(ok)
	require.NoError(t, err)
	require.Contains(t, string(b), `"Lab opens"`)
	require.NotContains(t, string(b), `"Err"`)

	b, err = contentful.JSON.Marshal(Fail[model.NewsCollection](errors.New("down")))
	require.NoError(t, err)
	require.Equal(t, "null", string(b))
}
