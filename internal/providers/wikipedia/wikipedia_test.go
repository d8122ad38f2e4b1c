package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temperature/internal/source"
)

func newTestAdapter(t *testing.T, searchBody, pageviewsBody string) *adapter {
	t.Helper()
	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchBody))
	}))
	t.Cleanup(searchSrv.Close)

	pageviewsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageviewsBody))
	}))
	t.Cleanup(pageviewsSrv.Close)

	a := newAdapter()
	a.searchBase = searchSrv.URL
	a.pageviewsBase = pageviewsSrv.URL
	return a
}

func TestSearchResolvesArticleAndFetchesPageviews(t *testing.T) {
	searchResp := `{"query":{"search":[{"title":"Go (programming language)","snippet":"A programming language"}]}}`
	pageviewsResp := `{"items":[{"timestamp":"2026072500","views":100},{"timestamp":"2026072600","views":200}]}`

	a := newTestAdapter(t, searchResp, pageviewsResp)
	signals, err := a.Search(context.Background(), "go", 30, source.Config{})
	require.NoError(t, err)
	require.Len(t, signals, 1)

	s := signals[0]
	assert.Equal(t, "pageviews", s.MetricName)
	assert.Equal(t, "search_interest", s.Dimension)
	require.Len(t, s.DataPoints, 2)
	assert.Equal(t, 200.0, *s.CurrentValue)
	assert.Equal(t, 150.0, *s.PeriodAvg)
	assert.Equal(t, "Go_(programming_language)", s.Metadata["article"])
}

func TestSearchReturnsNilOnNoSearchResults(t *testing.T) {
	a := newTestAdapter(t, `{"query":{"search":[]}}`, `{"items":[]}`)
	signals, err := a.Search(context.Background(), "zzz-no-such-topic", 30, source.Config{})
	require.NoError(t, err)
	assert.Nil(t, signals)
}

func TestSearchErrorsOnMissingItemsField(t *testing.T) {
	searchResp := `{"query":{"search":[{"title":"Foo","snippet":""}]}}`
	a := newTestAdapter(t, searchResp, `{}`)
	_, err := a.Search(context.Background(), "foo", 30, source.Config{})
	assert.Error(t, err)
}

func TestResolveArticlePrefersTechHints(t *testing.T) {
	searchResp := `{"query":{"search":[
		{"title":"Go (board game)","snippet":"An ancient strategy game"},
		{"title":"Go (programming language)","snippet":"An open source programming language"}
	]}}`
	a := newTestAdapter(t, searchResp, `{"items":[]}`)
	article, err := a.resolveArticle(context.Background(), "go", source.Config{})
	require.NoError(t, err)
	assert.Equal(t, "Go_(programming_language)", article)
}

func TestVariantsSplitsOnDelimiter(t *testing.T) {
	assert.Equal(t, []string{"golang", "go language"}, variants("golang ||| go language"))
	assert.Equal(t, []string{"solo"}, variants("solo"))
}
