package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/halte-concierge/internal/utils"
)

func TestSelectSnippet_Priority(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{
			"answer wins over everything",
			`{"answer_box":{"answer":"10h - 19h","snippet":"La Cité du Vin ouvre..."},"organic_results":[{"snippet":"organic"}]}`,
			"10h - 19h", true,
		},
		{
			"answer box snippet when no answer",
			`{"answer_box":{"snippet":"Ouvert tous les jours"},"organic_results":[{"snippet":"organic"}]}`,
			"Ouvert tous les jours", true,
		},
		{
			"first organic result",
			`{"organic_results":[{"snippet":"premier"},{"snippet":"second"}]}`,
			"premier", true,
		},
		{
			"blank answer box falls through",
			`{"answer_box":{"answer":"  "},"organic_results":[{"snippet":"organic"}]}`,
			"organic", true,
		},
		{
			"multi-line snippet truncated to first line",
			`{"answer_box":{"snippet":"ligne une\nligne deux"}}`,
			"ligne une", true,
		},
		{
			"nothing usable",
			`{"organic_results":[{"title":"no snippet"}]}`,
			"", false,
		},
		{
			"engine reports no results",
			`{"error":"Google hasn't returned any results for this query."}`,
			"", false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found, err := SelectSnippet([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSerpAPILookup_LocalizedQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "horaires cité du vin", q.Get("q"))
		assert.Equal(t, "fr", q.Get("hl"))
		assert.Equal(t, "fr", q.Get("gl"))
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "key", q.Get("api_key"))

		_, _ = w.Write([]byte(`{"answer_box":{"answer":"10h - 19h"}}`))
	}))
	defer ts.Close()

	snippet, found, err := NewSerpAPI("key", ts.URL, ts.Client()).Lookup(context.Background(), " horaires cité du vin ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "10h - 19h", snippet)
}

func TestSerpAPILookup_ProviderErrorIsSearchUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid API key."}`))
	}))
	defer ts.Close()

	_, found, err := NewSerpAPI("key", ts.URL, ts.Client()).Lookup(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, utils.IsCode(err, utils.CodeSearchUnavailable))
}

func TestSerpAPILookup_Unconfigured(t *testing.T) {
	_, _, err := NewSerpAPI("", "", nil).Lookup(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeSearchUnavailable))
}
