package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/yoockh/halte-concierge/internal/providers/httpc"
	"github.com/yoockh/halte-concierge/internal/utils"
)

const (
	defaultSerpAPIBaseURL = "https://serpapi.com"
	providerSerpAPI       = "serpapi"

	maxSearchBytes = 2 << 20
)

// SerpAPI queries Google through serpapi.com, localized to French.
type SerpAPI struct {
	apiKey     string
	baseURL    string
	language   string
	country    string
	httpClient *http.Client
}

func NewSerpAPI(apiKey, baseURL string, httpClient *http.Client) *SerpAPI {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultSerpAPIBaseURL
	}
	if httpClient == nil {
		httpClient = httpc.NewClient()
	}
	return &SerpAPI{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   "fr",
		country:    "fr",
		httpClient: httpClient,
	}
}

func (c *SerpAPI) Configured() bool {
	return c != nil && c.apiKey != ""
}

type serpResponse struct {
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

func (c *SerpAPI) Lookup(ctx context.Context, query string) (string, bool, error) {
	const op = "search.SerpAPI.Lookup"

	if !c.Configured() {
		return "", false, utils.E(utils.CodeSearchUnavailable, op, "serpapi api key is not configured", nil)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false, nil
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("hl", c.language)
	params.Set("gl", c.country)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return "", false, utils.E(utils.CodeSearchUnavailable, op, "create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, utils.E(utils.CodeSearchUnavailable, op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, utils.E(utils.CodeSearchUnavailable, op, "provider error", httpc.ReadAPIError(providerSerpAPI, resp))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBytes))
	if err != nil {
		return "", false, utils.E(utils.CodeSearchUnavailable, op, "read response", err)
	}

	snippet, found, err := SelectSnippet(raw)
	if err != nil {
		return "", false, utils.E(utils.CodeSearchUnavailable, op, "decode response", err)
	}
	return snippet, found, nil
}

// SelectSnippet picks the fact to feed back to the generator, first match
// wins: answer_box.answer, answer_box.snippet, organic_results[0].snippet.
// A "no results" error body from the engine is reported as not found.
func SelectSnippet(raw []byte) (string, bool, error) {
	var decoded serpResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", false, err
	}

	if box := decoded.AnswerBox; box != nil {
		if s := firstLine(box.Answer); s != "" {
			return s, true, nil
		}
		if s := firstLine(box.Snippet); s != "" {
			return s, true, nil
		}
	}
	if len(decoded.OrganicResults) > 0 {
		if s := firstLine(decoded.OrganicResults[0].Snippet); s != "" {
			return s, true, nil
		}
	}
	return "", false, nil
}

// firstLine keeps a snippet to a single line of text.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

var _ Provider = (*SerpAPI)(nil)
