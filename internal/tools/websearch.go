package tools

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

const defaultSearchURL = "https://html.duckduckgo.com/html/"

// WebSearch queries the DuckDuckGo HTML endpoint and scrapes results.
// Requests are rate limited so agent loops cannot hammer the service.
type WebSearch struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewWebSearch creates the web search tool.
func NewWebSearch() *WebSearch {
	return &WebSearch{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultSearchURL,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// NewWebSearchWithClient creates the tool against a custom endpoint,
// used in tests.
func NewWebSearchWithClient(client *http.Client, baseURL string) *WebSearch {
	return &WebSearch{
		client:  client,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func (w *WebSearch) Name() string { return "web_search" }

func (w *WebSearch) Description() string {
	return "Search the web and return result titles, URLs and snippets."
}

func (w *WebSearch) Parameters() map[string]ParamSpec {
	return map[string]ParamSpec{
		"query": {
			Type:        "string",
			Description: "The search query",
			Required:    true,
		},
		"max_results": {
			Type:        "number",
			Description: "Maximum number of results to return, default 5",
			Required:    false,
		},
	}
}

var (
	resultLink    = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	resultSnippet = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	tagStripper   = regexp.MustCompile(`<[^>]+>`)
)

func (w *WebSearch) Call(ctx context.Context, params map[string]any) (any, error) {
	query, err := stringParam(params, "query")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	maxResults := 5
	if n, ok := params["max_results"].(float64); ok && n > 0 {
		maxResults = int(n)
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "nexus-cli")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	results := parseResults(string(body), maxResults)
	return map[string]any{"query": query, "results": results}, nil
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func parseResults(page string, limit int) []searchResult {
	links := resultLink.FindAllStringSubmatch(page, limit)
	snippets := resultSnippet.FindAllStringSubmatch(page, limit)

	results := make([]searchResult, 0, len(links))
	for i, m := range links {
		r := searchResult{
			URL:   html.UnescapeString(m[1]),
			Title: cleanFragment(m[2]),
		}
		if i < len(snippets) {
			r.Snippet = cleanFragment(snippets[i][1])
		}
		results = append(results, r)
	}
	return results
}

func cleanFragment(fragment string) string {
	text := tagStripper.ReplaceAllString(fragment, "")
	return strings.TrimSpace(html.UnescapeString(text))
}
