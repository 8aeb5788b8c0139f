package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rahul/sahayak/internal/task"
	"github.com/tmc/langchaingo/tools/duckduckgo"
)

const (
	serpAPIEndpoint      = "https://serpapi.com/search"
	googleSearchEndpoint = "https://www.googleapis.com/customsearch/v1"
)

// SearchTool queries the web. Providers are tried in order: SerpAPI,
// Google Custom Search, DuckDuckGo, and finally deterministic demo results
// so the pipeline stays usable without any API key.
type SearchTool struct {
	SerpAPIKey     string
	GoogleAPIKey   string
	GoogleEngineID string

	// Endpoints are variables so tests can point them at a local server.
	SerpURL   string
	GoogleURL string

	Client *http.Client
	ddg    *duckduckgo.Tool
}

func NewSearchTool(serpKey, googleKey, googleEngine string) *SearchTool {
	s := &SearchTool{
		SerpAPIKey:     serpKey,
		GoogleAPIKey:   googleKey,
		GoogleEngineID: googleEngine,
		SerpURL:        serpAPIEndpoint,
		GoogleURL:      googleSearchEndpoint,
		Client:         &http.Client{Timeout: 15 * time.Second},
	}
	if ddg, err := duckduckgo.New(10, duckduckgo.DefaultUserAgent); err == nil {
		s.ddg = ddg
	}
	return s
}

func (s *SearchTool) Name() string {
	return "search"
}

func (s *SearchTool) Description() string {
	return "Search the web for information. Args: query (string), limit (int, default 5)."
}

func (s *SearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query to look up",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results (default 5)",
			},
		},
		"required": []string{"query"},
	}
}

func (s *SearchTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	query := args.String("query")
	if query == "" {
		return nil, task.Toolf(s.Name(), "missing query")
	}
	limit := args.Int("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	if s.SerpAPIKey != "" {
		if results, err := s.serpAPI(ctx, query, limit); err == nil && len(results) > 0 {
			return searchResult(fmt.Sprintf("Search: found %d results using SerpAPI for %q", len(results), query), results), nil
		}
	}

	if s.GoogleAPIKey != "" && s.GoogleEngineID != "" {
		if results, err := s.googleCSE(ctx, query, limit); err == nil && len(results) > 0 {
			return searchResult(fmt.Sprintf("Search: found %d results using Google Custom Search for %q", len(results), query), results), nil
		}
	}

	if s.ddg != nil {
		if text, err := s.ddg.Call(ctx, query); err == nil && text != "" {
			results := []task.SearchResult{{
				Title:   fmt.Sprintf("DuckDuckGo results for %s", query),
				Snippet: truncate(text, 2000),
			}}
			return searchResult(fmt.Sprintf("Search: found DuckDuckGo results for %q", query), results), nil
		}
	}

	results := demoResults(query, limit)
	return searchResult(fmt.Sprintf("Search: found %d demo results for %q (no API key configured)", len(results), query), results), nil
}

func searchResult(logLine string, results []task.SearchResult) *Result {
	return &Result{
		Logs:   []string{logLine},
		Output: map[string]any{"results": results},
	}
}

func (s *SearchTool) serpAPI(ctx context.Context, query string, limit int) ([]task.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", s.SerpAPIKey)
	params.Set("num", fmt.Sprint(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.SerpURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi status %d", resp.StatusCode)
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []task.SearchResult
	for i, item := range raw.Organic {
		if i >= limit {
			break
		}
		out = append(out, task.SearchResult{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return out, nil
}

func (s *SearchTool) googleCSE(ctx context.Context, query string, limit int) ([]task.SearchResult, error) {
	params := url.Values{}
	params.Set("key", s.GoogleAPIKey)
	params.Set("cx", s.GoogleEngineID)
	params.Set("q", query)
	params.Set("num", fmt.Sprint(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.GoogleURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google custom search status %d", resp.StatusCode)
	}

	var raw struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []task.SearchResult
	for i, item := range raw.Items {
		if i >= limit {
			break
		}
		out = append(out, task.SearchResult{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return out, nil
}

func demoResults(query string, limit int) []task.SearchResult {
	slug := strings.ReplaceAll(strings.ToLower(query), " ", "-")
	out := make([]task.SearchResult, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, task.SearchResult{
			Title:   fmt.Sprintf("Result %d for %s", i, query),
			URL:     fmt.Sprintf("https://example.com/%s/%d", slug, i),
			Snippet: fmt.Sprintf("This is a short snippet describing %s result #%d.", query, i),
		})
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte rune.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "\n... (content truncated) ..."
}
