package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rahul/sahayak/internal/task"
)

const maxPageChars = 8000

// ScraperTool fetches web pages and extracts the main content as clean
// text. Mode "http" fetches directly; mode "browser" renders the page in
// headless Chrome first, for JS-heavy sites.
type ScraperTool struct {
	Mode      string
	UserAgent string
	Client    *http.Client
}

func NewScraperTool(mode string) *ScraperTool {
	if mode == "" {
		mode = "http"
	}
	return &ScraperTool{
		Mode:      mode,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ScraperTool) Name() string {
	return "scrape"
}

func (s *ScraperTool) Description() string {
	return "Fetch one URL or the top results of a previous search and extract the main content as sanitized text. Args: url (string) or top_k (int, default 3)."
}

func (s *ScraperTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "A single URL to scrape; omit to scrape previous search results",
			},
			"top_k": map[string]any{
				"type":        "integer",
				"description": "How many of the previous search results to scrape (default 3)",
			},
		},
	}
}

func (s *ScraperTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	urls, err := s.targets(args, tc)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return &Result{
			Logs:   []string{"No URLs or search results available to scrape"},
			Output: map[string]any{"pages": []task.Page{}},
		}, nil
	}

	var logs []string
	var pages []task.Page
	for _, pageURL := range urls {
		logs = append(logs, fmt.Sprintf("Fetching %s (mode: %s)", pageURL, s.Mode))
		text, err := s.scrape(ctx, pageURL)
		if err != nil {
			logs = append(logs, fmt.Sprintf("Failed to scrape %s: %v", pageURL, err))
			continue
		}
		pages = append(pages, task.Page{URL: pageURL, Text: text})
		logs = append(logs, fmt.Sprintf("Scraped %s (%d chars)", pageURL, len(text)))
	}

	if len(pages) == 0 {
		return nil, task.Toolf(s.Name(), "all %d fetches failed", len(urls))
	}
	return &Result{Logs: logs, Output: map[string]any{"pages": pages}}, nil
}

func (s *ScraperTool) targets(args task.Args, tc *task.Context) ([]string, error) {
	if u := args.String("url"); u != "" {
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return nil, task.Toolf(s.Name(), "invalid url %q", u)
		}
		return []string{u}, nil
	}

	results := tc.SearchResults()
	topK := args.Int("top_k", 3)
	var urls []string
	for _, r := range results {
		if len(urls) >= topK {
			break
		}
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls, nil
}

func (s *ScraperTool) scrape(ctx context.Context, pageURL string) (string, error) {
	var body string
	var err error
	if s.Mode == "browser" {
		body, err = s.renderBrowser(ctx, pageURL)
	} else {
		body, err = s.fetchHTTP(ctx, pageURL)
	}
	if err != nil {
		return "", err
	}
	return s.extract(body, pageURL)
}

func (s *ScraperTool) fetchHTTP(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// renderBrowser loads the page in headless Chrome and returns the rendered
// document, giving client-side scripts a moment to populate the DOM.
func (s *ScraperTool) renderBrowser(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, 45*time.Second)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

func (s *ScraperTool) extract(html, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}

	// Strip any leftover markup or scripts from the extracted text.
	sanitized := bluemonday.StrictPolicy().Sanitize(article.TextContent)
	sanitized = strings.TrimSpace(sanitized)

	var b strings.Builder
	if article.Title != "" {
		fmt.Fprintf(&b, "TITLE: %s\n", article.Title)
	}
	if article.Excerpt != "" {
		fmt.Fprintf(&b, "EXCERPT: %s\n", article.Excerpt)
	}
	b.WriteString(truncate(sanitized, maxPageChars))
	return b.String(), nil
}
