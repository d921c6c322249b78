package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// NewsItem is one search result used to ground a generation step. Items live
// only for the duration of an invocation.
type NewsItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date"`
	Category      string `json:"category,omitempty"`
}

// Options tune one search call. Recency windows and result counts are a
// configuration surface, not a contract; callers pick what fits the post type.
type Options struct {
	Days        int
	MaxResults  int
	SearchDepth string

	// EnrichContent fetches each result page and swaps the search snippet
	// for the article body. Expensive, so reserved for long-form source
	// material like case studies.
	EnrichContent bool
}

func (o Options) withDefaults() Options {
	if o.Days == 0 {
		o.Days = 7
	}
	if o.MaxResults == 0 {
		o.MaxResults = 5
	}
	if o.SearchDepth == "" {
		o.SearchDepth = "basic"
	}
	return o
}

// TavilyClient queries the Tavily search API. Its methods never return an
// error: a failed or slow search degrades content quality, it must not abort
// the pipeline, so every failure is logged and mapped to an empty result set.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewTavilyClient(apiKey string, logger *slog.Logger) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    "https://api.tavily.com/search",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// NewTavilyClientWithHTTP allows tests to inject a mock server and client.
func NewTavilyClientWithHTTP(apiKey, baseURL string, httpClient *http.Client, logger *slog.Logger) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Search returns recent items for a category, or an empty slice when the key
// is unset or the upstream fails.
func (c *TavilyClient) Search(ctx context.Context, category string, opts Options) []NewsItem {
	if c.apiKey == "" {
		c.logger.Warn("TAVILY_API_KEY not set, skipping real-time news search")
		return nil
	}

	opts = opts.withDefaults()
	query := QueryForCategory(category)

	items, err := c.search(ctx, query, opts)
	if err != nil {
		c.logger.Warn("Tavily search failed",
			slog.String("category", category),
			slog.String("error", err.Error()))
		return nil
	}
	if opts.EnrichContent {
		items = c.Enrich(ctx, items)
	}
	return items
}

// SearchCaseStudies looks for real company implementation write-ups. Case
// studies stay relevant far longer than news, hence the year-long window.
func (c *TavilyClient) SearchCaseStudies(ctx context.Context, category string) []NewsItem {
	if c.apiKey == "" {
		c.logger.Warn("TAVILY_API_KEY not set, skipping case study search")
		return nil
	}

	items, err := c.search(ctx, CaseStudyQueryForCategory(category), Options{Days: 365, MaxResults: 5, SearchDepth: "basic"})
	if err != nil {
		c.logger.Warn("Tavily case study search failed",
			slog.String("category", category),
			slog.String("error", err.Error()))
		return nil
	}
	// Snippets are too thin to ground a case study write-up; pull the full
	// article bodies.
	return c.Enrich(ctx, items)
}

// recapCategories are the fixed set of searches backing the Monday recap.
var recapCategories = []string{
	"Large Language Models (LLMs)",
	"Agentic AI & Autonomous Agents",
	"Cloud Computing & Infrastructure",
	"DevOps & Platform Engineering",
	"Venture Capital & Fundraising",
	"Startup Fundamentals & Entrepreneurship",
	"Product Management & Strategy",
	"Business Strategy & Competitive Analysis",
}

// SearchWeekly gathers the last 7 days of news across the recap categories,
// tagging each item with the category it came from.
func (c *TavilyClient) SearchWeekly(ctx context.Context) []NewsItem {
	var all []NewsItem
	for _, category := range recapCategories {
		items := c.Search(ctx, category, Options{Days: 7})
		for i := range items {
			items[i].Category = category
		}
		all = append(all, items...)
	}
	return all
}

func (c *TavilyClient) search(ctx context.Context, query string, opts Options) ([]NewsItem, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"api_key":             c.apiKey,
		"query":               query,
		"search_depth":        opts.SearchDepth,
		"max_results":         opts.MaxResults,
		"days":                opts.Days,
		"include_answer":      false,
		"include_raw_content": false,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making Tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tavily returned non-200 status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results []struct {
			Title         string `json:"title"`
			URL           string `json:"url"`
			Content       string `json:"content"`
			PublishedDate string `json:"published_date"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding Tavily response: %w", err)
	}

	items := make([]NewsItem, 0, len(result.Results))
	for _, r := range result.Results {
		published := r.PublishedDate
		if published == "" {
			published = "recent"
		}
		items = append(items, NewsItem{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			PublishedDate: published,
		})
	}
	return items, nil
}
