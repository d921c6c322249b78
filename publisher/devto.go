package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/postforge/postforge/generator"
)

const devtoMaxTags = 4

// DevtoClient publishes markdown articles through the Forem API.
type DevtoClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewDevtoClient(apiKey string, logger *slog.Logger) *DevtoClient {
	return &DevtoClient{
		apiKey:     apiKey,
		baseURL:    "https://dev.to/api",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// NewDevtoClientWithHTTP allows tests to inject a mock server and client.
func NewDevtoClientWithHTTP(apiKey, baseURL string, httpClient *http.Client, logger *slog.Logger) *DevtoClient {
	return &DevtoClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *DevtoClient) Name() string {
	return "devto"
}

func (c *DevtoClient) Publish(ctx context.Context, content *generator.Content) (*Result, error) {
	tags := content.Tags
	if len(tags) > devtoMaxTags {
		tags = tags[:devtoMaxTags]
	}

	payload := map[string]interface{}{
		"article": map[string]interface{}{
			"title":         content.Title,
			"body_markdown": content.Content,
			"published":     true,
			"tags":          tags,
		},
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling article: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/articles", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error posting to Dev.to: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dev.to returned status %d: %s", resp.StatusCode, string(body))
	}

	var article struct {
		ID  int64  `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return nil, fmt.Errorf("error decoding Dev.to response: %w", err)
	}

	return &Result{
		Platform: c.Name(),
		URL:      article.URL,
		ID:       strconv.FormatInt(article.ID, 10),
	}, nil
}

// RecentArticle is a published article's metadata used as topic history.
type RecentArticle struct {
	Title       string   `json:"title"`
	TagList     []string `json:"tag_list"`
	PublishedAt string   `json:"published_at"`
}

// RecentArticles returns the authenticated user's last perPage published
// articles, newest first. History lookups are advisory; callers treat an
// error as an empty history.
func (c *DevtoClient) RecentArticles(ctx context.Context, perPage int) ([]RecentArticle, error) {
	url := fmt.Sprintf("%s/articles/me/published?per_page=%d", c.baseURL, perPage)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching recent articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dev.to returned status %d: %s", resp.StatusCode, string(body))
	}

	var articles []RecentArticle
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("error decoding articles: %w", err)
	}
	return articles, nil
}

// VerifyKey checks the API key against the authenticated-user endpoint.
func (c *DevtoClient) VerifyKey(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/users/me", nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error verifying Dev.to key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dev.to key verification failed with status %d", resp.StatusCode)
	}

	var user struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return fmt.Errorf("error decoding user response: %w", err)
	}

	c.logger.Info("Dev.to API key verified", slog.String("username", user.Username))
	return nil
}
