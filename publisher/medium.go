package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/postforge/postforge/generator"
)

const mediumMaxTags = 5

// MediumClient publishes through the Medium v1 API using a self-issued
// integration token.
type MediumClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewMediumClient(token string, logger *slog.Logger) *MediumClient {
	return &MediumClient{
		token:      token,
		baseURL:    "https://api.medium.com/v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// NewMediumClientWithHTTP allows tests to inject a mock server and client.
func NewMediumClientWithHTTP(token, baseURL string, httpClient *http.Client, logger *slog.Logger) *MediumClient {
	return &MediumClient{
		token:      token,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *MediumClient) Name() string {
	return "medium"
}

func (c *MediumClient) Publish(ctx context.Context, content *generator.Content) (*Result, error) {
	userID, err := c.userID(ctx)
	if err != nil {
		return nil, err
	}

	tags := content.Tags
	if len(tags) > mediumMaxTags {
		tags = tags[:mediumMaxTags]
	}

	payload := map[string]interface{}{
		"title":         content.Title,
		"contentFormat": "markdown",
		"content":       content.Content,
		"tags":          tags,
		"publishStatus": "public",
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling post: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/posts", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error posting to Medium: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("medium returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding Medium response: %w", err)
	}

	return &Result{
		Platform: c.Name(),
		URL:      result.Data.URL,
		ID:       result.Data.ID,
	}, nil
}

func (c *MediumClient) userID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/me", nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching Medium user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("medium returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error decoding user response: %w", err)
	}

	c.logger.Info("Medium user verified", slog.String("username", result.Data.Username))
	return result.Data.ID, nil
}

func (c *MediumClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
