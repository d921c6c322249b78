package llm_service

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

type OpenAIService struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOpenAIService(logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

// NewOpenAIServiceWithHTTP allows tests to inject a mock server client.
func NewOpenAIServiceWithHTTP(httpClient *http.Client, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		httpClient: httpClient,
		logger:     logger,
	}
}

func (s *OpenAIService) CallLLM(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
	// Config problems are permanent; only transport failures are retried.
	for _, key := range []string{"api_url", "api_key", "model_name"} {
		if _, ok := config[key].(string); !ok {
			return "", fmt.Errorf("%s not found in config", key)
		}
	}

	maxRetries := 3
	retryDelay := 5 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		response, err := s.callOpenAI(ctx, config, prompt)
		if err == nil {
			return response, nil
		}

		if attempt == maxRetries {
			s.logger.Error("Error calling OpenAI API after multiple attempts",
				slog.Int("attempts", maxRetries),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("failed to call OpenAI API after %d attempts: %w", maxRetries, err)
		}

		s.logger.Warn("Attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("retryDelay", retryDelay),
			slog.String("error", err.Error()))
		time.Sleep(retryDelay)
	}

	return "", fmt.Errorf("failed to call OpenAI API after exhausting all retry attempts")
}

func (s *OpenAIService) callOpenAI(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
	apiURL, ok := config["api_url"].(string)
	if !ok {
		return "", fmt.Errorf("api_url not found in config")
	}

	apiKey, ok := config["api_key"].(string)
	if !ok {
		return "", fmt.Errorf("api_key not found in config")
	}

	modelName, ok := config["model_name"].(string)
	if !ok {
		return "", fmt.Errorf("model_name not found in config")
	}

	messages := []map[string]string{
		{"role": "user", "content": prompt},
	}

	body := map[string]interface{}{
		"model":       modelName,
		"messages":    messages,
		"temperature": safeParseFloat(config["temperature"], 0.7),
	}

	// Structured output mode: the backend must return one JSON object we can
	// parse as the content contract.
	if jsonMode, _ := config["json_response"].(bool); jsonMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("error marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned non-200 status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	choices, ok := result["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return "", fmt.Errorf("unexpected response format from OpenAI API")
	}

	firstChoice, ok := choices[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected choice format in OpenAI API response")
	}

	message, ok := firstChoice["message"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("message not found in OpenAI API response")
	}

	content, ok := message["content"].(string)
	if !ok {
		return "", fmt.Errorf("content not found in OpenAI API response")
	}

	return content, nil
}
