// Package generator turns a schedule decision plus optional research context
// into publishable content via one structured-completion request.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/llm_service"
	"github.com/postforge/postforge/schedule"
	"github.com/postforge/postforge/search"
)

// Content is the generation contract: exactly these four fields, parsed from
// the model's JSON response. Values are free-form.
type Content struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Thread  []string `json:"thread"`
}

// Request carries everything a prompt builder may need. News, RecentTitles
// and Topics are optional; builders define their own fallback wording when
// they are empty.
type Request struct {
	Decision     schedule.Decision
	News         []search.NewsItem
	RecentTitles []string
	Topics       []string
	DateRange    string
}

type promptSpec struct {
	prompt      string
	temperature float64
}

type promptBuilder func(Request) promptSpec

// builders is the closed post-type dispatch set. Adding a post type means
// adding a row here, not another pipeline.
var builders = map[schedule.PostType]promptBuilder{
	schedule.PostTypeWeeklyRecap: buildWeeklyRecapPrompt,
	schedule.PostTypeTrends:      buildTrendsPrompt,
	schedule.PostTypeBusiness:    buildBusinessPrompt,
	schedule.PostTypeTutorial:    buildTutorialPrompt,
	schedule.PostTypeLatestNews:  buildLatestNewsPrompt,
	schedule.PostTypeCaseStudy:   buildCaseStudyPrompt,
}

type Generator struct {
	llm    llm_service.LLMService
	cfg    config.OpenAIConfig
	logger *slog.Logger
}

func New(llm llm_service.LLMService, cfg config.OpenAIConfig, logger *slog.Logger) *Generator {
	return &Generator{
		llm:    llm,
		cfg:    cfg,
		logger: logger,
	}
}

// Generate issues exactly one structured-completion request for the decision's
// post type and parses the response. Any transport error or malformed JSON is
// fatal to the invocation; the caller turns it into a failure response.
func (g *Generator) Generate(ctx context.Context, req Request) (*Content, error) {
	builder, ok := builders[req.Decision.PostType]
	if !ok {
		return nil, fmt.Errorf("unknown post type: %s", req.Decision.PostType)
	}

	spec := builder(req)

	llmConfig := map[string]interface{}{
		"api_url":       g.cfg.APIURL,
		"api_key":       g.cfg.APIKey,
		"model_name":    g.cfg.Model,
		"temperature":   spec.temperature,
		"json_response": true,
	}

	raw, err := g.llm.CallLLM(ctx, llmConfig, spec.prompt)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	content, err := parseContent(raw)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Generated content",
		slog.String("post_type", string(req.Decision.PostType)),
		slog.String("title", content.Title),
		slog.Int("article_chars", len(content.Content)),
		slog.Int("thread_tweets", len(content.Thread)))

	return content, nil
}

func parseContent(raw string) (*Content, error) {
	var content Content
	if err := json.Unmarshal([]byte(cleanJSONContent(raw)), &content); err != nil {
		return nil, fmt.Errorf("error parsing generated content: %w", err)
	}

	if content.Title == "" {
		return nil, fmt.Errorf("generated content is missing a title")
	}
	if content.Content == "" {
		return nil, fmt.Errorf("generated content is missing an article body")
	}

	return &content, nil
}

// cleanJSONContent strips markdown code fences some models wrap around JSON
// even in structured-output mode.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
