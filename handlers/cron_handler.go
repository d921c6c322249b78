package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/generator"
	"github.com/postforge/postforge/publisher"
	"github.com/postforge/postforge/schedule"
	"github.com/postforge/postforge/search"
)

const recentTopicsCount = 30

// ContentGenerator produces the article and thread for a schedule decision.
type ContentGenerator interface {
	Generate(ctx context.Context, req generator.Request) (*generator.Content, error)
}

// Researcher supplies optional real-time grounding. Implementations never
// fail the pipeline; empty results are the degraded path.
type Researcher interface {
	Search(ctx context.Context, category string, opts search.Options) []search.NewsItem
	SearchWeekly(ctx context.Context) []search.NewsItem
	SearchCaseStudies(ctx context.Context, category string) []search.NewsItem
}

// Poster fans the content out to the enabled platforms.
type Poster interface {
	PublishAll(ctx context.Context, content *generator.Content) []publisher.Result
}

// TopicHistory lists recently published articles so prompts can steer away
// from repeated topics.
type TopicHistory interface {
	RecentArticles(ctx context.Context, perPage int) ([]publisher.RecentArticle, error)
}

// RunNotifier is told about a completed run. Optional.
type RunNotifier interface {
	NotifyRun(title string, results []publisher.Result)
}

// CronHandler is the single externally triggered entry point: one call runs
// the whole schedule → research → generate → publish pipeline and reports a
// per-platform summary.
type CronHandler struct {
	cfg       config.Config
	generator ContentGenerator
	research  Researcher
	poster    Poster
	history   TopicHistory
	notifier  RunNotifier
	now       func() time.Time
	logger    *slog.Logger
}

func NewCronHandler(cfg config.Config, gen ContentGenerator, research Researcher, poster Poster, history TopicHistory, notifier RunNotifier, logger *slog.Logger) *CronHandler {
	return &CronHandler{
		cfg:       cfg,
		generator: gen,
		research:  research,
		poster:    poster,
		history:   history,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock overrides the handler's clock; used by tests to pin the schedule.
func (h *CronHandler) SetClock(now func() time.Time) {
	h.now = now
}

type runResponse struct {
	Success      bool               `json:"success"`
	Type         string             `json:"type"`
	Category     string             `json:"category,omitempty"`
	CategoryType string             `json:"category_type,omitempty"`
	Topic        string             `json:"topic"`
	Title        string             `json:"title"`
	Platforms    []publisher.Result `json:"platforms"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// Run handles POST /cron/run. The shared secret gates the trigger before any
// work begins; configuration problems are reported as client errors with the
// complete missing-variable list; generation failures abort the run with a
// server error. Publishing failures never fail the run: they are visible per
// platform in the response.
func (h *CronHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.cfg.CronSecret != "" && r.Header.Get("X-Cron-Secret") != h.cfg.CronSecret {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	enabled, err := h.cfg.Validate()
	if err != nil {
		resp := errorResponse{Error: err.Error()}
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			resp.Missing = verr.MissingVars
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	ctx := r.Context()
	now := h.now().UTC()
	decision := schedule.Decide(now)

	h.logger.Info("Starting content generation",
		slog.String("post_type", string(decision.PostType)),
		slog.String("category", decision.Category),
		slog.Int("time_slot", decision.TimeSlot),
		slog.Any("platforms", enabled))

	req := generator.Request{Decision: decision, Topics: h.cfg.Topics}

	if decision.PostType.UsesTopicHistory() && h.history != nil {
		articles, err := h.history.RecentArticles(ctx, recentTopicsCount)
		if err != nil {
			h.logger.Warn("Could not fetch recent topics", slog.String("error", err.Error()))
		}
		for _, a := range articles {
			req.RecentTitles = append(req.RecentTitles, a.Title)
		}
	}

	if h.research != nil {
		req.News = h.gatherResearch(ctx, decision)
	}

	if decision.IsRecap {
		req.DateRange = recapDateRange(now)
	}

	content, err := h.generator.Generate(ctx, req)
	if err != nil {
		h.logger.Error("Generation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	results := h.poster.PublishAll(ctx, content)

	if h.notifier != nil {
		h.notifier.NotifyRun(content.Title, results)
	}

	topic := content.Title
	if decision.IsRecap {
		topic = "Weekly Tech + Business Recap"
	}

	writeJSON(w, http.StatusOK, runResponse{
		Success:      true,
		Type:         string(decision.PostType),
		Category:     decision.Category,
		CategoryType: string(decision.CategoryType),
		Topic:        topic,
		Title:        content.Title,
		Platforms:    results,
	})
}

// gatherResearch picks the recency window per post type: trends want days,
// business examples can be weeks old, tutorials need none at all.
func (h *CronHandler) gatherResearch(ctx context.Context, decision schedule.Decision) []search.NewsItem {
	switch decision.PostType {
	case schedule.PostTypeWeeklyRecap:
		return h.research.SearchWeekly(ctx)
	case schedule.PostTypeTrends, schedule.PostTypeLatestNews:
		return h.research.Search(ctx, decision.Category, search.Options{Days: 3})
	case schedule.PostTypeBusiness:
		return h.research.Search(ctx, decision.Category, search.Options{Days: 30})
	case schedule.PostTypeCaseStudy:
		return h.research.SearchCaseStudies(ctx, decision.Category)
	}
	return nil
}

// recapDateRange renders the previous Monday-to-Sunday span for the recap
// headline.
func recapDateRange(now time.Time) string {
	lastMonday := now.AddDate(0, 0, -7)
	lastSunday := now.AddDate(0, 0, -1)
	return fmt.Sprintf("%s - %s",
		lastMonday.Format("Jan 2"),
		lastSunday.Format("Jan 2, 2006"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
