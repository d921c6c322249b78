// Package publisher posts generated content to the enabled platforms. Each
// platform is attempted independently: one platform's failure becomes an
// error entry in its result and never aborts the other attempts.
package publisher

import (
	"context"
	"log/slog"

	"github.com/postforge/postforge/generator"
)

// Result is the per-platform outcome of one publish attempt. Attempts are
// never retried within an invocation.
type Result struct {
	Platform   string `json:"platform"`
	URL        string `json:"url,omitempty"`
	ID         string `json:"id,omitempty"`
	TweetCount int    `json:"tweet_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Platform adapts generated content to one publishing target.
type Platform interface {
	Name() string
	Publish(ctx context.Context, content *generator.Content) (*Result, error)
}

type Publisher struct {
	platforms []Platform
	logger    *slog.Logger
}

func New(logger *slog.Logger, platforms ...Platform) *Publisher {
	return &Publisher{
		platforms: platforms,
		logger:    logger,
	}
}

// PublishAll attempts every configured platform in order and returns one
// result per attempt. Errors are captured, not raised.
func (p *Publisher) PublishAll(ctx context.Context, content *generator.Content) []Result {
	results := make([]Result, 0, len(p.platforms))

	for _, platform := range p.platforms {
		result, err := platform.Publish(ctx, content)
		if err != nil {
			p.logger.Error("Platform publish failed",
				slog.String("platform", platform.Name()),
				slog.String("error", err.Error()))
			results = append(results, Result{Platform: platform.Name(), Error: err.Error()})
			continue
		}

		p.logger.Info("Published",
			slog.String("platform", platform.Name()),
			slog.String("url", result.URL))
		results = append(results, *result)
	}

	return results
}
