package publisher_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/postforge/postforge/generator"
	"github.com/postforge/postforge/publisher"
)

type stubPlatform struct {
	name   string
	result *publisher.Result
	err    error
	calls  int
}

func (s *stubPlatform) Name() string { return s.name }

func (s *stubPlatform) Publish(ctx context.Context, content *generator.Content) (*publisher.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishAll_FailureIsolation(t *testing.T) {
	failing := &stubPlatform{name: "devto", err: errors.New("401 from api")}
	working := &stubPlatform{
		name:   "twitter",
		result: &publisher.Result{Platform: "twitter", ID: "123", TweetCount: 3},
	}

	p := publisher.New(discardLogger(), failing, working)
	results := p.PublishAll(context.Background(), &generator.Content{Title: "t", Content: "c"})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].Platform != "devto" || results[0].Error != "401 from api" {
		t.Errorf("failing platform result = %+v, want its error captured", results[0])
	}
	if results[1].Platform != "twitter" || results[1].Error != "" || results[1].ID != "123" {
		t.Errorf("working platform result = %+v, want a clean success", results[1])
	}
	if working.calls != 1 {
		t.Errorf("working platform called %d times, want 1: the earlier failure must not stop the fan-out", working.calls)
	}
}

func TestPublishAll_NoPlatforms(t *testing.T) {
	p := publisher.New(discardLogger())
	results := p.PublishAll(context.Background(), &generator.Content{Title: "t", Content: "c"})
	if len(results) != 0 {
		t.Errorf("got %d results with no platforms, want 0", len(results))
	}
}
