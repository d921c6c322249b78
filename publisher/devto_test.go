package publisher_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/postforge/postforge/generator"
	"github.com/postforge/postforge/publisher"
)

func TestDevtoClient_Publish(t *testing.T) {
	var gotPayload struct {
		Article struct {
			Title        string   `json:"title"`
			BodyMarkdown string   `json:"body_markdown"`
			Published    bool     `json:"published"`
			Tags         []string `json:"tags"`
		} `json:"article"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/articles" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("api-key") != "test-key" {
			t.Errorf("missing api-key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 42, "url": "https://dev.to/u/test-article"}`)
	}))
	defer server.Close()

	client := publisher.NewDevtoClientWithHTTP("test-key", server.URL, server.Client(), discardLogger())

	content := &generator.Content{
		Title:   "Test Article",
		Content: "# Body",
		Tags:    []string{"go", "testing", "ci", "tools", "extra", "more"},
	}

	result, err := client.Publish(context.Background(), content)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if result.ID != "42" || result.URL != "https://dev.to/u/test-article" {
		t.Errorf("result = %+v, want id 42 and the article url", result)
	}
	if !gotPayload.Article.Published {
		t.Errorf("article should be submitted as published")
	}
	if len(gotPayload.Article.Tags) != 4 {
		t.Errorf("got %d tags, want the list capped at 4", len(gotPayload.Article.Tags))
	}
}

func TestDevtoClient_PublishAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error": "Title has already been used"}`)
	}))
	defer server.Close()

	client := publisher.NewDevtoClientWithHTTP("test-key", server.URL, server.Client(), discardLogger())

	_, err := client.Publish(context.Background(), &generator.Content{Title: "Dup", Content: "b"})
	if err == nil {
		t.Fatal("expected an error for a 422 response")
	}
}

func TestDevtoClient_VerifyKey(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"valid key", http.StatusOK, `{"username": "writer"}`, false},
		{"rejected key", http.StatusUnauthorized, `{"error": "unauthorized"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/users/me" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := publisher.NewDevtoClientWithHTTP("test-key", server.URL, server.Client(), discardLogger())

			err := client.VerifyKey(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyKey error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDevtoClient_RecentArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/articles/me/published" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("per_page") != "30" {
			t.Errorf("per_page = %s, want 30", r.URL.Query().Get("per_page"))
		}
		fmt.Fprint(w, `[
			{"title": "Older Post", "tag_list": ["go"], "published_at": "2025-01-01T00:00:00Z"},
			{"title": "Newer Post", "tag_list": ["ai", "ml"], "published_at": "2025-01-02T00:00:00Z"}
		]`)
	}))
	defer server.Close()

	client := publisher.NewDevtoClientWithHTTP("test-key", server.URL, server.Client(), discardLogger())

	articles, err := client.RecentArticles(context.Background(), 30)
	if err != nil {
		t.Fatalf("RecentArticles returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Title != "Older Post" || len(articles[1].TagList) != 2 {
		t.Errorf("articles decoded incorrectly: %+v", articles)
	}
}
