package publisher_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/postforge/postforge/generator"
	"github.com/postforge/postforge/publisher"
)

type tweetRequest struct {
	Text  string `json:"text"`
	Reply *struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply"`
}

func TestTwitterClient_PublishThread(t *testing.T) {
	var mu sync.Mutex
	var received []tweetRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tweetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding tweet request: %v", err)
		}
		mu.Lock()
		received = append(received, req)
		id := len(received)
		mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data": {"id": "tweet-%d", "text": %q}}`, id, req.Text)
	}))
	defer server.Close()

	client := publisher.NewTwitterClientWithHTTP(server.Client(), server.URL, 0, discardLogger())

	content := &generator.Content{
		Title:  "Thread Title",
		Thread: []string{"First tweet.", "Second tweet.", "Third tweet."},
	}

	result, err := client.Publish(context.Background(), content)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if len(received) != 3 {
		t.Fatalf("posted %d tweets, want 3", len(received))
	}
	if received[0].Reply != nil {
		t.Errorf("first tweet should not be a reply")
	}
	if received[1].Reply == nil || received[1].Reply.InReplyToTweetID != "tweet-1" {
		t.Errorf("second tweet should reply to the first, got %+v", received[1].Reply)
	}
	if received[2].Reply == nil || received[2].Reply.InReplyToTweetID != "tweet-2" {
		t.Errorf("third tweet should reply to the second, got %+v", received[2].Reply)
	}

	if result.ID != "tweet-1" {
		t.Errorf("result ID = %q, want the first tweet's id", result.ID)
	}
	if result.TweetCount != 3 {
		t.Errorf("TweetCount = %d, want 3", result.TweetCount)
	}
	if !strings.HasSuffix(result.URL, "/tweet-1") {
		t.Errorf("URL = %q, want it to point at the thread head", result.URL)
	}
}

func TestTwitterClient_LongEntryIsSegmented(t *testing.T) {
	var count int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tweetRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Text) > 280 {
			t.Errorf("tweet of %d chars exceeds the platform limit", len(req.Text))
		}
		count++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data": {"id": "tweet-%d", "text": ""}}`, count)
	}))
	defer server.Close()

	client := publisher.NewTwitterClientWithHTTP(server.Client(), server.URL, 0, discardLogger())

	long := strings.Repeat("An observation about production systems that keeps coming up. ", 7)
	content := &generator.Content{
		Title:  "t",
		Thread: []string{long},
	}

	result, err := client.Publish(context.Background(), content)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if result.TweetCount < 2 {
		t.Errorf("TweetCount = %d, want the long entry segmented", result.TweetCount)
	}
	if count != result.TweetCount {
		t.Errorf("posted %d tweets but reported %d", count, result.TweetCount)
	}
}

func TestTwitterClient_MultibyteEntryStaysValidUTF8(t *testing.T) {
	var posted []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tweetRequest
		json.NewDecoder(r.Body).Decode(&req)
		posted = append(posted, req.Text)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data": {"id": "tweet-%d", "text": ""}}`, len(posted))
	}))
	defer server.Close()

	client := publisher.NewTwitterClientWithHTTP(server.Client(), server.URL, 0, discardLogger())

	// No sentence, comma or space breakpoints, forcing hard cuts through
	// four-byte runes.
	content := &generator.Content{
		Title:  "t",
		Thread: []string{strings.Repeat("🚀", 200)},
	}

	if _, err := client.Publish(context.Background(), content); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if len(posted) < 2 {
		t.Fatalf("posted %d tweets, want the entry segmented", len(posted))
	}
	for i, text := range posted {
		if !utf8.ValidString(text) {
			t.Errorf("tweet %d is not valid UTF-8: %q", i+1, text)
		}
		if len(text) > 280 {
			t.Errorf("tweet %d of %d bytes exceeds the platform limit", i+1, len(text))
		}
	}
}

func TestTwitterClient_EmptyThreadFallsBackToTitle(t *testing.T) {
	var got tweetRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data": {"id": "tweet-1", "text": ""}}`)
	}))
	defer server.Close()

	client := publisher.NewTwitterClientWithHTTP(server.Client(), server.URL, 0, discardLogger())

	_, err := client.Publish(context.Background(), &generator.Content{Title: "Only A Title"})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got.Text != "Only A Title" {
		t.Errorf("posted %q, want the title as the single tweet", got.Text)
	}
}

func TestTwitterClient_APIErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"errors": [{"message": "You are not permitted to perform this action."}]}`)
	}))
	defer server.Close()

	client := publisher.NewTwitterClientWithHTTP(server.Client(), server.URL, 0, discardLogger())

	_, err := client.Publish(context.Background(), &generator.Content{Title: "t", Thread: []string{"tweet"}})
	if err == nil {
		t.Fatal("expected an error for a 403 response")
	}
	if !strings.Contains(err.Error(), "not permitted") {
		t.Errorf("error %q should carry the API message", err)
	}
}
