package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/generator"
)

const (
	twitterAPIV2URL = "https://api.twitter.com/2/tweets"

	// tweetSplitLength leaves headroom under the hard platform limit so the
	// splitter's continuation markers still fit.
	tweetSplitLength = 275
	tweetHardLimit   = 280
)

// TwitterClient posts a generated thread as a reply chain through the
// Twitter v2 API, signed with OAuth 1.0a user context.
type TwitterClient struct {
	httpClient *http.Client
	baseURL    string
	pause      time.Duration
	logger     *slog.Logger
}

func NewTwitterClient(cfg config.TwitterConfig, logger *slog.Logger) *TwitterClient {
	oauthConfig := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	return &TwitterClient{
		httpClient: httpClient,
		baseURL:    twitterAPIV2URL,
		pause:      time.Second,
		logger:     logger,
	}
}

// NewTwitterClientWithHTTP allows tests to inject a mock server and client
// and drop the inter-tweet pause.
func NewTwitterClientWithHTTP(httpClient *http.Client, baseURL string, pause time.Duration, logger *slog.Logger) *TwitterClient {
	return &TwitterClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		pause:      pause,
		logger:     logger,
	}
}

func (c *TwitterClient) Name() string {
	return "twitter"
}

// Publish posts the content's thread in sequence, each tweet replying to the
// previous one. Thread entries that exceed the split length are segmented
// first, so the posted count can be higher than the generated count. The
// first tweet's id identifies the thread.
func (c *TwitterClient) Publish(ctx context.Context, content *generator.Content) (*Result, error) {
	rawTweets := content.Thread
	if len(rawTweets) == 0 {
		rawTweets = []string{content.Title}
	}

	var tweets []string
	for _, tweet := range rawTweets {
		tweets = append(tweets, SplitTweet(tweet, tweetSplitLength)...)
	}

	c.logger.Info("Posting thread",
		slog.Int("tweets", len(tweets)),
		slog.Int("generated", len(rawTweets)))

	var firstID, previousID string
	for i, tweet := range tweets {
		if len(tweet) > tweetHardLimit {
			tweet = truncate(tweet, tweetHardLimit)
		}

		id, err := c.postTweet(ctx, tweet, previousID)
		if err != nil {
			return nil, fmt.Errorf("error posting tweet %d/%d: %w", i+1, len(tweets), err)
		}

		if firstID == "" {
			firstID = id
		}
		previousID = id

		// Brief pause between tweets to stay under the posting rate limit.
		if i < len(tweets)-1 {
			select {
			case <-time.After(c.pause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return &Result{
		Platform:   c.Name(),
		ID:         firstID,
		URL:        fmt.Sprintf("https://twitter.com/user/status/%s", firstID),
		TweetCount: len(tweets),
	}, nil
}

func (c *TwitterClient) postTweet(ctx context.Context, text, inReplyTo string) (string, error) {
	payload := map[string]interface{}{
		"text": text,
	}
	if inReplyTo != "" {
		payload["reply"] = map[string]string{
			"in_reply_to_tweet_id": inReplyTo,
		}
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshaling tweet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		var tweetResponse struct {
			Data struct {
				ID   string `json:"id"`
				Text string `json:"text"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&tweetResponse); err != nil {
			return "", fmt.Errorf("error decoding response: %w", err)
		}
		return tweetResponse.Data.ID, nil
	}

	var errorResp struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil {
		return "", fmt.Errorf("twitter API error (status %d)", resp.StatusCode)
	}

	errorMessage := "Unknown Twitter API error"
	if len(errorResp.Errors) > 0 {
		errorMessage = errorResp.Errors[0].Message
	}

	c.logger.Error("Twitter API error",
		slog.String("error", errorMessage),
		slog.Int("status_code", resp.StatusCode))

	return "", fmt.Errorf("twitter API error: %s", errorMessage)
}
