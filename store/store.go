// Package store persists per-tenant bot configuration: the credentials,
// platform flags and posting schedule a customer edits in the dashboard,
// later materialized into the environment of a deployed bot instance.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Automation deployment states.
const (
	StatusPending   = "pending"
	StatusDeploying = "deploying"
	StatusActive    = "active"
)

// Connect opens the pool with retries so the service survives a database
// that comes up after it does.
func Connect(databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	var pool *pgxpool.Pool
	var err error
	maxRetries := 10
	retryDelay := time.Second * 10

	for i := 0; i < maxRetries; i++ {
		config, cfgErr := pgxpool.ParseConfig(databaseURL)
		if cfgErr != nil {
			return nil, fmt.Errorf("unable to parse DATABASE_URL: %v", cfgErr)
		}

		pool, err = pgxpool.NewWithConfig(context.Background(), config)
		if err == nil {
			err = pool.Ping(context.Background())
			if err == nil {
				log.Println("Successfully connected to the database")
				return pool, nil
			}
		}

		log.Printf("Failed to connect to the database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d attempts: %v", maxRetries, err)
}

// PlatformsEnabled mirrors the dashboard's per-platform toggles.
type PlatformsEnabled struct {
	Devto   bool `json:"devto"`
	Medium  bool `json:"medium"`
	Twitter bool `json:"twitter"`
}

// TenantConfig is one customer's bot configuration row.
type TenantConfig struct {
	UserID                   string
	OpenAIAPIKey             string
	OpenAIModel              string
	DevtoAPIKey              string
	MediumAPIKey             string
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string
	TavilyAPIKey             string
	Platforms                PlatformsEnabled
	ContentTopics            []string
	PostSchedule             string
	AutomationStatus         string
	DeploymentID             string
	UpdatedAt                time.Time
}

// Env materializes the row into the environment a deployed bot instance
// reads through config.Load.
func (c *TenantConfig) Env() map[string]string {
	return map[string]string{
		"OPENAI_API_KEY":              c.OpenAIAPIKey,
		"OPENAI_MODEL":                c.OpenAIModel,
		"DEVTO_API_KEY":               c.DevtoAPIKey,
		"DEVTO_ENABLED":               fmt.Sprintf("%t", c.Platforms.Devto),
		"MEDIUM_API_KEY":              c.MediumAPIKey,
		"MEDIUM_ENABLED":              fmt.Sprintf("%t", c.Platforms.Medium),
		"TWITTER_API_KEY":             c.TwitterAPIKey,
		"TWITTER_API_SECRET":          c.TwitterAPISecret,
		"TWITTER_ACCESS_TOKEN":        c.TwitterAccessToken,
		"TWITTER_ACCESS_TOKEN_SECRET": c.TwitterAccessTokenSecret,
		"TWITTER_ENABLED":             fmt.Sprintf("%t", c.Platforms.Twitter),
		"TAVILY_API_KEY":              c.TavilyAPIKey,
		"CONTENT_TOPICS":              strings.Join(c.ContentTopics, ","),
		"POST_SCHEDULE":               c.PostSchedule,
	}
}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetConfig(ctx context.Context, userID string) (*TenantConfig, error) {
	var cfg TenantConfig
	var platformsJSON []byte

	err := s.pool.QueryRow(ctx, `
		SELECT user_id, openai_api_key, openai_model,
		       COALESCE(devto_api_key, ''), COALESCE(medium_api_key, ''),
		       COALESCE(twitter_api_key, ''), COALESCE(twitter_api_secret, ''),
		       COALESCE(twitter_access_token, ''), COALESCE(twitter_access_token_secret, ''),
		       COALESCE(tavily_api_key, ''),
		       platforms_enabled, content_topics, post_schedule,
		       automation_status, COALESCE(deployment_id, ''), updated_at
		FROM user_config WHERE user_id = $1`, userID).Scan(
		&cfg.UserID, &cfg.OpenAIAPIKey, &cfg.OpenAIModel,
		&cfg.DevtoAPIKey, &cfg.MediumAPIKey,
		&cfg.TwitterAPIKey, &cfg.TwitterAPISecret,
		&cfg.TwitterAccessToken, &cfg.TwitterAccessTokenSecret,
		&cfg.TavilyAPIKey,
		&platformsJSON, &cfg.ContentTopics, &cfg.PostSchedule,
		&cfg.AutomationStatus, &cfg.DeploymentID, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading tenant config: %w", err)
	}

	if err := json.Unmarshal(platformsJSON, &cfg.Platforms); err != nil {
		return nil, fmt.Errorf("error decoding platforms_enabled: %w", err)
	}

	return &cfg, nil
}

// SaveConfig upserts the tenant row. A fresh row starts in the pending
// deployment state.
func (s *Store) SaveConfig(ctx context.Context, cfg *TenantConfig) error {
	platformsJSON, err := json.Marshal(cfg.Platforms)
	if err != nil {
		return fmt.Errorf("error encoding platforms_enabled: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_config (
			user_id, openai_api_key, openai_model,
			devto_api_key, medium_api_key,
			twitter_api_key, twitter_api_secret,
			twitter_access_token, twitter_access_token_secret,
			tavily_api_key, platforms_enabled, content_topics,
			post_schedule, automation_status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
		ON CONFLICT (user_id) DO UPDATE SET
			openai_api_key = EXCLUDED.openai_api_key,
			openai_model = EXCLUDED.openai_model,
			devto_api_key = EXCLUDED.devto_api_key,
			medium_api_key = EXCLUDED.medium_api_key,
			twitter_api_key = EXCLUDED.twitter_api_key,
			twitter_api_secret = EXCLUDED.twitter_api_secret,
			twitter_access_token = EXCLUDED.twitter_access_token,
			twitter_access_token_secret = EXCLUDED.twitter_access_token_secret,
			tavily_api_key = EXCLUDED.tavily_api_key,
			platforms_enabled = EXCLUDED.platforms_enabled,
			content_topics = EXCLUDED.content_topics,
			post_schedule = EXCLUDED.post_schedule,
			updated_at = now()`,
		cfg.UserID, cfg.OpenAIAPIKey, cfg.OpenAIModel,
		cfg.DevtoAPIKey, cfg.MediumAPIKey,
		cfg.TwitterAPIKey, cfg.TwitterAPISecret,
		cfg.TwitterAccessToken, cfg.TwitterAccessTokenSecret,
		cfg.TavilyAPIKey, platformsJSON, cfg.ContentTopics,
		cfg.PostSchedule, StatusPending)
	if err != nil {
		return fmt.Errorf("error saving tenant config: %w", err)
	}
	return nil
}

// MarkDeployed records the deployment id and flips the row to active.
func (s *Store) MarkDeployed(ctx context.Context, userID, deploymentID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE user_config
		SET deployment_id = $2, automation_status = $3, updated_at = now()
		WHERE user_id = $1`, userID, deploymentID, StatusActive)
	if err != nil {
		return fmt.Errorf("error marking deployment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// User is a dashboard account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = $1`,
		strings.ToLower(email)).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, id, email, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		id, strings.ToLower(email), passwordHash)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}
