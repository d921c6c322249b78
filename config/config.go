package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type OpenAIConfig struct {
	APIKey string
	APIURL string
	Model  string
}

type DevtoConfig struct {
	APIKey  string
	Enabled bool
}

type MediumConfig struct {
	APIKey  string
	Enabled bool
}

type TwitterConfig struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	Enabled           bool
}

type TavilyConfig struct {
	APIKey string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
	Enabled    bool
}

type Config struct {
	Environment    string
	HTTPPort       string
	HTTPSPort      string
	Domains        []string
	CertCacheDir   string
	LogDir         string
	LogLevel       string
	CronSecret     string
	CronExpression string
	DatabaseURL    string
	JWTSecret      string
	Topics         []string

	OpenAI  OpenAIConfig
	Devto   DevtoConfig
	Medium  MediumConfig
	Twitter TwitterConfig
	Tavily  TavilyConfig
	Twilio  TwilioConfig
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		HTTPPort:       getEnv("HTTP_PORT", "8086"),
		HTTPSPort:      getEnv("HTTPS_PORT", "443"),
		Domains:        []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir:   getEnv("CERT_CACHE_DIR", "/etc/letsencrypt/live/example.com"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CronSecret:     getEnv("CRON_SECRET", ""),
		CronExpression: getEnv("POST_SCHEDULE", "0 6,14,18 * * *"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		Topics:         splitList(getEnv("CONTENT_TOPICS", "")),
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			APIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
			Model:  getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		},
		Devto: DevtoConfig{
			APIKey:  getEnv("DEVTO_API_KEY", ""),
			Enabled: getEnvAsBool("DEVTO_ENABLED", false),
		},
		Medium: MediumConfig{
			APIKey:  getEnv("MEDIUM_API_KEY", ""),
			Enabled: getEnvAsBool("MEDIUM_ENABLED", false),
		},
		Twitter: TwitterConfig{
			APIKey:            getEnv("TWITTER_API_KEY", ""),
			APISecret:         getEnv("TWITTER_API_SECRET", ""),
			AccessToken:       getEnv("TWITTER_ACCESS_TOKEN", ""),
			AccessTokenSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", ""),
			Enabled:           getEnvAsBool("TWITTER_ENABLED", false),
		},
		Tavily: TavilyConfig{
			APIKey: getEnv("TAVILY_API_KEY", ""),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
			ToNumber:   getEnv("TWILIO_TO_NUMBER", ""),
			Enabled:    getEnvAsBool("TWILIO_ENABLED", false),
		},
	}
}

// ValidationError carries the full list of missing settings so the trigger
// caller sees everything that needs fixing in one response.
type ValidationError struct {
	MissingVars []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.MissingVars, ", "))
}

// Validate checks that the model credential is present and that every enabled
// platform has its credentials set. It returns the list of enabled platform
// names, or an error before any external call is made.
func (c *Config) Validate() ([]string, error) {
	var missing []string
	var enabled []string

	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}

	if c.Devto.Enabled {
		enabled = append(enabled, "Dev.to")
		if c.Devto.APIKey == "" {
			missing = append(missing, "DEVTO_API_KEY (Dev.to is enabled)")
		}
	}

	if c.Medium.Enabled {
		enabled = append(enabled, "Medium")
		if c.Medium.APIKey == "" {
			missing = append(missing, "MEDIUM_API_KEY (Medium is enabled)")
		}
	}

	if c.Twitter.Enabled {
		enabled = append(enabled, "Twitter")
		if c.Twitter.APIKey == "" || c.Twitter.APISecret == "" ||
			c.Twitter.AccessToken == "" || c.Twitter.AccessTokenSecret == "" {
			missing = append(missing, "TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_TOKEN_SECRET (Twitter is enabled)")
		}
	}

	if len(enabled) == 0 {
		return nil, fmt.Errorf("no platforms enabled: set DEVTO_ENABLED=true, MEDIUM_ENABLED=true or TWITTER_ENABLED=true")
	}

	if len(missing) > 0 {
		return nil, &ValidationError{MissingVars: missing}
	}

	return enabled, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
