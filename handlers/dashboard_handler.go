package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/postforge/postforge/store"
	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"
)

// ConfigStore is the persistence surface the dashboard API needs.
type ConfigStore interface {
	GetConfig(ctx context.Context, userID string) (*store.TenantConfig, error)
	SaveConfig(ctx context.Context, cfg *store.TenantConfig) error
	MarkDeployed(ctx context.Context, userID, deploymentID string) error
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateUser(ctx context.Context, id, email, passwordHash string) error
}

// DashboardHandler serves the customer-facing configuration API: login,
// per-tenant config read/save, and deployment trigger.
type DashboardHandler struct {
	store     ConfigStore
	jwtSecret string
	logger    *slog.Logger
}

func NewDashboardHandler(s ConfigStore, jwtSecret string, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:     s,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Login handles POST /auth/login: bcrypt password check, 7-day JWT on
// success. Unknown email and wrong password are indistinguishable to the
// caller.
func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), body.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("Login lookup failed", slog.String("error", err.Error()))
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to issue token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  map[string]string{"id": user.ID, "email": user.Email},
	})
}

// Register handles POST /auth/register: creates a dashboard account with a
// bcrypt password hash.
func (h *DashboardHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}
	if len(body.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Password must be at least 8 characters"})
		return
	}

	if _, err := h.store.GetUserByEmail(r.Context(), body.Email); err == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "An account with this email already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("Registration lookup failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
		return
	}

	userID := uuid.NewString()
	if err := h.store.CreateUser(r.Context(), userID, body.Email, string(hash)); err != nil {
		h.logger.Error("Registration failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create account"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user": map[string]string{"id": userID, "email": body.Email},
	})
}

// GetConfig handles GET /config.
func (h *DashboardHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	cfg, err := h.store.GetConfig(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "No configuration saved yet"})
			return
		}
		h.logger.Error("Config load failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load configuration"})
		return
	}

	writeJSON(w, http.StatusOK, configPayloadFrom(cfg))
}

type configPayload struct {
	OpenAIAPIKey             string   `json:"openaiApiKey"`
	OpenAIModel              string   `json:"openaiModel"`
	DevtoAPIKey              string   `json:"devtoApiKey"`
	DevtoEnabled             bool     `json:"devtoEnabled"`
	MediumAPIKey             string   `json:"mediumApiKey"`
	MediumEnabled            bool     `json:"mediumEnabled"`
	TwitterAPIKey            string   `json:"twitterApiKey"`
	TwitterAPISecret         string   `json:"twitterApiSecret"`
	TwitterAccessToken       string   `json:"twitterAccessToken"`
	TwitterAccessTokenSecret string   `json:"twitterAccessTokenSecret"`
	TwitterEnabled           bool     `json:"twitterEnabled"`
	TavilyAPIKey             string   `json:"tavilyApiKey"`
	ContentTopics            string   `json:"contentTopics"`
	PostSchedule             string   `json:"postSchedule"`
	AutomationStatus         string   `json:"automationStatus,omitempty"`
	DeploymentID             string   `json:"deploymentId,omitempty"`
}

func configPayloadFrom(cfg *store.TenantConfig) configPayload {
	return configPayload{
		OpenAIAPIKey:             cfg.OpenAIAPIKey,
		OpenAIModel:              cfg.OpenAIModel,
		DevtoAPIKey:              cfg.DevtoAPIKey,
		DevtoEnabled:             cfg.Platforms.Devto,
		MediumAPIKey:             cfg.MediumAPIKey,
		MediumEnabled:            cfg.Platforms.Medium,
		TwitterAPIKey:            cfg.TwitterAPIKey,
		TwitterAPISecret:         cfg.TwitterAPISecret,
		TwitterAccessToken:       cfg.TwitterAccessToken,
		TwitterAccessTokenSecret: cfg.TwitterAccessTokenSecret,
		TwitterEnabled:           cfg.Platforms.Twitter,
		TavilyAPIKey:             cfg.TavilyAPIKey,
		ContentTopics:            strings.Join(cfg.ContentTopics, ","),
		PostSchedule:             cfg.PostSchedule,
		AutomationStatus:         cfg.AutomationStatus,
		DeploymentID:             cfg.DeploymentID,
	}
}

// SaveConfig handles POST /config. Validation errors are returned inline so
// the dashboard can surface them next to the fields.
func (h *DashboardHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var payload configPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if msg := validateConfigPayload(&payload); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	cfg := &store.TenantConfig{
		UserID:                   userID,
		OpenAIAPIKey:             payload.OpenAIAPIKey,
		OpenAIModel:              payload.OpenAIModel,
		DevtoAPIKey:              payload.DevtoAPIKey,
		MediumAPIKey:             payload.MediumAPIKey,
		TwitterAPIKey:            payload.TwitterAPIKey,
		TwitterAPISecret:         payload.TwitterAPISecret,
		TwitterAccessToken:       payload.TwitterAccessToken,
		TwitterAccessTokenSecret: payload.TwitterAccessTokenSecret,
		TavilyAPIKey:             payload.TavilyAPIKey,
		Platforms: store.PlatformsEnabled{
			Devto:   payload.DevtoEnabled,
			Medium:  payload.MediumEnabled,
			Twitter: payload.TwitterEnabled,
		},
		ContentTopics: splitTopics(payload.ContentTopics),
		PostSchedule:  payload.PostSchedule,
	}

	if err := h.store.SaveConfig(r.Context(), cfg); err != nil {
		h.logger.Error("Config save failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save configuration"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func validateConfigPayload(p *configPayload) string {
	if p.OpenAIAPIKey == "" {
		return "OpenAI API Key is required"
	}
	if !p.DevtoEnabled && !p.MediumEnabled && !p.TwitterEnabled {
		return "At least one platform must be enabled"
	}
	if p.DevtoEnabled && p.DevtoAPIKey == "" {
		return "Dev.to API Key is required when Dev.to is enabled"
	}
	if p.MediumEnabled && p.MediumAPIKey == "" {
		return "Medium API Key is required when Medium is enabled"
	}
	if p.TwitterEnabled && (p.TwitterAPIKey == "" || p.TwitterAPISecret == "" ||
		p.TwitterAccessToken == "" || p.TwitterAccessTokenSecret == "") {
		return "All four Twitter credentials are required when Twitter is enabled"
	}
	if p.PostSchedule != "" {
		if _, err := cron.ParseStandard(p.PostSchedule); err != nil {
			return fmt.Sprintf("Invalid posting schedule: %v", err)
		}
	}
	return ""
}

// Deploy handles POST /config/deploy: first call assigns a deployment id and
// flips the tenant to active, later calls restart the existing deployment.
func (h *DashboardHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	cfg, err := h.store.GetConfig(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Save a configuration before deploying"})
			return
		}
		h.logger.Error("Deploy load failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to deploy automation"})
		return
	}

	message := "Automation deployed successfully!"
	deploymentID := cfg.DeploymentID
	if deploymentID == "" {
		deploymentID = fmt.Sprintf("deploy-%s-%s", userID, uuid.NewString())
	} else {
		message = "Configuration updated. Automation restarted."
	}

	if err := h.store.MarkDeployed(r.Context(), userID, deploymentID); err != nil {
		h.logger.Error("Deploy update failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to deploy automation"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"deploymentId": deploymentID,
		"message":      message,
	})
}

// authenticate extracts and verifies the bearer token, writing the error
// response itself when the request is unauthorized.
func (h *DashboardHandler) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" || tokenString == header {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return "", false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return "", false
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return "", false
	}

	return userID, true
}

func splitTopics(s string) []string {
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
