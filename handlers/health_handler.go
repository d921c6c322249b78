package handlers

import (
	"net/http"
	"time"
)

const version = "2.1.0"

// Health handles GET /health for uptime monitors.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}
