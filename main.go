package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/generator"
	"github.com/postforge/postforge/handlers"
	"github.com/postforge/postforge/llm_service"
	"github.com/postforge/postforge/logging"
	"github.com/postforge/postforge/notify"
	"github.com/postforge/postforge/publisher"
	"github.com/postforge/postforge/search"
	"github.com/postforge/postforge/server"
	"github.com/postforge/postforge/store"

	"github.com/urfave/negroni"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	research := search.NewTavilyClient(cfg.Tavily.APIKey, logger)
	llm := llm_service.NewOpenAIService(logger)
	gen := generator.New(llm, cfg.OpenAI, logger)

	var platforms []publisher.Platform
	var history handlers.TopicHistory

	if cfg.Devto.Enabled {
		devto := publisher.NewDevtoClient(cfg.Devto.APIKey, logger)
		// Catch a revoked key at startup instead of on the next cron run.
		if err := devto.VerifyKey(context.Background()); err != nil {
			logger.Warn("Dev.to API key verification failed",
				slog.String("error", err.Error()))
		}
		platforms = append(platforms, devto)
		history = devto
	}
	if cfg.Medium.Enabled {
		platforms = append(platforms, publisher.NewMediumClient(cfg.Medium.APIKey, logger))
	}
	if cfg.Twitter.Enabled {
		platforms = append(platforms, publisher.NewTwitterClient(cfg.Twitter, logger))
	}

	poster := publisher.New(logger, platforms...)

	var notifier handlers.RunNotifier
	if cfg.Twilio.Enabled {
		notifier = notify.NewSMSNotifier(cfg.Twilio, logger)
	}

	cronHandler := handlers.NewCronHandler(cfg, gen, research, poster, history, notifier, logger)

	// The dashboard API needs a database; without one the service still runs
	// as a pure cron target.
	var dashboardHandler *handlers.DashboardHandler
	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		dashboardHandler = handlers.NewDashboardHandler(store.New(pool), cfg.JWTSecret, logger)
	}

	r := server.SetupRoutes(cronHandler, dashboardHandler)
	n := setupNegroni(r)

	if cfg.Environment == "production" {
		server.ServeProduction(n, cfg.Domains, cfg.CertCacheDir)
	} else {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      n,
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 120 * time.Second,
		}
		server.ServeDevelopment(srv)
	}
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}
