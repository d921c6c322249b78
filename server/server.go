package server

import (
	"crypto/tls"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/postforge/postforge/handlers"
	"github.com/urfave/negroni"
	"golang.org/x/crypto/acme/autocert"
)

func SetupRoutes(cronHandler *handlers.CronHandler, dashboardHandler *handlers.DashboardHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/cron/run", cronHandler.Run).Methods("POST")
	r.HandleFunc("/health", handlers.Health).Methods("GET")

	// Dashboard API, present only when a database is configured.
	if dashboardHandler != nil {
		r.HandleFunc("/auth/register", dashboardHandler.Register).Methods("POST")
		r.HandleFunc("/auth/login", dashboardHandler.Login).Methods("POST")
		r.HandleFunc("/config", dashboardHandler.GetConfig).Methods("GET")
		r.HandleFunc("/config", dashboardHandler.SaveConfig).Methods("POST")
		r.HandleFunc("/config/deploy", dashboardHandler.Deploy).Methods("POST")
	}

	return r
}

// ServeProduction starts the TLS server with automatic certificates for the
// configured domains, redirecting plain HTTP to HTTPS.
func ServeProduction(n *negroni.Negroni, domains []string, certCacheDir string) {
	autocertManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(certCacheDir),
	}

	// Port 80 serves ACME "http-01" challenges and redirects everything else
	// to HTTPS.
	go func() {
		srv := &http.Server{
			Addr:         ":80",
			Handler:      autocertManager.HTTPHandler(nil),
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		err := srv.ListenAndServe()
		log.Fatal(err)
	}()

	tlsConfig := &tls.Config{
		GetCertificate:           autocertManager.GetCertificate,
		PreferServerCipherSuites: true,
		CurvePreferences:         []tls.CurveID{tls.X25519, tls.CurveP256},
	}

	srv := &http.Server{
		Addr:         ":443",
		Handler:      n,
		TLSConfig:    tlsConfig,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	// Key and cert are provided by autocert.
	err := srv.ListenAndServeTLS("", "")
	log.Fatal(err)
}

// ServeDevelopment starts the plain HTTP server for local use.
func ServeDevelopment(s *http.Server) {
	log.Fatal(s.ListenAndServe())
}
