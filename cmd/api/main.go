package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/web-planner/internal/auth"
	"github.com/crucial707/web-planner/internal/config"
	"github.com/crucial707/web-planner/internal/db"
	"github.com/crucial707/web-planner/internal/handlers"
	"github.com/crucial707/web-planner/internal/middleware"
	"github.com/crucial707/web-planner/internal/repo"
	"github.com/crucial707/web-planner/internal/scheduler"
)

func main() {

	// Load configuration
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if cfg.MigrateOnStart {
		if err := db.Run(cfg.DatabaseURL()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		slog.Info("migrations applied")
	}

	// Repos and services
	userRepo := repo.NewUserRepo(database)
	sessionRepo := repo.NewSessionRepo(database)
	taskRepo := repo.NewTaskRepo(database)
	eventRepo := repo.NewEventRepo(database)

	authSvc := auth.NewService(userRepo, sessionRepo, time.Duration(cfg.SessionTTLHours)*time.Hour)
	cookies := auth.CookieConfig{
		Name:   cfg.CookieName,
		Domain: cfg.CookieDomain,
		Secure: cfg.CookieSecure,
	}

	authHandler := &handlers.AuthHandler{Auth: authSvc, Cookies: cookies}
	taskHandler := &handlers.TaskHandler{Repo: taskRepo}
	eventHandler := &handlers.EventHandler{Repo: eventRepo}

	// Optional expired-session janitor; lazy expiry stays the contract either way.
	if cfg.SessionSweepCron != "" {
		if _, err := scheduler.Run(sessionRepo, cfg.SessionSweepCron); err != nil {
			log.Fatalf("Failed to start session janitor: %v", err)
		}
	}

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Auth endpoints, rate limited per IP
	authLimiter := middleware.AuthRateLimiter()
	r.With(authLimiter.Middleware).HandleFunc("/auth", authHandler.Dispatch)

	// Resource endpoints, behind the session gate
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(authSvc, cookies))

		r.Get("/tasks", taskHandler.Get)
		r.Post("/tasks", taskHandler.Create)
		r.Put("/tasks", taskHandler.Update)
		r.Delete("/tasks", taskHandler.Delete)

		r.Get("/events", eventHandler.Get)
		r.Post("/events", eventHandler.Create)
		r.Put("/events", eventHandler.Update)
		r.Delete("/events", eventHandler.Delete)
	})

	addr := ":" + cfg.Port

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server", "addr", addr, "tls", true)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr, "tls", false)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
