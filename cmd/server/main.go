package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"diagnostic-ai-agent/internal/agent"
	"diagnostic-ai-agent/internal/config"
	"diagnostic-ai-agent/internal/diagnosis"
	"diagnostic-ai-agent/internal/facility"
	"diagnostic-ai-agent/internal/platform/perplexity"
	"diagnostic-ai-agent/internal/report"
	"diagnostic-ai-agent/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Load()

	// 1. Infrastructure
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		for i := 0; i < 10; i++ {
			db, err = sql.Open("postgres", cfg.DatabaseURL)
			if err == nil {
				err = db.Ping()
			}
			if err == nil {
				break
			}
			logger.Info("waiting for database", "attempt", i+1)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			logger.Warn("could not connect to database, falling back to in-memory sessions", "error", err)
			db = nil
		} else {
			logger.Info("connected to database")
			m, err := migrate.New("file://migrations", cfg.DatabaseURL)
			if err != nil {
				logger.Warn("migration init failed", "error", err)
			} else if err := m.Up(); err != nil && err != migrate.ErrNoChange {
				logger.Warn("migration up failed", "error", err)
			} else {
				logger.Info("migrations applied")
			}
		}
	}

	// 2. Capability clients
	var engine *diagnosis.Engine
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, chat endpoint will report service unavailable")
	} else {
		var gen agent.Generator = agent.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		gen = agent.NewThrottledGenerator(gen, cfg.GenerateThrottle)

		var res agent.Researcher = perplexity.NewClient(cfg.PerplexityAPIKey, cfg.PerplexityModel)
		res = agent.NewThrottledResearcher(res, cfg.ResearchThrottle)

		engine = diagnosis.NewEngine(gen, res, diagnosis.Config{
			FailsafeLimit: cfg.FailsafeQuestionLimit,
			MaxSteps:      cfg.MaxRoutingSteps,
		}, logger)
	}

	// 3. Services
	var store session.Store
	if db != nil {
		store = session.NewPostgresStore(db)
	} else {
		store = session.NewMemoryStore()
	}
	chatSvc := diagnosis.NewService(store, engine, logger)
	chatHandler := diagnosis.NewHandler(chatSvc, report.NewService())

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		diagnosis.RegisterRoutes(r, chatHandler)
		if db != nil {
			facility.RegisterRoutes(r, facility.NewHandler(facility.NewService(facility.NewRepository(db))))
		}
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			status := "ok"
			dbStatus := "unavailable"
			if db != nil {
				if err := db.Ping(); err == nil {
					dbStatus = "ok"
				} else {
					dbStatus = "error: " + err.Error()
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `"}`))
		})
	})

	logger.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
