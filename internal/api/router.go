package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/queueboard/queueboard/internal/api/handlers"
	mw "github.com/queueboard/queueboard/internal/api/middleware"
	"github.com/queueboard/queueboard/internal/config"
	"github.com/queueboard/queueboard/internal/domain"
	"github.com/queueboard/queueboard/internal/service"
	"github.com/queueboard/queueboard/internal/store"
)

// Stores bundles the persistence collaborators the app is wired with,
// either pgx-backed or in-memory.
type Stores struct {
	Agents      domain.AgentStore
	Queues      domain.QueueStore
	Assignments domain.AssignmentStore
	Ping        func(ctx context.Context) error
}

// App holds the router and request counters for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(st Stores, logger *zap.Logger) *App {
	agentSvc := service.NewAgentService(st.Agents, logger)
	queueSvc := service.NewQueueService(st.Queues, st.Assignments, logger)

	agentHandler := handlers.NewAgentHandler(agentSvc, logger)
	queueHandler := handlers.NewQueueHandler(queueSvc, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.Correlation) // Assign/extract correlation id first
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health
	r.Get("/health", healthHandler(st.Ping))

	// Metrics
	r.Get("/metrics", app.metricsHandler())

	// Resources
	r.Route("/agents", func(r chi.Router) {
		r.Get("/", agentHandler.List)
		r.Post("/", agentHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", agentHandler.GetByID)
			r.Put("/", agentHandler.Update)
			r.Delete("/", agentHandler.Delete)
		})
	})

	r.Route("/queues", func(r chi.Router) {
		r.Get("/", queueHandler.List)
		r.Post("/", queueHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", queueHandler.GetByID)
			r.Put("/", queueHandler.Update)
			r.Delete("/", queueHandler.Delete)
			r.Get("/agents", queueHandler.ListAgents)
		})
	})

	return app
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.AgentStore      = (*store.AgentStore)(nil)
	_ domain.QueueStore      = (*store.QueueStore)(nil)
	_ domain.AssignmentStore = (*store.AssignmentStore)(nil)
	_ domain.AgentStore      = (*store.MemoryAgentStore)(nil)
	_ domain.QueueStore      = (*store.MemoryQueueStore)(nil)
	_ domain.AssignmentStore = (*store.MemoryAssignmentStore)(nil)
)
