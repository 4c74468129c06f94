// Package api exposes the analysis, session and interceptor services over HTTP.
package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/lide/internal/api/handlers"
	mw "github.com/Harshitk-cp/lide/internal/api/middleware"
	"github.com/Harshitk-cp/lide/internal/augment"
	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/interpret"
	"github.com/Harshitk-cp/lide/internal/llm"
	"github.com/Harshitk-cp/lide/internal/nlp"
	"github.com/Harshitk-cp/lide/internal/pipeline"
	"github.com/Harshitk-cp/lide/internal/service"
	"github.com/Harshitk-cp/lide/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Deps are the already-constructed collaborators of the HTTP app.
type Deps struct {
	Store     domain.Store
	Annotator domain.Annotator
	Augmenter *augment.Augmenter
	Registry  *interpret.Registry
	Models    handlers.ModelInfo

	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
}

// App holds the router and the pieces whose lifecycle main manages.
type App struct {
	Router      *chi.Mux
	RateLimiter *mw.RateLimiter
	Analysis    *service.AnalysisService
	Sessions    *service.SessionService
	Interceptor *service.Interceptor

	store   domain.Store
	metrics *mw.MetricsCollector
}

func NewApp(deps Deps, logger *zap.Logger) *App {
	var opts []pipeline.Option
	if deps.Augmenter.Enabled() {
		opts = append(opts, pipeline.WithAugmenter(deps.Augmenter))
	}
	p := pipeline.New(deps.Annotator, logger, opts...)
	in := interpret.NewInterpreter(deps.Registry, logger)

	// Services
	analysisSvc := service.NewAnalysisService(deps.Store, deps.Store, p, in, logger)
	sessionSvc := service.NewSessionService(deps.Store, deps.Store, deps.Store, p, in, logger)
	interceptor := service.NewInterceptor(sessionSvc, logger)

	// Handlers
	docHandler := handlers.NewDocumentHandler(analysisSvc, logger)
	sessionHandler := handlers.NewSessionHandler(sessionSvc, logger)
	chatHandler := handlers.NewChatHandler(interceptor, logger)
	metaHandler := handlers.NewMetaHandler(deps.Models, analysisSvc.Plugins)

	rps, burst := deps.RateLimitRPS, deps.RateLimitBurst
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = 20
	}

	r := chi.NewRouter()
	app := &App{
		Router:      r,
		RateLimiter: mw.NewRateLimiter(rps, burst),
		Analysis:    analysisSvc,
		Sessions:    sessionSvc,
		Interceptor: interceptor,
		store:       deps.Store,
		metrics:     mw.NewMetricsCollector(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiter.Middleware)

	r.Route("/v0", func(r chi.Router) {
		// Health and metrics (no auth)
		r.Get("/health", app.healthHandler)
		r.Get("/metrics", app.metricsHandler)
		r.Get("/version", metaHandler.Version)

		r.Group(func(r chi.Router) {
			r.Use(mw.APIKeyAuth(deps.APIKey))

			r.Get("/models", metaHandler.Models)
			r.Get("/capabilities", metaHandler.Capabilities)
			r.Get("/plugins", metaHandler.Plugins)

			// Documents
			r.Route("/docs", func(r chi.Router) {
				r.Post("/", docHandler.Create)
				r.Get("/", docHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", docHandler.Get)
					r.Delete("/", docHandler.Delete)
					r.Get("/graph", docHandler.Graph)
					r.Get("/logic", docHandler.Logic)
				})
			})
			r.Post("/analyze", docHandler.Analyze)

			// Sessions
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.Create)
				r.Get("/", sessionHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Patch("/", sessionHandler.Rename)
					r.Delete("/", sessionHandler.Delete)
					r.Post("/messages", sessionHandler.AddMessage)
					r.Get("/messages", sessionHandler.Messages)
					r.Get("/accumulated-graph", sessionHandler.AccumulatedGraph)
					r.Get("/export", sessionHandler.Export)
				})
			})

			// Interceptor
			r.Post("/chat/message", chatHandler.Message)
		})
	})

	return app
}

// healthHandler reports liveness. It degrades to 503 when the store cannot
// answer a trivial query.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	snap := app.metrics.Snapshot()
	resp := map[string]any{
		"status":         "ok",
		"uptime_seconds": snap.UptimeSeconds,
		"request_count":  snap.Requests,
		"error_count":    snap.Errors,
	}
	if _, err := app.store.ListDocuments(r.Context()); err != nil {
		resp["status"] = "error"
		resp["error"] = err.Error()
		handlers.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

func (app *App) metricsHandler(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snap := app.metrics.Snapshot()
	uptime := time.Duration(snap.UptimeSeconds * float64(time.Second))

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds": snap.UptimeSeconds,
		"uptime_human":   uptime.Round(time.Second).String(),
		"request_count":  snap.Requests,
		"error_count":    snap.Errors,
		"goroutines":     runtime.NumGoroutine(),
		"memory": map[string]any{
			"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
			"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
			"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
			"num_gc":         memStats.NumGC,
		},
		"go_version": runtime.Version(),
	})
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.Store     = (*store.MemoryStore)(nil)
	_ domain.Store     = (*store.SQLiteStore)(nil)
	_ domain.Store     = (*store.PostgresStore)(nil)
	_ domain.Annotator = (*nlp.HTTPAnnotator)(nil)
	_ domain.Annotator = (*nlp.StaticAnnotator)(nil)
	_ domain.LLMClient = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient = (*llm.CodexClient)(nil)
	_ domain.LLMClient = (*llm.MockClient)(nil)
	_ domain.Plugin    = (*interpret.TruthChecker)(nil)
	_ domain.Plugin    = (*interpret.DiscourseMarker)(nil)
)
