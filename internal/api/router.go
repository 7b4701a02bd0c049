package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/api/handlers"
	mw "github.com/Harshitk-cp/mailmap/internal/api/middleware"
	"github.com/Harshitk-cp/mailmap/internal/config"
	"github.com/Harshitk-cp/mailmap/internal/domain"
	"github.com/Harshitk-cp/mailmap/internal/google"
	"github.com/Harshitk-cp/mailmap/internal/llm"
	"github.com/Harshitk-cp/mailmap/internal/service"
	"github.com/Harshitk-cp/mailmap/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the shared stores/services for lifecycle
// management by the server binary.
type App struct {
	Router   *chi.Mux
	Pipeline *service.PipelineService
	Feedback *store.FeedbackStore

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires stores, services and handlers. gsvc may be nil when
// Google credentials are not configured; scan start and sync endpoints
// then report the missing dependency instead of failing at boot.
func NewApp(gsvc *google.Services, logger *zap.Logger) *App {
	// Stores
	ledger := store.NewLedger()
	feedbackStore := store.NewFeedbackStore()
	topicStore := store.NewTopicStore()

	// External clients via provider factory
	classifier, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", config.LLMProvider()), zap.Error(err))
	} else {
		logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))
	}

	var (
		source       domain.MessageSource
		contactStore domain.ContactStore
		taskStore    domain.TaskStore
	)
	if gsvc != nil {
		source = google.NewGmailSource(gsvc.Gmail)
		contactStore = google.NewPeopleStore(gsvc.People)
		taskStore = google.NewTasksStore(gsvc.Tasks)
	}

	// Services
	events := service.NewBroadcaster(logger)
	lifecycle := service.NewLifecycleService()
	ontologySvc := service.NewOntologyService(topicStore, nil, logger)

	var contactSvc *service.ContactSyncService
	var taskSvc *service.TaskSyncService
	if contactStore != nil {
		contactSvc = service.NewContactSyncService(contactStore, events, config.SyncCallDelay(), logger)
	}
	if taskStore != nil {
		taskSvc = service.NewTaskSyncService(taskStore, events, config.SyncCallDelay(), logger)
	}

	pipelineSvc := service.NewPipelineService(lifecycle, ledger, events, source, classifier, ontologySvc, contactSvc, taskSvc, logger)
	feedbackSvc := service.NewFeedbackService(feedbackStore, events)

	// Handlers
	scanDefaults := service.ScanConfig{
		BatchSize:       config.ScanBatchSize(),
		InterBatchDelay: config.ScanBatchDelay(),
		MaxEmailsPerDay: config.ScanMaxEmailsPerDay(),
		WindowDays:      config.ScanWindowDays(),
		AutoSync:        config.AutoSyncEnabled(),
		TargetListName:  config.TaskListName(),
	}
	pipelineHandler := handlers.NewPipelineHandler(pipelineSvc, scanDefaults)
	eventsHandler := handlers.NewEventsHandler(events)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackSvc)
	syncHandler := handlers.NewSyncHandler(pipelineSvc, contactSvc, taskSvc, config.TaskListName())
	ontologyHandler := handlers.NewOntologyHandler(ontologySvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Pipeline:  pipelineSvc,
		Feedback:  feedbackStore,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health
	r.Get("/health", healthHandler())

	// Metrics
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Pipeline control
		r.Route("/pipeline", func(r chi.Router) {
			r.Post("/start", pipelineHandler.Start)
			r.Post("/pause", pipelineHandler.Pause)
			r.Post("/resume", pipelineHandler.Resume)
			r.Post("/stop", pipelineHandler.Stop)
			r.Post("/flush", pipelineHandler.Flush)
			r.Get("/status", pipelineHandler.Status)
			r.Get("/entities", pipelineHandler.Entities)
			r.Get("/relationships", pipelineHandler.Relationships)
		})

		// Event stream
		r.Get("/events", eventsHandler.Stream)

		// Feedback
		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", feedbackHandler.Create)
			r.Get("/stats", feedbackHandler.Stats)
			r.Get("/export", feedbackHandler.Export)
			r.Post("/import", feedbackHandler.Import)
		})

		// External sync
		r.Route("/sync", func(r chi.Router) {
			r.Post("/contacts", syncHandler.Contacts)
			r.Post("/tasks", syncHandler.Tasks)
		})

		// Topic ontology
		r.Route("/ontology", func(r chi.Router) {
			r.Get("/", ontologyHandler.Get)
			r.Post("/topics", ontologyHandler.AddTopic)
		})
	})

	return app
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.MessageSource = (*google.GmailSource)(nil)
	_ domain.ContactStore  = (*google.PeopleStore)(nil)
	_ domain.TaskStore     = (*google.TasksStore)(nil)
	_ domain.Classifier    = (*llm.OpenAIClassifier)(nil)
	_ domain.Classifier    = (*llm.AnthropicClassifier)(nil)
	_ domain.Classifier    = (*llm.MockClassifier)(nil)
)
