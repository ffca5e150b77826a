package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/claimcheck/internal/api/handlers"
	mw "github.com/Harshitk-cp/claimcheck/internal/api/middleware"
	"github.com/Harshitk-cp/claimcheck/internal/buildconfig"
	"github.com/Harshitk-cp/claimcheck/internal/cache"
	"github.com/Harshitk-cp/claimcheck/internal/config"
	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"github.com/Harshitk-cp/claimcheck/internal/service"
	"github.com/Harshitk-cp/claimcheck/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const rateLimitCleanupInterval = 10 * time.Minute

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures an App independently of the environment.
type Options struct {
	DB         Pinger
	Covariates domain.CovariateStore
	// Conflicts may be nil, which disables the conflict log.
	Conflicts domain.ConflictStore

	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
	IndexCacheTTL  time.Duration
}

// App holds the router and the long-lived pieces it needs to shut down.
type App struct {
	Router      *chi.Mux
	Consistency *service.ConsistencyService
	IndexCache  *cache.IndexCache

	counters  mw.Counters
	startTime time.Time
	stop      chan struct{}
}

// NewApp wires the Postgres stores and reads settings from config.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	opts := Options{
		DB:             db,
		Covariates:     store.NewCovariateStore(db),
		APIKey:         config.APIKey(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
		IndexCacheTTL:  config.IndexCacheTTL(),
	}
	if config.RecordConflicts() {
		opts.Conflicts = store.NewConflictStore(db)
	}
	return NewAppWithOptions(opts, logger)
}

func NewAppWithOptions(opts Options, logger *zap.Logger) *App {
	indexCache := cache.NewIndexCache(opts.IndexCacheTTL)

	consistencySvc := service.NewConsistencyService(opts.Covariates, logger)
	consistencySvc.SetIndexCache(indexCache)
	if opts.Conflicts != nil {
		consistencySvc.SetConflictStore(opts.Conflicts)
	}

	logger.Info("consistency service initialized",
		zap.Duration("index_cache_ttl", opts.IndexCacheTTL),
		zap.Bool("conflict_log", opts.Conflicts != nil),
		zap.Bool("auth", opts.APIKey != ""),
	)

	claimHandler := handlers.NewClaimHandler(consistencySvc)

	r := chi.NewRouter()
	app := &App{
		Router:      r,
		Consistency: consistencySvc,
		IndexCache:  indexCache,
		startTime:   time.Now(),
		stop:        make(chan struct{}),
	}

	limiter := mw.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	limiter.StartCleanup(rateLimitCleanupInterval, app.stop)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(&app.counters))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(limiter.Middleware)

	r.Get("/health", healthHandler(opts.DB))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(opts.APIKey))

		r.Post("/claims/check", claimHandler.Check)
		r.Get("/conflicts", claimHandler.ListConflicts)
		r.Delete("/index/{type}", claimHandler.InvalidateIndex)
	})

	return app
}

// Close stops background work started by the app.
func (app *App) Close() {
	select {
	case <-app.stop:
	default:
		close(app.stop)
	}
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}
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
			"uptime_seconds":   uptime.Seconds(),
			"uptime_human":     uptime.Round(time.Second).String(),
			"requests":         app.counters.Snapshot(),
			"index_cache_size": app.IndexCache.Len(),
			"goroutines":       runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.CovariateStore = (*store.CovariateStore)(nil)
	_ domain.ConflictStore  = (*store.ConflictStore)(nil)
	_ service.IndexCache    = (*cache.IndexCache)(nil)
	_ Pinger                = (*pgxpool.Pool)(nil)
)
