// cmd/hireflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/config"
	"hireflow/internal/common/logger"
	"hireflow/internal/common/observability"
	"hireflow/internal/resources/analytics"
	"hireflow/internal/resources/applications"
	"hireflow/internal/resources/auth"
	"hireflow/internal/resources/candidates"
	"hireflow/internal/resources/communications"
	"hireflow/internal/resources/compliance"
	"hireflow/internal/resources/interviews"
	"hireflow/internal/resources/jobs"
	"hireflow/internal/resources/resume"
	"hireflow/internal/resources/statuslist"
	"hireflow/internal/resources/users"
)

// Clients bundles every resource client over one shared transport and cache.
type Clients struct {
	Applications   *applications.Client
	Jobs           *jobs.Client
	Candidates     *candidates.Client
	Interviews     *interviews.Client
	Communications *communications.Client
	Resume         *resume.Client
	Auth           *auth.Client
	Users          *users.Client
	Compliance     *compliance.Client
	Analytics      *analytics.Client
	StatusList     *statuslist.Client
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting hireflow client...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("hireflow")
	defer obs.Shutdown()

	var tracing *observability.Tracing
	if cfg.Observability.TracingEnabled {
		tracing, err = observability.NewTracing("hireflow", cfg.Observability.JaegerEndpoint)
		if err != nil {
			zapLog.Fatal("tracing init failed", zap.Error(err))
		}
		defer tracing.Shutdown()
	}

	ctx := context.Background()

	// --- Cache backend ---
	var store cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		rs, err := cache.NewRedisStore(cfg.Redis)
		if err != nil {
			zapLog.Fatal("redis store init failed", zap.Error(err))
		}
		if err := rs.Ping(ctx); err != nil {
			zapLog.Fatal("redis unreachable", zap.Error(err))
		}
		store = rs
		zapLog.Info("Redis cache backend connected", zap.String("address", cfg.Redis.Address))
	default:
		store = cache.NewMemoryStore()
		zapLog.Info("In-memory cache backend initialized")
	}

	queryCache := cache.New(store, log)
	defer queryCache.Close()

	apiClient := api.NewClient(cfg.API, log, tracing).WithObservability(obs)

	ttl := config.GetDuration(cfg.Cache.TTL)
	statusTTL := config.GetDuration(cfg.Cache.StatusListTTL)

	clients := &Clients{
		Applications:   applications.NewClient(apiClient, queryCache, ttl, log),
		Jobs:           jobs.NewClient(apiClient, queryCache, ttl, log),
		Candidates:     candidates.NewClient(apiClient, queryCache, ttl, log),
		Interviews:     interviews.NewClient(apiClient, queryCache, ttl, log),
		Communications: communications.NewClient(apiClient, queryCache, ttl, log),
		Resume:         resume.NewClient(apiClient, queryCache, log),
		Auth:           auth.NewClient(apiClient, log),
		Users:          users.NewClient(apiClient, queryCache, ttl, log),
		Compliance:     compliance.NewClient(apiClient, queryCache, ttl, log),
		Analytics:      analytics.NewClient(apiClient, queryCache, ttl, log),
		StatusList:     statuslist.NewClient(apiClient, queryCache, statusTTL, log),
	}

	// Log invalidation traffic so operators can watch the protocol at work.
	subID, events := queryCache.Bus().Subscribe()
	defer queryCache.Bus().Unsubscribe(subID)
	go func() {
		for e := range events {
			zapLog.Debug("cache invalidated", zap.String("prefix", e.Prefix))
		}
	}()

	// --- Metrics & health endpoint ---
	metricsAddr := cfg.Observability.MetricsAddress
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	server := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		zapLog.Info("Metrics endpoint listening", zap.String("address", metricsAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// Warm the long-lived status lookup so the first transition does not
	// pay the fetch.
	if _, err := clients.StatusList.List(ctx); err != nil {
		zapLog.Warn("status list warmup failed", zap.Error(err))
	}

	zapLog.Info("hireflow client ready",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("metrics server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
