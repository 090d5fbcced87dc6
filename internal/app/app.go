package app

import (
	"fmt"
	"net/http"

	"github.com/crease-analytics/rinkline/external/nhlapi"
	"github.com/crease-analytics/rinkline/internal/config"
	"github.com/crease-analytics/rinkline/internal/interfaces/httpapi"
	"github.com/crease-analytics/rinkline/internal/platform/cache"
	"github.com/crease-analytics/rinkline/internal/platform/logging"
	"github.com/crease-analytics/rinkline/internal/platform/resilience"
	"github.com/crease-analytics/rinkline/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	client := NewNHLClient(cfg, logger)

	store := cache.NewStore(cfg.CacheCapacity, cfg.CacheTTL)
	reconciler := usecase.NewReconcileService(logger)

	gameSvc := usecase.NewGameService(client, reconciler, store, logger)
	catalogSvc := usecase.NewCatalogService(client, store, logger)
	batchSvc := usecase.NewBatchService(gameSvc, cfg.BatchWorkers, logger)

	handler := httpapi.NewHandler(gameSvc, catalogSvc, batchSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// NewNHLClient builds the upstream client from config. The scrape CLI reuses
// it outside the HTTP server.
func NewNHLClient(cfg config.Config, logger *logging.Logger) *nhlapi.Client {
	return nhlapi.NewClient(nhlapi.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.NHLTimeout},
		APIBaseURL:     cfg.NHLAPIBaseURL,
		StatsBaseURL:   cfg.NHLStatsBaseURL,
		ReportsBaseURL: cfg.NHLReportsBaseURL,
		Timeout:        cfg.NHLTimeout,
		MaxRetries:     cfg.NHLMaxRetries,
		ReportWorkers:  cfg.NHLReportWorkers,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NHLCircuitEnabled,
			FailureThreshold: cfg.NHLCircuitFailureCount,
			OpenTimeout:      cfg.NHLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NHLCircuitHalfOpenMaxReq,
		},
	})
}

// NewBatchPipeline wires the reconcile pipeline without the HTTP surface for
// one-shot runs.
func NewBatchPipeline(cfg config.Config, logger *logging.Logger) (*usecase.BatchService, *usecase.GameService) {
	client := NewNHLClient(cfg, logger)
	store := cache.NewStore(cfg.CacheCapacity, cfg.CacheTTL)
	gameSvc := usecase.NewGameService(client, usecase.NewReconcileService(logger), store, logger)
	return usecase.NewBatchService(gameSvc, cfg.BatchWorkers, logger), gameSvc
}
