package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SDGDashboard/src/toolkit"
)

func main() {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := setLogLevel(cfg.LogLevel); err != nil {
		logger.Fatal().Err(err).Msg("Invalid log level")
	}

	// The toolkit is loaded exactly once; everything after reads the result.
	probe := initializeProbe(toolkit.Select(cfg.PluginPath))
	if probe.Loaded {
		probeLog.Info().Str("version", probe.Detail).Msg("sdg_hub import OK")
	} else {
		probeLog.Error().Str("detail", probe.Detail).Msg("sdg_hub import FAILED")
	}
	setImportGauge(probe)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history, err := openHistory(ctx, cfg.HistoryDriver, cfg.HistoryDSN)
	if err != nil {
		historyLog.Warn().Err(err).Msg("Run history disabled, continuing without it")
		history = nopStore{}
	}
	defer func() { _ = history.Close() }()

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create session store")
	}
	if cfg.SessionSecret == "" {
		logger.Warn().Msg("SESSION_SECRET not set, using a random key for this process")
	}

	a := &app{
		cfg:      cfg,
		diag:     NewDiagnosticService(probe),
		history:  history,
		sessions: store,
	}

	if cfg.SmokeSchedule != "" {
		c, err := startSmokeSchedule(a, cfg.SmokeSchedule)
		if err != nil {
			logger.Fatal().Err(err).Msg("Error scheduling smoke test")
		}
		defer c.Stop()
	}

	go monitorCPU(ctx, 30*time.Second)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(a, newHealthHandler(a, prometheus.DefaultRegisterer)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			httpLog.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	httpLog.Info().Str("addr", cfg.Addr).Msg("SDG Hub Status Dashboard running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		httpLog.Fatal().Err(err).Msg("Server failed")
	}
}

func newRouter(a *app, health healthcheck.Handler) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/live", health).Methods("GET")
	r.Handle("/ready", health).Methods("GET")

	appRouter := r.NewRoute().Subrouter()
	appRouter.Use(metricsMiddleware)

	appRouter.HandleFunc("/", a.indexHandler).Methods("GET")
	appRouter.HandleFunc("/status", a.statusHandler).Methods("POST")
	appRouter.HandleFunc("/smoke-test", a.smokeTestHandler).Methods("POST")

	appRouter.HandleFunc("/api/status", a.apiStatusHandler).Methods("GET")
	appRouter.HandleFunc("/api/smoke-test", a.apiSmokeTestHandler).Methods("GET")

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(a.cfg.StaticPath))))

	return r
}
