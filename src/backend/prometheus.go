package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/cpu"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	cpuLoadPercentage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cpu_load_percentage",
			Help: "Current cpu load in percent",
		},
	)

	sdgImportOK = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sdg_import_ok",
			Help: "Whether sdg_hub loaded at startup (1 = loaded, 0 = failed)",
		},
	)

	sdgStatusChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdg_status_checks_total",
			Help: "Status checks by outcome",
		},
		[]string{"outcome"},
	)

	sdgSmokeTestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdg_smoke_tests_total",
			Help: "Smoke test runs by outcome and source",
		},
		[]string{"outcome", "source"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Custom response writer to track status
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     200,
		}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		endpoint := routeTemplate(r)
		duration := time.Since(start).Seconds()
		httpRequestDuration.WithLabelValues(r.Method, endpoint).Observe(duration)
		httpRequestsTotal.WithLabelValues(
			r.Method,
			endpoint,
			strconv.Itoa(recorder.statusCode),
		).Inc()

		httpLog.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}

// routeTemplate keeps the endpoint label bounded to registered routes.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

func setImportGauge(probe ImportProbe) {
	if probe.Loaded {
		sdgImportOK.Set(1)
		return
	}
	sdgImportOK.Set(0)
}

func monitorCPU(ctx context.Context, interval time.Duration) {
	for {
		cpuPercent, err := cpu.Percent(time.Second, false)
		if err != nil {
			logger.Warn().Err(err).Msg("Error monitoring CPU")
		} else if len(cpuPercent) > 0 {
			cpuLoadPercentage.Set(cpuPercent[0])
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
