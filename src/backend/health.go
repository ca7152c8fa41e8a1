package main

import (
	"errors"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// newHealthHandler serves /live and /ready. The dashboard stays live when
// sdg_hub is missing (that is what it reports on) but it is not ready.
func newHealthHandler(a *app, reg prometheus.Registerer) healthcheck.Handler {
	health := healthcheck.NewMetricsHandler(reg, "sdg_dashboard")
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))

	probe := a.diag.Probe()
	health.AddReadinessCheck("sdg-import", func() error {
		if !probe.Loaded {
			return errors.New(probe.Detail)
		}
		return nil
	})

	if s, ok := a.history.(*sqlStore); ok {
		health.AddReadinessCheck("history-database", healthcheck.DatabasePingCheck(s.db, time.Second))
	}
	return health
}
