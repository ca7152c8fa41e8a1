//go:build integration || smoke

// Test helper functions shared across different test types
package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"SDGDashboard/src/toolkit"
)

// setupRouter creates the dashboard router on the built-in toolkit.
// Used by integration and smoke tests
func setupRouter(history runStore) http.Handler {
	cfg := loadConfig()
	store, err := newSessionStore(cfg)
	if err != nil {
		panic(err)
	}

	a := &app{
		cfg:      cfg,
		diag:     NewDiagnosticService(initializeProbe(toolkit.Builtin())),
		history:  history,
		sessions: store,
	}
	return newRouter(a, newHealthHandler(a, prometheus.NewRegistry()))
}
