package main

import (
	"context"
	"time"

	"github.com/gorilla/sessions"
)

// Where a run was started from.
const (
	sourceOperator = "operator"
	sourceAPI      = "api"
	sourceSchedule = "schedule"
)

type app struct {
	cfg      Config
	diag     *DiagnosticService
	history  runStore
	sessions sessions.Store
}

// checkStatus returns the status report and accounts for the check.
func (a *app) checkStatus(ctx context.Context, source string) string {
	report := a.diag.Status()

	outcome := "ok"
	if !a.diag.Probe().Loaded {
		outcome = "failed"
	}
	sdgStatusChecksTotal.WithLabelValues(outcome).Inc()
	probeLog.Debug().Str("outcome", outcome).Str("source", source).Msg("status checked")

	a.record(ctx, Run{Kind: kindStatus, Outcome: outcome, Source: source, Report: report})
	return report
}

// smokeTest runs the smoke test and returns its report.
func (a *app) smokeTest(ctx context.Context, source string) string {
	start := time.Now()
	res := a.diag.RunSmokeTest()
	report := res.Report()

	sdgSmokeTestsTotal.WithLabelValues(res.Outcome.String(), source).Inc()
	switch res.Outcome {
	case SmokeFailed:
		smokeLog.Error().Str("source", source).Str("error", res.errorText()).Msg("Smoke test FAILED")
	case SmokeSkipped:
		smokeLog.Warn().Str("source", source).Str("detail", res.ImportDetail).Msg("Smoke test skipped, sdg_hub did not import")
	default:
		smokeLog.Info().Str("source", source).Dur("took", time.Since(start)).Msg("Smoke test PASSED")
	}

	a.record(ctx, Run{Kind: kindSmoke, Outcome: res.Outcome.String(), Source: source, Report: report})
	return report
}

// record never fails the caller: a broken history database only costs the entry.
func (a *app) record(ctx context.Context, run Run) {
	if a.history == nil {
		return
	}
	if run.At.IsZero() {
		run.At = time.Now()
	}
	if err := a.history.Record(ctx, run); err != nil {
		historyLog.Warn().Err(err).Str("kind", run.Kind).Msg("could not record run")
	}
}

func (a *app) recentRuns(ctx context.Context, limit int) []Run {
	if a.history == nil {
		return nil
	}
	runs, err := a.history.Recent(ctx, limit)
	if err != nil {
		historyLog.Warn().Err(err).Msg("could not load recent runs")
		return nil
	}
	return runs
}
