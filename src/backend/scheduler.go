package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// startSmokeSchedule runs the smoke test on a standard five-field cron expression.
func startSmokeSchedule(a *app, schedule string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		cronLog.Debug().Time("at", time.Now()).Msg("Cron job: running scheduled smoke test")
		a.smokeTest(context.Background(), sourceSchedule)
	}); err != nil {
		return nil, fmt.Errorf("schedule smoke test %q: %w", schedule, err)
	}

	c.Start()
	cronLog.Info().Str("schedule", schedule).Msg("Scheduled smoke test enabled")
	return c, nil
}
