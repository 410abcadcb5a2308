package scheduler

import (
	"log/slog"
	"time"

	"github.com/crucial707/web-planner/internal/metrics"
	"github.com/crucial707/web-planner/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts the expired-session janitor on the given cron expression
// (e.g. "@hourly") and returns the running cron so the caller can Stop it.
//
// The sweep is storage hygiene only: auth checks already reject expired
// sessions lazily, so skipping the sweep never changes what a caller observes.
func Run(sessions *repo.SessionRepo, cronExpr string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(cronExpr, func() {
		n, err := sessions.DeleteExpired(time.Now())
		if err != nil {
			slog.Error("session sweep failed", "error", err)
			return
		}
		metrics.AddSessionsPurged(n)
		if n > 0 {
			slog.Info("session sweep", "deleted", n)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	slog.Info("session janitor started", "cron", cronExpr)
	return c, nil
}
