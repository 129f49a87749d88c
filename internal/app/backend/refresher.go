package backend

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// Refresher keeps the access token fresh on a cron schedule
type Refresher struct {
	backend  *Backend
	schedule string
	log      *logger.Logger
}

// NewRefresher creates a refresher for schedule (a cron expression such as "@every 10m")
func NewRefresher(b *Backend, schedule string, log *logger.Logger) *Refresher {
	return &Refresher{backend: b, schedule: schedule, log: log}
}

// Start runs the refresher until ctx is done
func (r *Refresher) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(r.schedule, func() { r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", r.schedule, err)
	}

	r.log.With("schedule", r.schedule).Info("Token refresher started")
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	r.log.Info("Token refresher stopped")
	return nil
}

// RunOnce refreshes the session once
func (r *Refresher) RunOnce(ctx context.Context) {
	if err := r.backend.RefreshSession(ctx); err != nil {
		r.log.WarnWithErr(err, "Token refresh failed")
	}
}
