package worker

import (
	"context"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/analytics"
	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
	"github.com/robfig/cron/v3"
)

// AnalyticsRollup periodically aggregates reminders and appointments into
// the analytics_daily table. Each run recomputes yesterday and today (UTC)
// for every business so late deliveries are picked up.
type AnalyticsRollup struct {
	businesses  business.Repository
	analytics   analytics.Repository
	schedule    string
	smsUnitCost float64
	logger      *logger.Logger
	now         func() time.Time
}

// NewAnalyticsRollup creates a new analytics roll-up worker
func NewAnalyticsRollup(
	businesses business.Repository,
	analyticsRepo analytics.Repository,
	schedule string,
	smsUnitCost float64,
	log *logger.Logger,
) *AnalyticsRollup {
	return &AnalyticsRollup{
		businesses:  businesses,
		analytics:   analyticsRepo,
		schedule:    schedule,
		smsUnitCost: smsUnitCost,
		logger:      log.Component("analytics-rollup"),
		now:         time.Now,
	}
}

// Start schedules the roll-up and runs it once immediately. It blocks until
// ctx is cancelled, then waits for a running job to finish.
func (w *AnalyticsRollup) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return err
	}

	w.logger.Infof("Starting analytics roll-up worker (%s)", w.schedule)
	c.Start()
	w.RunOnce(ctx)

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("Analytics roll-up worker stopped")
	return nil
}

// RunOnce rolls up every business and returns how many succeeded and failed
func (w *AnalyticsRollup) RunOnce(ctx context.Context) (ok, failed int) {
	start := time.Now()
	defer func() { metrics.RecordRollup(time.Since(start), ok, failed) }()

	ids, err := w.businesses.ListIDs(ctx)
	if err != nil {
		w.logger.ErrorWithErr(err, "Failed to list businesses for analytics roll-up")
		return 0, 0
	}

	today := truncateDay(w.now())
	days := []time.Time{today.AddDate(0, 0, -1), today}

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := w.rollupBusiness(ctx, id, days); err != nil {
			failed++
			w.logger.With("business_id", id).ErrorWithErr(err, "Analytics roll-up failed")
			continue
		}
		ok++
	}

	w.logger.WithFields(map[string]interface{}{
		"businesses": len(ids),
		"ok":         ok,
		"failed":     failed,
	}).Debug("Analytics roll-up complete")
	return ok, failed
}

func (w *AnalyticsRollup) rollupBusiness(ctx context.Context, businessID string, days []time.Time) error {
	for _, day := range days {
		d, err := w.analytics.Compute(ctx, businessID, day, day.AddDate(0, 0, 1), w.smsUnitCost)
		if err != nil {
			return err
		}
		if err := w.analytics.UpsertDaily(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
