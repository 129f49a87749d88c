package analytics

import (
	"context"
	"time"
)

// Repository defines the interface for analytics data access
type Repository interface {
	// ListDaily returns rows with from <= date <= to, ordered by date ascending
	ListDaily(ctx context.Context, businessID, from, to string) ([]*Daily, error)

	// Compute counts reminders and appointments of businessID within [start, end)
	Compute(ctx context.Context, businessID string, start, end time.Time, smsUnitCost float64) (*Daily, error)

	// UpsertDaily inserts or replaces the row keyed by (business id, date)
	UpsertDaily(ctx context.Context, d *Daily) error
}
