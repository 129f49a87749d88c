package analytics

import "context"

// Service defines the interface for analytics operations
type Service interface {
	DailyStats(ctx context.Context, businessID, from, to string) ([]*Daily, error)
}
