package appointment

import "context"

// Service defines the interface for appointment operations
type Service interface {
	List(ctx context.Context, businessID string, filter Filter) ([]*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	Update(ctx context.Context, id string, patch Patch) (*Appointment, error)
	Delete(ctx context.Context, id string) error
}
