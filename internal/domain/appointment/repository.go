package appointment

import "context"

// Repository defines the interface for appointment data access
type Repository interface {
	List(ctx context.Context, businessID string, filter Filter) ([]*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, id string, patch Patch) (*Appointment, error)

	// Delete removes the row; deleting an absent id is not an error
	Delete(ctx context.Context, id string) error
}
