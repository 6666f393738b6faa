package admin

import "context"

// Repository defines persistence operations for administrators.
type Repository interface {
	Create(ctx context.Context, a *Admin) error

	// GetByPhone returns nil, nil when no admin exists for the phone number.
	GetByPhone(ctx context.Context, phone string) (*Admin, error)

	// Count returns the current administrator population.
	Count(ctx context.Context) (int64, error)
}
