package subscription

import "context"

// Repository defines persistence operations for subscriptions.
// Implementations must honor a transaction carried in the context.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error

	// GetByDeviceID returns nil, nil when no subscription exists for the device.
	GetByDeviceID(ctx context.Context, deviceID string) (*Subscription, error)

	// GetByDeviceIDForUpdate locks the subscription row for the duration of
	// the surrounding transaction so concurrent validations serialize.
	GetByDeviceIDForUpdate(ctx context.Context, deviceID string) (*Subscription, error)

	// Update persists status and expiry changes.
	Update(ctx context.Context, sub *Subscription) error

	// ListPending returns pending subscriptions ordered by creation time ascending.
	ListPending(ctx context.Context) ([]*Subscription, error)

	// DeleteAllPending removes every pending subscription and returns the count.
	DeleteAllPending(ctx context.Context) (int64, error)
}
