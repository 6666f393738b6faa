package client

import "context"

// Repository defines persistence operations for clients.
type Repository interface {
	// ResolveOrCreate returns the existing client for the candidate's device,
	// creating it atomically if absent. Exactly one client row results per
	// device even under concurrent first validations.
	ResolveOrCreate(ctx context.Context, candidate *Client) (*Client, error)

	// GetByDeviceID returns nil, nil when no client exists for the device.
	GetByDeviceID(ctx context.Context, deviceID string) (*Client, error)

	// List returns all clients ordered by creation time descending.
	List(ctx context.Context) ([]*Client, error)
}
