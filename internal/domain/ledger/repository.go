package ledger

import "context"

// Repository defines persistence operations for the validation history.
// Entries are append-only; there is no update or delete.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error

	// ListAll returns the most recent entries, newest first, capped at limit.
	ListAll(ctx context.Context, limit int) ([]*Entry, error)

	// ListByDevice returns entries for a device, newest first.
	ListByDevice(ctx context.Context, deviceID string) ([]*Entry, error)

	// ListByAdmin returns entries recorded by an administrator, newest first.
	ListByAdmin(ctx context.Context, adminID uint) ([]*Entry, error)
}
