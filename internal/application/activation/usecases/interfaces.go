package usecases

import (
	"context"

	"github.com/keygate-app/keygate/internal/domain/subscription"
)

// Notifier pushes workflow events to connected administrator sessions.
// Delivery is best-effort and must never fail the calling workflow.
type Notifier interface {
	NotifyNewRequest(sub *subscription.Subscription)
	NotifyValidated(deviceID, adminName string)
}

// TransactionManager runs a function inside a single database transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyGenerator produces unique activation keys.
type KeyGenerator interface {
	NewActivationKey() (string, error)
	NewClientSID() (string, error)
}
