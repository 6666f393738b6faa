package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/shared/errors"
)

// CheckStatusResult describes the current state of a device's subscription.
type CheckStatusResult struct {
	Status        subscription.Status
	ActivationKey string
	ExpiresAt     *time.Time
}

// CheckStatusUseCase answers device polling for subscription state.
type CheckStatusUseCase struct {
	subscriptionRepo subscription.Repository
}

// NewCheckStatusUseCase creates a new check status use case.
func NewCheckStatusUseCase(subscriptionRepo subscription.Repository) *CheckStatusUseCase {
	return &CheckStatusUseCase{subscriptionRepo: subscriptionRepo}
}

// Execute returns the subscription state for a device. A device that never
// requested activation is reported as not found, distinct from a device
// whose request is still pending.
func (uc *CheckStatusUseCase) Execute(ctx context.Context, deviceID string) (*CheckStatusResult, error) {
	sub, err := uc.subscriptionRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("device not found")
	}

	return &CheckStatusResult{
		Status:        sub.Status(),
		ActivationKey: sub.ActivationKey(),
		ExpiresAt:     sub.ExpiresAt(),
	}, nil
}
