package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/shared/errors"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// RequestActivationCommand carries the input for a device activation request.
type RequestActivationCommand struct {
	DeviceID   string
	Phone      string
	ClientName string
	Months     int
}

// RequestActivationResult is the outcome of an activation request.
type RequestActivationResult struct {
	ActivationKey string
	Status        subscription.Status
	ExpiresAt     *time.Time
	Created       bool
}

// RequestActivationUseCase handles activation requests from devices.
// Requests are idempotent per device: a repeated request returns the
// existing record unchanged instead of minting a new key.
type RequestActivationUseCase struct {
	subscriptionRepo subscription.Repository
	keyGen           KeyGenerator
	notifier         Notifier
	logger           logger.Interface
}

// NewRequestActivationUseCase creates a new request activation use case.
func NewRequestActivationUseCase(
	subscriptionRepo subscription.Repository,
	keyGen KeyGenerator,
	notifier Notifier,
	logger logger.Interface,
) *RequestActivationUseCase {
	return &RequestActivationUseCase{
		subscriptionRepo: subscriptionRepo,
		keyGen:           keyGen,
		notifier:         notifier,
		logger:           logger,
	}
}

// Execute processes an activation request.
func (uc *RequestActivationUseCase) Execute(ctx context.Context, cmd RequestActivationCommand) (*RequestActivationResult, error) {
	existing, err := uc.subscriptionRepo.GetByDeviceID(ctx, cmd.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}
	if existing != nil {
		return &RequestActivationResult{
			ActivationKey: existing.ActivationKey(),
			Status:        existing.Status(),
			ExpiresAt:     existing.ExpiresAt(),
		}, nil
	}

	key, err := uc.keyGen.NewActivationKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate activation key: %w", err)
	}

	sub, err := subscription.NewSubscription(cmd.DeviceID, cmd.Phone, cmd.ClientName, cmd.Months, key)
	if err != nil {
		return nil, errors.NewValidationError("invalid activation request", err.Error())
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.IsDuplicateError(err) {
			// Lost a race with a concurrent request for the same device.
			// The winner's record is authoritative.
			winner, getErr := uc.subscriptionRepo.GetByDeviceID(ctx, cmd.DeviceID)
			if getErr == nil && winner != nil {
				return &RequestActivationResult{
					ActivationKey: winner.ActivationKey(),
					Status:        winner.Status(),
					ExpiresAt:     winner.ExpiresAt(),
				}, nil
			}
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.logger.Infow("activation requested",
		"device_id", sub.DeviceID(),
		"phone", sub.Phone(),
		"months", sub.Months(),
	)
	uc.notifier.NotifyNewRequest(sub)

	return &RequestActivationResult{
		ActivationKey: sub.ActivationKey(),
		Status:        sub.Status(),
		Created:       true,
	}, nil
}
