package usecases

import (
	"context"
	"fmt"

	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// ClearPendingUseCase deletes every pending subscription request.
// Validated subscriptions are untouched.
type ClearPendingUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

// NewClearPendingUseCase creates a new clear pending use case.
func NewClearPendingUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *ClearPendingUseCase {
	return &ClearPendingUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute removes all pending requests and returns how many were removed.
func (uc *ClearPendingUseCase) Execute(ctx context.Context) (int64, error) {
	count, err := uc.subscriptionRepo.DeleteAllPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear pending subscriptions: %w", err)
	}

	uc.logger.Infow("pending subscriptions cleared", "count", count)
	return count, nil
}
