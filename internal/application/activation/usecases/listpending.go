package usecases

import (
	"context"
	"fmt"

	"github.com/keygate-app/keygate/internal/domain/subscription"
)

// ListPendingUseCase lists subscription requests awaiting approval.
type ListPendingUseCase struct {
	subscriptionRepo subscription.Repository
}

// NewListPendingUseCase creates a new list pending use case.
func NewListPendingUseCase(subscriptionRepo subscription.Repository) *ListPendingUseCase {
	return &ListPendingUseCase{subscriptionRepo: subscriptionRepo}
}

// Execute returns pending requests, oldest first.
func (uc *ListPendingUseCase) Execute(ctx context.Context) ([]*subscription.Subscription, error) {
	pending, err := uc.subscriptionRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending subscriptions: %w", err)
	}
	return pending, nil
}
