package usecases

import (
	"context"
	"fmt"

	"github.com/keygate-app/keygate/internal/domain/client"
)

// ListClientsUseCase lists every known client identity.
type ListClientsUseCase struct {
	clientRepo client.Repository
}

// NewListClientsUseCase creates a new list clients use case.
func NewListClientsUseCase(clientRepo client.Repository) *ListClientsUseCase {
	return &ListClientsUseCase{clientRepo: clientRepo}
}

// Execute returns all clients, newest first.
func (uc *ListClientsUseCase) Execute(ctx context.Context) ([]*client.Client, error) {
	clients, err := uc.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
