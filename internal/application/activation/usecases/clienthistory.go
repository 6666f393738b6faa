package usecases

import (
	"context"
	"fmt"

	"github.com/keygate-app/keygate/internal/domain/client"
	"github.com/keygate-app/keygate/internal/domain/ledger"
	"github.com/keygate-app/keygate/internal/shared/errors"
)

// ClientHistoryResult pairs a client with its validation history.
type ClientHistoryResult struct {
	Client  *client.Client
	Entries []*ledger.Entry
}

// ClientHistoryUseCase returns a client's validation history by device.
type ClientHistoryUseCase struct {
	clientRepo client.Repository
	ledgerRepo ledger.Repository
}

// NewClientHistoryUseCase creates a new client history use case.
func NewClientHistoryUseCase(clientRepo client.Repository, ledgerRepo ledger.Repository) *ClientHistoryUseCase {
	return &ClientHistoryUseCase{
		clientRepo: clientRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Execute returns the client for a device and its entries, newest first.
func (uc *ClientHistoryUseCase) Execute(ctx context.Context, deviceID string) (*ClientHistoryResult, error) {
	cl, err := uc.clientRepo.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if cl == nil {
		return nil, errors.NewNotFoundError("client not found")
	}

	entries, err := uc.ledgerRepo.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client history: %w", err)
	}

	return &ClientHistoryResult{
		Client:  cl,
		Entries: entries,
	}, nil
}
