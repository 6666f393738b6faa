package usecases

import (
	"context"
	"fmt"

	"github.com/keygate-app/keygate/internal/domain/admin"
	"github.com/keygate-app/keygate/internal/domain/ledger"
	"github.com/keygate-app/keygate/internal/shared/errors"
)

// ListValidationsUseCase lists recent validation history entries.
type ListValidationsUseCase struct {
	ledgerRepo ledger.Repository
}

// NewListValidationsUseCase creates a new list validations use case.
func NewListValidationsUseCase(ledgerRepo ledger.Repository) *ListValidationsUseCase {
	return &ListValidationsUseCase{ledgerRepo: ledgerRepo}
}

// Execute returns up to limit entries, newest first. A non-positive limit
// falls back to the repository default.
func (uc *ListValidationsUseCase) Execute(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	entries, err := uc.ledgerRepo.ListAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list validations: %w", err)
	}
	return entries, nil
}

// ListAdminValidationsUseCase lists the validations recorded by one
// administrator, identified by phone from the verified token.
type ListAdminValidationsUseCase struct {
	ledgerRepo ledger.Repository
	adminRepo  admin.Repository
}

// NewListAdminValidationsUseCase creates a new list admin validations use case.
func NewListAdminValidationsUseCase(ledgerRepo ledger.Repository, adminRepo admin.Repository) *ListAdminValidationsUseCase {
	return &ListAdminValidationsUseCase{
		ledgerRepo: ledgerRepo,
		adminRepo:  adminRepo,
	}
}

// Execute returns the acting administrator's entries, newest first.
func (uc *ListAdminValidationsUseCase) Execute(ctx context.Context, adminPhone string) ([]*ledger.Entry, error) {
	actingAdmin, err := uc.adminRepo.GetByPhone(ctx, adminPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if actingAdmin == nil {
		return nil, errors.NewUnauthorizedError("unknown administrator")
	}

	entries, err := uc.ledgerRepo.ListByAdmin(ctx, actingAdmin.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list admin validations: %w", err)
	}
	return entries, nil
}
