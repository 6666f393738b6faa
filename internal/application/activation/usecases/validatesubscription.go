package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/keygate-app/keygate/internal/domain/admin"
	"github.com/keygate-app/keygate/internal/domain/client"
	"github.com/keygate-app/keygate/internal/domain/ledger"
	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/shared/biztime"
	"github.com/keygate-app/keygate/internal/shared/errors"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// ValidateSubscriptionCommand carries the input for validating a pending
// subscription. The acting administrator is identified by phone, taken
// from the verified token.
type ValidateSubscriptionCommand struct {
	DeviceID   string
	AdminPhone string
}

// ValidateSubscriptionResult is the outcome of a successful validation.
type ValidateSubscriptionResult struct {
	DeviceID    string
	ClientSID   string
	ClientName  string
	AdminName   string
	ExpiresAt   time.Time
	ValidatedAt time.Time
}

// ValidateSubscriptionUseCase approves a pending subscription request.
//
// The subscription update, the client identity and the history entry are
// written in one transaction over a locked subscription row, so concurrent
// validations of the same device serialize and exactly one succeeds. The
// expiry is computed once and the same value is written to both the
// subscription and the ledger.
type ValidateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	clientRepo       client.Repository
	ledgerRepo       ledger.Repository
	adminRepo        admin.Repository
	txManager        TransactionManager
	keyGen           KeyGenerator
	notifier         Notifier
	logger           logger.Interface
}

// NewValidateSubscriptionUseCase creates a new validate subscription use case.
func NewValidateSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	clientRepo client.Repository,
	ledgerRepo ledger.Repository,
	adminRepo admin.Repository,
	txManager TransactionManager,
	keyGen KeyGenerator,
	notifier Notifier,
	logger logger.Interface,
) *ValidateSubscriptionUseCase {
	return &ValidateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		clientRepo:       clientRepo,
		ledgerRepo:       ledgerRepo,
		adminRepo:        adminRepo,
		txManager:        txManager,
		keyGen:           keyGen,
		notifier:         notifier,
		logger:           logger,
	}
}

// Execute validates the pending subscription for a device.
func (uc *ValidateSubscriptionUseCase) Execute(ctx context.Context, cmd ValidateSubscriptionCommand) (*ValidateSubscriptionResult, error) {
	actingAdmin, err := uc.adminRepo.GetByPhone(ctx, cmd.AdminPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if actingAdmin == nil {
		return nil, errors.NewUnauthorizedError("unknown administrator")
	}

	var result *ValidateSubscriptionResult
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByDeviceIDForUpdate(txCtx, cmd.DeviceID)
		if err != nil {
			return fmt.Errorf("failed to lock subscription: %w", err)
		}
		if sub == nil {
			return errors.NewNotFoundError("subscription not found")
		}
		if !sub.IsPending() {
			return errors.NewConflictError("subscription already validated")
		}

		sid, err := uc.keyGen.NewClientSID()
		if err != nil {
			return fmt.Errorf("failed to generate client SID: %w", err)
		}
		candidate, err := client.NewClient(sid, sub.DisplayName(), sub.Phone(), sub.DeviceID())
		if err != nil {
			return fmt.Errorf("failed to build client: %w", err)
		}
		cl, err := uc.clientRepo.ResolveOrCreate(txCtx, candidate)
		if err != nil {
			return fmt.Errorf("failed to resolve client: %w", err)
		}

		validatedAt := biztime.NowUTC()
		expiresAt := biztime.ExpiryFromMonths(validatedAt, sub.Months())

		if err := sub.Validate(expiresAt); err != nil {
			return errors.NewConflictError("subscription already validated")
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		entry, err := ledger.NewEntry(
			sub.DeviceID(),
			cl.ID(),
			actingAdmin.ID(),
			actingAdmin.Name(),
			sub.Months(),
			sub.ActivationKey(),
			expiresAt,
			validatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to build ledger entry: %w", err)
		}
		if err := uc.ledgerRepo.Append(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		result = &ValidateSubscriptionResult{
			DeviceID:    sub.DeviceID(),
			ClientSID:   cl.SID(),
			ClientName:  cl.Name(),
			AdminName:   actingAdmin.Name(),
			ExpiresAt:   expiresAt,
			ValidatedAt: validatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription validated",
		"device_id", result.DeviceID,
		"admin", result.AdminName,
		"expires_at", result.ExpiresAt,
	)
	uc.notifier.NotifyValidated(result.DeviceID, result.AdminName)

	return result, nil
}
