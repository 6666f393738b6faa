package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/keygate-app/keygate/internal/domain/admin"
	"github.com/keygate-app/keygate/internal/shared/errors"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// SignupCommand carries the input for registering an administrator.
type SignupCommand struct {
	Name     string
	Phone    string
	Password string
}

// SignupResult is a successful signup outcome.
type SignupResult struct {
	Name  string
	Phone string
}

// SignupUseCase registers a new administrator. The population is capped;
// the count check and the insert run in one transaction so concurrent
// signups cannot overshoot the cap.
type SignupUseCase struct {
	adminRepo admin.Repository
	hasher    PasswordHasher
	txManager TransactionManager
	logger    logger.Interface
}

// NewSignupUseCase creates a new signup use case.
func NewSignupUseCase(adminRepo admin.Repository, hasher PasswordHasher, txManager TransactionManager, logger logger.Interface) *SignupUseCase {
	return &SignupUseCase{
		adminRepo: adminRepo,
		hasher:    hasher,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute registers the administrator.
func (uc *SignupUseCase) Execute(ctx context.Context, cmd SignupCommand) (*SignupResult, error) {
	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a, err := admin.NewAdmin(cmd.Name, cmd.Phone, hash)
	if err != nil {
		return nil, errors.NewValidationError("invalid signup request", err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		count, err := uc.adminRepo.Count(txCtx)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if count >= admin.MaxAdmins {
			return errors.NewConflictError(admin.ErrMaxAdminsReached.Error())
		}

		if err := uc.adminRepo.Create(txCtx, a); err != nil {
			if stderrors.Is(err, admin.ErrPhoneExists) {
				return errors.NewConflictError(admin.ErrPhoneExists.Error())
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("admin registered", "name", a.Name(), "phone", a.Phone())
	return &SignupResult{
		Name:  a.Name(),
		Phone: a.Phone(),
	}, nil
}
