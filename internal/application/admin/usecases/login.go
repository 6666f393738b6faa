package usecases

import (
	"context"
	"fmt"

	"github.com/keygate-app/keygate/internal/domain/admin"
	"github.com/keygate-app/keygate/internal/shared/errors"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// LoginCommand carries administrator login credentials.
type LoginCommand struct {
	Phone    string
	Password string
}

// LoginResult is a successful login outcome.
type LoginResult struct {
	Token string
	Name  string
	Phone string
}

// LoginUseCase authenticates an administrator and issues a token.
type LoginUseCase struct {
	adminRepo admin.Repository
	hasher    PasswordHasher
	tokens    TokenIssuer
	logger    logger.Interface
}

// NewLoginUseCase creates a new login use case.
func NewLoginUseCase(adminRepo admin.Repository, hasher PasswordHasher, tokens TokenIssuer, logger logger.Interface) *LoginUseCase {
	return &LoginUseCase{
		adminRepo: adminRepo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
}

// Execute verifies the credentials and returns a signed token. Unknown
// phone and wrong password are indistinguishable to the caller.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	a, err := uc.adminRepo.GetByPhone(ctx, cmd.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if a == nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	if err := uc.hasher.Verify(a.PasswordHash(), cmd.Password); err != nil {
		uc.logger.Warnw("login failed", "phone", cmd.Phone)
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	token, err := uc.tokens.Generate(a.Phone(), a.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Infow("admin logged in", "phone", a.Phone())
	return &LoginResult{
		Token: token,
		Name:  a.Name(),
		Phone: a.Phone(),
	}, nil
}
