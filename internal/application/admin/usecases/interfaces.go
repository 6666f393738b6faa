package usecases

import "context"

// PasswordHasher hashes and verifies administrator passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// TokenIssuer mints signed access tokens for administrators.
type TokenIssuer interface {
	Generate(phone, name string) (string, error)
}

// TransactionManager runs a function inside a single database transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
