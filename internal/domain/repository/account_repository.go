package repository

import (
	"context"

	"campus/internal/errors"
)

// ErrAccountNotFound is returned when no credential record matches.
var ErrAccountNotFound = errors.New("account not found")

// Account is a credential record for the local identity provider
// variant. Hosted providers (Firebase) keep credentials on their side,
// so this table only exists for self-hosted deployments.
type Account struct {
	ID           string // Doubles as the identity id for local sessions.
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// AccountRepository stores local-provider credentials.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, account *Account) error
}
