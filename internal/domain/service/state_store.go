package service

import (
	"context"
	"time"

	"campus/internal/domain/entity"
)

// StateStore is the persisted mirror of the last-known auth state,
// read once at bootstrap for instant hydration. It is advisory only;
// the identity provider's session remains the source of truth.
type StateStore interface {
	// Load returns the persisted token and user. A missing mirror is
	// not an error: both return values are zero.
	Load(ctx context.Context) (token string, user *entity.User, err error)

	// Save overwrites the mirror. Writes are idempotent key overwrites.
	Save(ctx context.Context, token string, user *entity.User) error

	// Clear deletes the token and user keys.
	Clear(ctx context.Context) error
}

// PasswordHasher hashes and verifies credentials for the local
// identity provider variant.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// TokenService mints and validates the local provider's session tokens.
type TokenService interface {
	GenerateToken(identityID string, email string) (token string, err error)
	ValidateToken(token string) (identityID string, email string, err error)

	// TokenTTL returns the configured session token lifetime.
	TokenTTL() time.Duration
}
