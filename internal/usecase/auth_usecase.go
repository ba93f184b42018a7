// Package usecase contains the application-specific business rules.
// It orchestrates the auth state container, the identity provider, and
// the profile store.
package usecase

import (
	"context"

	"campus/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for an explicit login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// LoginOutput returns the resolved user and session token after a
// successful login.
type LoginOutput struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// AuthUsecase drives the explicit login/logout transitions.
// This is the contract the delivery layer depends on.
type AuthUsecase interface {
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Logout(ctx context.Context) error
	ClearError(ctx context.Context)
}

// ProfileUsecase turns "we have an authenticated identity" into a
// fully-populated User record with a role.
type ProfileUsecase interface {
	// Fetch runs the full routine: identity check, profile query with
	// timeout fallback, and dispatch into the auth state container.
	// session supplies the token for the silent-restore path; nil is
	// allowed.
	Fetch(ctx context.Context, session *entity.Session) error

	// Resolve builds the User for an identity without touching the
	// container. Profile-store problems are absorbed into a minimal
	// default; Resolve never fails.
	Resolve(ctx context.Context, identity *entity.Identity) *entity.User
}

// SessionUsecase owns the bootstrap/reconciliation lifecycle.
type SessionUsecase interface {
	// Bootstrap hydrates from the persisted mirror, reconciles with
	// the provider session, and subscribes to the auth-event stream.
	// It never fails on a missing session.
	Bootstrap(ctx context.Context) error

	// Ready reports whether the initial reconciliation pass finished.
	// It gates only the readiness surface, not the container's
	// IsLoading flag.
	Ready() bool

	// Shutdown unsubscribes from all event sources and drains the
	// event loops.
	Shutdown(ctx context.Context) error
}
