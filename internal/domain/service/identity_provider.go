// Package service defines the domain-level contracts implemented by
// the infrastructure layer.
package service

import (
	"context"

	"campus/internal/domain/entity"
)

// AuthEventSource is anything that can push auth transitions into the
// application: the identity provider itself, or an external ingress
// such as a Pub/Sub subscription carrying out-of-band revocations.
type AuthEventSource interface {
	// SubscribeAuthEvents returns a stream of auth events and an
	// unsubscribe function. The channel is closed after unsubscribe
	// or when ctx is cancelled.
	SubscribeAuthEvents(ctx context.Context) (<-chan entity.AuthEvent, func(), error)
}

// IdentityProvider wraps the hosted auth service. It owns the session:
// the application never refreshes or re-issues tokens itself, it only
// asks the provider for the current state of the world.
type IdentityProvider interface {
	AuthEventSource

	// SignIn verifies credentials with the provider and establishes a
	// session. A credential rejection surfaces as ErrInvalidCredentials.
	SignIn(ctx context.Context, email, password string) (*entity.Session, error)

	// SignOut ends the provider session, if any.
	SignOut(ctx context.Context) error

	// CurrentSession returns the live session, or (nil, nil) when the
	// provider holds none. The provider refreshes expiring tokens
	// internally before answering.
	CurrentSession(ctx context.Context) (*entity.Session, error)

	// CurrentIdentity returns the authenticated principal, or (nil, nil)
	// when there is no session.
	CurrentIdentity(ctx context.Context) (*entity.Identity, error)
}
