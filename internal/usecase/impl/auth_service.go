package impl

import (
	"context"
	"log/slog"

	"campus/internal/authstate"
	domainerrors "campus/internal/domain/errors"
	"campus/internal/domain/service"
	"campus/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	container *authstate.Container
	provider  service.IdentityProvider
	profiles  usecase.ProfileUsecase
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Container *authstate.Container
	Provider  service.IdentityProvider
	Profiles  usecase.ProfileUsecase
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		container: params.Container,
		provider:  params.Provider,
		profiles:  params.Profiles,
		logger:    params.Logger,
	}
}

// Login drives the explicit login transition: credentials go to the
// provider, the resulting identity is resolved into a full User, and
// the container records success together with the session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.logger.Debug("Starting login", slog.String("email", input.Email))
	srv.container.LoginStart(ctx)

	session, err := srv.provider.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return nil, srv.failLogin(ctx, input.Email, err)
	}

	identity, err := srv.provider.CurrentIdentity(ctx)
	if err != nil || identity == nil {
		srv.container.LoginFailure(ctx, domainerrors.ErrUnauthenticated.Message())
		srv.logger.Warn("Login produced no identity", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "login failed")
	}

	user := srv.profiles.Resolve(ctx, identity)
	srv.container.LoginSuccess(ctx, user, session.AccessToken)
	srv.logger.Info("Login succeeded",
		slog.String("userID", user.ID), slog.String("role", user.Role.String()))

	return &usecase.LoginOutput{User: user, Token: session.AccessToken}, nil
}

// failLogin normalizes a provider sign-in error into the container's
// error field: credential rejections get their own message, everything
// else maps to a generic retry-later message.
func (srv *authService) failLogin(ctx context.Context, email string, err error) error {
	srv.logger.Warn("Login failed", slog.String("email", email), slog.Any("error", err))

	if domainerrors.IsInvalidCredentials(err) {
		srv.container.LoginFailure(ctx, domainerrors.ErrInvalidCredentials.Message())

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	srv.container.LoginFailure(ctx, domainerrors.ErrServiceUnavailable.Message())

	return errors.Wrap(domainerrors.ErrServiceUnavailable, "login failed")
}

// Logout ends the provider session and clears local state. A provider
// sign-out error does not block the local clear: the user asked to be
// signed out, so the container and mirror are emptied regardless.
func (srv *authService) Logout(ctx context.Context) error {
	if err := srv.provider.SignOut(ctx); err != nil {
		srv.logger.Warn("Provider sign-out failed, clearing local state anyway", slog.Any("error", err))
	}

	srv.container.Logout(ctx)
	srv.logger.Info("Logged out")

	return nil
}

// ClearError resets the container's error field.
func (srv *authService) ClearError(ctx context.Context) {
	srv.container.ClearError(ctx)
}
