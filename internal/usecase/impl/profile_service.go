// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	"campus/config"
	"campus/internal/authstate"
	"campus/internal/domain/entity"
	domainerrors "campus/internal/domain/errors"
	"campus/internal/domain/repository"
	"campus/internal/domain/service"
	"campus/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	container *authstate.Container
	provider  service.IdentityProvider
	profiles  repository.ProfileRepository
	timeout   time.Duration
	logger    *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	Container *authstate.Container
	Provider  service.IdentityProvider
	Profiles  repository.ProfileRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	timeout := 2 * time.Second
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.ProfileFetchTimeout > 0 {
		timeout = params.Config.Auth.ProfileFetchTimeout
	}

	return &profileService{
		container: params.Container,
		provider:  params.Provider,
		profiles:  params.Profiles,
		timeout:   timeout,
		logger:    params.Logger,
	}
}

// Fetch resolves the current identity into a User and dispatches the
// outcome into the container. A missing or erroring identity is the
// only true failure; profile-store trouble degrades into a minimal
// user and still counts as success.
func (srv *profileService) Fetch(ctx context.Context, session *entity.Session) error {
	seq := srv.container.BeginProfileFetch(ctx)

	identity, err := srv.provider.CurrentIdentity(ctx)
	if err != nil && !domainerrors.IsUnauthenticated(err) {
		// Transient provider trouble is not a verdict on the session:
		// the error message lands, the auth fields survive.
		srv.logger.Warn("Profile fetch failed: identity check errored",
			slog.Uint64("seq", seq), slog.Any("error", err))
		srv.container.ProfileFetchFailure(ctx, seq, domainerrors.Normalize(err))

		return errors.Wrap(domainerrors.ErrServiceUnavailable, "profile fetch failed")
	}
	if err != nil || identity == nil {
		srv.logger.Warn("Profile fetch failed: no authenticated identity",
			slog.Uint64("seq", seq), slog.Any("error", err))
		srv.container.ProfileFetchFailure(ctx, seq, domainerrors.ErrUnauthenticated.Message())

		return errors.Wrap(domainerrors.ErrUnauthenticated, "profile fetch failed")
	}

	user := srv.Resolve(ctx, identity)

	var token string
	if session != nil {
		token = session.AccessToken
	}
	srv.container.ProfileFetchSuccess(ctx, seq, user, token)
	srv.logger.Debug("Profile fetch completed",
		slog.Uint64("seq", seq), slog.String("role", user.Role.String()))

	return nil
}

// Resolve queries the profile store under the configured timeout and
// merges the record with the identity's basic fields. The timeout
// cancels the underlying query, not just the wait; on any failure the
// fallback is a minimal student user, never an error.
func (srv *profileService) Resolve(ctx context.Context, identity *entity.Identity) *entity.User {
	queryCtx, cancel := context.WithTimeout(ctx, srv.timeout)
	defer cancel()

	profile, err := srv.profiles.GetProfileByID(queryCtx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			srv.provisionProfile(queryCtx, identity)
		} else {
			srv.logger.Warn("Profile store degraded, using minimal profile",
				slog.String("identityID", identity.ID), slog.Any("error", err))
		}

		return minimalUser(identity)
	}

	return mergeProfile(identity, profile)
}

// provisionProfile seeds a default student record for a first-time
// identity so subsequent fetches resolve a stored profile instead of
// degrading on every pass. Best effort: a write failure only logs.
func (srv *profileService) provisionProfile(ctx context.Context, identity *entity.Identity) {
	profile := &entity.Profile{
		ID:        identity.ID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      entity.RoleStudent,
		UpdatedAt: time.Now(),
	}
	if err := srv.profiles.UpsertProfile(ctx, profile); err != nil {
		srv.logger.Warn("Failed to provision default profile",
			slog.String("identityID", identity.ID), slog.Any("error", err))

		return
	}
	srv.logger.Info("Provisioned default profile", slog.String("identityID", identity.ID))
}

// minimalUser builds the degraded-but-valid fallback from identity
// fields alone, with the role defaulted to student.
func minimalUser(identity *entity.Identity) *entity.User {
	return &entity.User{
		ID:        identity.ID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      entity.RoleStudent,
	}
}

// mergeProfile combines the authoritative identity id/email with the
// profile record's names and role.
func mergeProfile(identity *entity.Identity, profile *entity.Profile) *entity.User {
	user := &entity.User{
		ID:        identity.ID,
		Email:     identity.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Role:      profile.Role,
	}
	if user.FirstName == "" {
		user.FirstName = identity.FirstName
	}
	if user.LastName == "" {
		user.LastName = identity.LastName
	}
	if !user.Role.IsValid() {
		user.Role = entity.RoleStudent
	}

	return user
}
