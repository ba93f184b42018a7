// Package identity provides the identity provider clients behind the
// session reconciliation flow.
package identity

import (
	"context"
	"io"
	"log/slog"

	"campus/config"
	"campus/internal/domain/constants"
	"campus/internal/domain/repository"
	"campus/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ProviderParams holds dependencies for the identity provider, injected by Fx.
type ProviderParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger

	// The local provider variant needs the account table and token
	// services; the hosted variant does not.
	Accounts repository.AccountRepository `optional:"true"`
	Hasher   service.PasswordHasher       `optional:"true"`
	Tokens   service.TokenService         `optional:"true"`
}

// NewIdentityProvider creates an IdentityProvider based on configuration.
func NewIdentityProvider(params ProviderParams) (service.IdentityProvider, error) {
	cfg := params.Config.Provider
	logger := params.Logger

	if cfg == nil || cfg.Kind == "" {
		return nil, errors.New("identity provider is not configured")
	}

	var provider service.IdentityProvider
	var err error

	switch cfg.Kind {
	case constants.IdentityProviderFirebase:
		if cfg.Firebase == nil {
			return nil, errors.New("firebase settings are required for firebase provider")
		}
		logger.Info("Using Firebase identity provider",
			slog.String("project_id", cfg.Firebase.ProjectID))

		provider, err = NewFirebaseProvider(params.Ctx, cfg.Firebase, logger)
		if err != nil {
			return nil, err
		}

	case constants.IdentityProviderLocal:
		if cfg.Local == nil {
			return nil, errors.New("local settings are required for local provider")
		}
		if params.Accounts == nil || params.Hasher == nil || params.Tokens == nil {
			return nil, errors.New("local provider requires account repository, hasher and token service")
		}
		logger.Info("Using local identity provider")

		provider = NewLocalProvider(params.Accounts, params.Hasher, params.Tokens, logger)

	default:
		return nil, errors.Errorf("unknown identity provider: %s", cfg.Kind)
	}

	// Close the provider's event bus on shutdown so subscriber loops drain.
	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("Closing identity provider")
			if closer, ok := provider.(io.Closer); ok {
				return closer.Close()
			}

			return nil
		},
	})

	return provider, nil
}
