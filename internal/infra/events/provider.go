package events

import (
	"context"
	"log/slog"

	"campus/config"
	"campus/internal/domain/constants"
	"campus/internal/domain/entity"
	"campus/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopSource is a no-op implementation when the external ingress is disabled.
type noopSource struct {
	logger *slog.Logger
}

func (s *noopSource) SubscribeAuthEvents(_ context.Context) (<-chan entity.AuthEvent, func(), error) {
	s.logger.Debug("[NoopIngress] External auth events disabled")

	ch := make(chan entity.AuthEvent)
	unsubscribe := func() { close(ch) }

	return ch, unsubscribe, nil
}

// IngressParams holds dependencies for the auth-event ingress, injected by Fx.
type IngressParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewAuthEventIngress creates the external auth-event source based on
// configuration. Feeds the session bootstrap via the authEventSources group.
func NewAuthEventIngress(params IngressParams) (service.AuthEventSource, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	// If the ingress is not configured, return a no-op source.
	if cfg == nil || cfg.Provider == "" {
		logger.Info("Auth-event ingress not configured, using no-op source")

		return &noopSource{logger: logger}, nil
	}

	switch cfg.Provider {
	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google ingress")
		}
		if cfg.SubscriptionID == "" {
			return nil, errors.New("subscription ID is required for google ingress")
		}

		subscriber, err := NewGoogleSubscriber(params.Ctx, cfg.ProjectID, cfg.SubscriptionID, logger)
		if err != nil {
			return nil, err
		}

		params.Lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				logger.Info("Closing auth-event ingress")

				return subscriber.Close()
			},
		})

		return subscriber, nil

	default:
		return nil, errors.Errorf("unknown auth-event ingress provider: %s", cfg.Provider)
	}
}
