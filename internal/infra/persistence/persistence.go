// Package persistence wires the storage implementations behind the
// domain repository and state-store interfaces.
package persistence

import (
	"log/slog"

	"campus/config"
	"campus/internal/domain/service"
	"campus/internal/infra/persistence/memory"
	"campus/internal/infra/persistence/redis"

	"go.uber.org/fx"
)

// StateStoreParams holds dependencies for the state store, injected by Fx.
type StateStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewStateStore creates the persisted auth-state mirror: Redis when
// configured, an in-process store otherwise.
func NewStateStore(params StateStoreParams) (service.StateStore, error) {
	if params.Config.Redis == nil || params.Config.Redis.Addr == "" {
		params.Logger.Info("Redis not configured, using in-memory auth-state mirror")

		return memory.New(), nil
	}

	params.Logger.Info("Using Redis auth-state mirror",
		slog.String("addr", params.Config.Redis.Addr))

	return redis.New(redis.Params{
		Lifecycle: params.Lc,
		Config:    params.Config,
		Logger:    params.Logger,
	})
}
