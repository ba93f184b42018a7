// Package redis implements the persisted auth-state mirror on Redis.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"campus/config"
	"campus/internal/domain/entity"
	"campus/internal/domain/lifecycle"
	"campus/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const (
	tokenKey = "auth:token"
	userKey  = "auth:user"
)

// stateStore implements service.StateStore on Redis. The token and
// user live under separate keys so either can be inspected or cleared
// independently, matching the mirror's two-key layout.
type stateStore struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *slog.Logger
}

// Params holds dependencies for the Redis state store, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Redis-backed state store.
func New(params Params) (service.StateStore, error) {
	cfg := params.Config.Redis
	if cfg == nil {
		return nil, errors.New("redis is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return &stateStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    params.Logger,
	}, nil
}

// Load reads both mirror keys. A missing mirror is not an error; a
// corrupt user payload is dropped so a bad write cannot wedge every
// startup.
func (s *stateStore) Load(ctx context.Context) (string, *entity.User, error) {
	token, err := s.client.Get(ctx, s.key(tokenKey)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", nil, errors.Wrap(err, "failed to load token")
	}

	payload, err := s.client.Get(ctx, s.key(userKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return token, nil, nil
		}

		return "", nil, errors.Wrap(err, "failed to load user")
	}

	var user entity.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		s.logger.Warn("Dropping corrupt persisted user", slog.Any("error", err))

		return token, nil, nil
	}

	return token, &user, nil
}

// Save overwrites both mirror keys. No TTL: the mirror lives until an
// explicit Clear, like its browser-storage counterpart.
func (s *stateStore) Save(ctx context.Context, token string, user *entity.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "failed to encode user")
	}

	if err := s.client.Set(ctx, s.key(tokenKey), token, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to save token")
	}
	if err := s.client.Set(ctx, s.key(userKey), payload, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to save user")
	}

	return nil
}

// Clear deletes both mirror keys.
func (s *stateStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(tokenKey), s.key(userKey)).Err(); err != nil {
		return errors.Wrap(err, "failed to clear mirror")
	}

	return nil
}

func (s *stateStore) key(name string) string {
	if s.keyPrefix == "" {
		return name
	}

	return s.keyPrefix + ":" + name
}
