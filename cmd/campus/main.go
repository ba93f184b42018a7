package main

import (
	"context"
	"log/slog"
	"os"

	"campus/config"
	"campus/internal/authstate"
	"campus/internal/delivery"
	"campus/internal/delivery/http"
	"campus/internal/delivery/http/middleware"
	"campus/internal/delivery/http/router/handler"
	"campus/internal/domain/service"
	"campus/internal/infra/auth"
	"campus/internal/infra/events"
	"campus/internal/infra/identity"
	logs "campus/internal/infra/log"
	"campus/internal/infra/persistence"
	"campus/internal/infra/persistence/postgres"
	"campus/internal/usecase"
	"campus/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			runBootstrap,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		persistence.NewStateStore,
		fx.Annotate(
			events.NewAuthEventIngress,
			fx.ResultTags(`group:"authEventSources"`),
		),
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewProfileRepository,
			postgres.NewAccountRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			newTokenService,
			identity.NewIdentityProvider,
			authstate.NewContainer,
		),
	)
}

// newTokenService creates the JWT token service when the local
// provider variant is configured. The hosted variant mints its own
// tokens, so the service is optional.
func newTokenService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Provider == nil || cfg.Provider.Local == nil {
		return nil, nil
	}

	return auth.NewJWTService(cfg)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewProfileService,
			impl.NewBootstrapService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewGuardMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewPortalHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// runBootstrap runs the session reconciliation pass on startup and
// detaches the event loops on shutdown. The loops outlive OnStart, so
// they run on the app-level context rather than the hook's.
func runBootstrap(lc fx.Lifecycle, ctx context.Context, sessions usecase.SessionUsecase) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return sessions.Bootstrap(ctx)
		},
		OnStop: sessions.Shutdown,
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
