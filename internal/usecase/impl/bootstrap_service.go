package impl

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"campus/internal/authstate"
	"campus/internal/domain/entity"
	"campus/internal/domain/service"
	"campus/internal/usecase"

	"go.uber.org/fx"
)

// bootstrapService implements the SessionUsecase interface. It runs
// once at startup to reconcile the provider session with local state,
// then keeps listening to auth-event sources for the process lifetime.
type bootstrapService struct {
	container *authstate.Container
	provider  service.IdentityProvider
	states    service.StateStore
	profiles  usecase.ProfileUsecase
	extras    []service.AuthEventSource
	logger    *slog.Logger

	ready        atomic.Bool
	unsubscribes []func()
	wg           sync.WaitGroup
}

// BootstrapServiceParams holds dependencies for bootstrapService, injected by Fx.
type BootstrapServiceParams struct {
	fx.In

	Container *authstate.Container
	Provider  service.IdentityProvider
	States    service.StateStore
	Profiles  usecase.ProfileUsecase
	Logger    *slog.Logger

	// ExtraSources carries auth events pushed from outside the
	// provider client, e.g. a Pub/Sub revocation feed.
	ExtraSources []service.AuthEventSource `group:"authEventSources"`
}

// NewBootstrapService is the constructor for bootstrapService.
func NewBootstrapService(params BootstrapServiceParams) usecase.SessionUsecase {
	return &bootstrapService{
		container: params.Container,
		provider:  params.Provider,
		states:    params.States,
		profiles:  params.Profiles,
		extras:    params.ExtraSources,
		logger:    params.Logger,
	}
}

// Bootstrap performs the silent-restore pass. It never fails on a
// missing session: absence of auth is a valid, fully-reconciled state.
func (srv *bootstrapService) Bootstrap(ctx context.Context) error {
	srv.hydrateFromMirror(ctx)
	srv.reconcileWithProvider(ctx)

	// The readiness flag flips regardless of outcome; it gates only
	// the readiness surface, not the container's IsLoading.
	srv.ready.Store(true)

	srv.subscribeSources(ctx)

	return nil
}

// hydrateFromMirror seeds the container from the persisted copy so the
// first render after a reload is authenticated without waiting on the
// network. The mirror is advisory; load errors are absorbed.
func (srv *bootstrapService) hydrateFromMirror(ctx context.Context) {
	token, user, err := srv.states.Load(ctx)
	if err != nil {
		srv.logger.Warn("Failed to load persisted auth mirror", slog.Any("error", err))

		return
	}
	if user == nil {
		return
	}

	srv.container.Hydrate(ctx, token, user)
}

// reconcileWithProvider asks the provider for the live session and
// triggers a silent restore when a session exists but no user has been
// resolved yet.
func (srv *bootstrapService) reconcileWithProvider(ctx context.Context) {
	session, err := srv.provider.CurrentSession(ctx)
	if err != nil {
		srv.logger.Warn("Session check failed during bootstrap", slog.Any("error", err))

		return
	}
	if session == nil {
		srv.logger.Debug("No provider session at bootstrap")

		return
	}

	if srv.container.Snapshot().User != nil {
		return
	}

	if err := srv.profiles.Fetch(ctx, session); err != nil {
		srv.logger.Warn("Silent restore failed", slog.Any("error", err))
	}
}

// subscribeSources attaches the event loops: the provider's own stream
// plus any external ingress. Each stream funnels into the same
// container transitions, so no code path mutates state independently.
func (srv *bootstrapService) subscribeSources(ctx context.Context) {
	sources := append([]service.AuthEventSource{srv.provider}, srv.extras...)
	for _, source := range sources {
		events, unsubscribe, err := source.SubscribeAuthEvents(ctx)
		if err != nil {
			srv.logger.Warn("Failed to subscribe auth-event source", slog.Any("error", err))

			continue
		}
		srv.unsubscribes = append(srv.unsubscribes, unsubscribe)

		srv.wg.Add(1)
		go srv.consume(ctx, events)
	}
}

// consume applies pushed auth events until the stream closes.
func (srv *bootstrapService) consume(ctx context.Context, events <-chan entity.AuthEvent) {
	defer srv.wg.Done()

	for event := range events {
		switch event.Type {
		case entity.AuthEventSignedIn:
			if event.Session == nil {
				continue
			}
			srv.logger.Debug("Auth event: signed in")
			if err := srv.profiles.Fetch(ctx, event.Session); err != nil {
				srv.logger.Warn("Event-triggered profile fetch failed", slog.Any("error", err))
			}

		case entity.AuthEventSignedOut:
			// The provider no longer vouches for the session, so both
			// the persisted mirror and the in-memory state are cleared.
			// Leaving the container authenticated here would let the UI
			// outlive the real session.
			srv.logger.Debug("Auth event: signed out")
			srv.container.Logout(ctx)
		}
	}
}

// Ready reports whether the initial reconciliation pass completed.
func (srv *bootstrapService) Ready() bool {
	return srv.ready.Load()
}

// Shutdown detaches from every event source and waits for the loops to drain.
func (srv *bootstrapService) Shutdown(_ context.Context) error {
	for _, unsubscribe := range srv.unsubscribes {
		unsubscribe()
	}
	srv.unsubscribes = nil
	srv.wg.Wait()

	return nil
}
