// Package authstate holds the single source of truth for "who is
// logged in". Every mutation funnels through one serialized transition
// path, so consumers always observe a fully-formed state and two code
// paths can never interleave partial updates.
package authstate

import (
	"context"
	"log/slog"
	"sync"

	"campus/internal/domain/entity"
	domainerrors "campus/internal/domain/errors"
	"campus/internal/domain/service"

	"go.uber.org/fx"
)

// State is the only long-lived entity owned by this slice.
// IsAuthenticated implies User != nil; Token is set together with the
// session on every authenticated path, including silent restore.
type State struct {
	Token           string       `json:"token,omitempty"`
	User            *entity.User `json:"user,omitempty"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
	Err             string       `json:"error,omitempty"`
}

// Container applies auth transitions one at a time and mirrors durable
// state to the StateStore. It is an injectable instance, not a process
// global, so tests get isolated containers.
type Container struct {
	mu    sync.Mutex
	state State

	// fetchSeq stamps every issued profile fetch; appliedSeq records
	// the newest fetch whose outcome was applied. A result older than
	// appliedSeq is stale and gets discarded instead of overwriting
	// newer state.
	fetchSeq   uint64
	appliedSeq uint64

	store  service.StateStore
	logger *slog.Logger
}

// Params holds dependencies for the Container, injected by Fx.
type Params struct {
	fx.In

	Store  service.StateStore
	Logger *slog.Logger
}

// NewContainer is the constructor for Container.
func NewContainer(params Params) *Container {
	return &Container{
		store:  params.Store,
		logger: params.Logger,
	}
}

// Snapshot returns a copy of the current state. The User pointer is
// shared but treated as immutable: transitions replace it wholesale.
func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Hydrate seeds state from the persisted mirror before any network
// round-trip, so a reload renders authenticated content immediately.
// It is a no-op once any other transition has populated the state.
func (c *Container) Hydrate(ctx context.Context, token string, user *entity.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsAuthenticated || c.state.User != nil {
		return
	}

	c.state.Token = token
	c.state.User = user
	c.state.IsAuthenticated = user != nil
	c.logger.Debug("Hydrated auth state from persisted mirror",
		slog.Bool("authenticated", c.state.IsAuthenticated))
}

// LoginStart marks an explicit login in flight.
func (c *Container) LoginStart(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.IsLoading = true
	c.state.Err = ""
}

// LoginSuccess records an authenticated user and token, and durably
// persists both so the next boot can hydrate instantly. A persistence
// failure is logged, not surfaced: the mirror is advisory only.
// Fetches issued before the login are invalidated so a late result
// cannot overwrite the fresher login.
func (c *Container) LoginSuccess(ctx context.Context, user *entity.User, token string) {
	c.mu.Lock()
	c.state = State{
		Token:           token,
		User:            user,
		IsAuthenticated: true,
	}
	c.appliedSeq = c.fetchSeq
	c.mu.Unlock()

	if err := c.store.Save(ctx, token, user); err != nil {
		c.logger.Warn("Failed to persist auth state mirror", slog.Any("error", err))
	}
}

// LoginFailure records a login error message; auth fields stay untouched.
func (c *Container) LoginFailure(_ context.Context, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.IsLoading = false
	c.state.Err = message
}

// BeginProfileFetch marks a profile fetch in flight and returns its
// sequence stamp. Concurrent fetches are allowed; the stamp decides
// which outcome wins.
func (c *Container) BeginProfileFetch(_ context.Context) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetchSeq++
	c.state.IsLoading = true
	c.state.Err = ""

	return c.fetchSeq
}

// ProfileFetchSuccess applies a resolved user and session token,
// unless a newer fetch outcome already landed.
func (c *Container) ProfileFetchSuccess(_ context.Context, seq uint64, user *entity.User, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.applySeq(seq) {
		return
	}

	c.state.IsLoading = false
	c.state.Err = ""
	c.state.User = user
	c.state.IsAuthenticated = true
	if token != "" {
		c.state.Token = token
	}
}

// ProfileFetchFailure records a fetch error. An unauthenticated
// classification additionally forces the signed-out shape, since the
// provider no longer vouches for the identity.
func (c *Container) ProfileFetchFailure(_ context.Context, seq uint64, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.applySeq(seq) {
		return
	}

	c.state.IsLoading = false
	c.state.Err = message

	if domainerrors.IsUnauthenticatedMessage(message) {
		c.state.Token = ""
		c.state.User = nil
		c.state.IsAuthenticated = false
	}
}

// applySeq reports whether a fetch outcome with the given stamp may be
// applied, and records it as the newest applied outcome if so.
// Callers must hold c.mu.
func (c *Container) applySeq(seq uint64) bool {
	if seq <= c.appliedSeq {
		c.logger.Debug("Discarding stale profile fetch result",
			slog.Uint64("seq", seq), slog.Uint64("applied", c.appliedSeq))

		return false
	}
	c.appliedSeq = seq

	return true
}

// Logout clears all auth fields and deletes the persisted mirror.
// In-flight fetches issued before the logout are invalidated so a late
// result cannot resurrect the signed-in state.
func (c *Container) Logout(ctx context.Context) {
	c.mu.Lock()
	c.state = State{}
	c.appliedSeq = c.fetchSeq
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("Failed to clear auth state mirror", slog.Any("error", err))
	}
}

// ClearError resets the error field only.
func (c *Container) ClearError(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Err = ""
}
