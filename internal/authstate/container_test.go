package authstate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"campus/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStateStore is an in-memory persisted mirror for tests.
type fakeStateStore struct {
	token string
	user  *entity.User
	has   bool
}

func (s *fakeStateStore) Load(_ context.Context) (string, *entity.User, error) {
	if !s.has {
		return "", nil, nil
	}

	return s.token, s.user, nil
}

func (s *fakeStateStore) Save(_ context.Context, token string, user *entity.User) error {
	s.token = token
	s.user = user
	s.has = true

	return nil
}

func (s *fakeStateStore) Clear(_ context.Context) error {
	s.token = ""
	s.user = nil
	s.has = false

	return nil
}

func newTestContainer() (*Container, *fakeStateStore) {
	store := &fakeStateStore{}
	container := NewContainer(Params{
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return container, store
}

func TestContainer_LoginSuccess_PersistsMirror(t *testing.T) {
	container, store := newTestContainer()
	ctx := context.Background()

	container.LoginStart(ctx)
	assert.True(t, container.Snapshot().IsLoading)

	user := &entity.User{ID: "2", Email: "admin@x.com", Role: entity.RoleAdmin}
	container.LoginSuccess(ctx, user, "xyz")

	state := container.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	require.NotNil(t, state.User)
	assert.Equal(t, entity.RoleAdmin, state.User.Role)
	assert.Equal(t, "xyz", state.Token)

	assert.True(t, store.has)
	assert.Equal(t, "xyz", store.token)
	assert.Equal(t, user, store.user)
}

func TestContainer_LoginFailure_LeavesAuthFieldsUntouched(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	user := &entity.User{ID: "1", Email: "a@x.com", Role: entity.RoleStudent}
	container.LoginSuccess(ctx, user, "abc")

	container.LoginStart(ctx)
	container.LoginFailure(ctx, "invalid email or password")

	state := container.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "abc", state.Token)
	assert.Equal(t, "invalid email or password", state.Err)
	assert.False(t, state.IsLoading)
}

func TestContainer_Logout_ClearsStateAndMirror(t *testing.T) {
	container, store := newTestContainer()
	ctx := context.Background()

	container.LoginSuccess(ctx, &entity.User{ID: "1", Role: entity.RoleStudent}, "abc")
	container.Logout(ctx)

	state := container.Snapshot()
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Err)
	assert.False(t, store.has)
}

func TestContainer_Hydrate_IsOptimisticAndOneShot(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	persisted := &entity.User{ID: "1", Email: "a@x.com", Role: entity.RoleStudent}
	container.Hydrate(ctx, "abc", persisted)

	state := container.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "abc", state.Token)
	assert.Equal(t, persisted, state.User)
	assert.False(t, state.IsLoading)

	// A second hydrate must not clobber live state.
	container.Hydrate(ctx, "stale", &entity.User{ID: "9"})
	assert.Equal(t, "abc", container.Snapshot().Token)
}

func TestContainer_ProfileFetchFailure_UnauthenticatedClearsAll(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	container.LoginSuccess(ctx, &entity.User{ID: "1", Role: entity.RoleStudent}, "abc")

	seq := container.BeginProfileFetch(ctx)
	container.ProfileFetchFailure(ctx, seq, "user is not authenticated")

	state := container.Snapshot()
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, "user is not authenticated", state.Err)
}

func TestContainer_ProfileFetchFailure_GenericKeepsAuthFields(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	container.LoginSuccess(ctx, &entity.User{ID: "1", Role: entity.RoleStudent}, "abc")

	seq := container.BeginProfileFetch(ctx)
	container.ProfileFetchFailure(ctx, seq, "connection reset")

	state := container.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "abc", state.Token)
	assert.Equal(t, "connection reset", state.Err)
}

func TestContainer_StaleFetchResultDiscarded(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	first := container.BeginProfileFetch(ctx)
	second := container.BeginProfileFetch(ctx)

	// The newer fetch resolves first.
	container.ProfileFetchSuccess(ctx, second, &entity.User{ID: "1", Role: entity.RoleInstructor}, "tok2")
	// The older in-flight result lands late and must be discarded.
	container.ProfileFetchSuccess(ctx, first, &entity.User{ID: "1", Role: entity.RoleStudent}, "tok1")

	state := container.Snapshot()
	require.NotNil(t, state.User)
	assert.Equal(t, entity.RoleInstructor, state.User.Role)
	assert.Equal(t, "tok2", state.Token)
}

func TestContainer_LogoutInvalidatesInFlightFetch(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	seq := container.BeginProfileFetch(ctx)
	container.Logout(ctx)

	// A fetch issued before logout resolves afterwards; it must not
	// resurrect the signed-in state.
	container.ProfileFetchSuccess(ctx, seq, &entity.User{ID: "1", Role: entity.RoleStudent}, "tok")

	state := container.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
}

func TestContainer_LoginSuccessInvalidatesInFlightFetch(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	seq := container.BeginProfileFetch(ctx)

	fresh := &entity.User{ID: "fresh", Role: entity.RoleAdmin}
	container.LoginSuccess(ctx, fresh, "fresh-token")

	// The fetch issued before the login resolves late; it must not
	// overwrite the fresher login's user and token.
	container.ProfileFetchSuccess(ctx, seq, &entity.User{ID: "stale", Role: entity.RoleStudent}, "stale-token")

	state := container.Snapshot()
	require.NotNil(t, state.User)
	assert.Equal(t, "fresh", state.User.ID)
	assert.Equal(t, "fresh-token", state.Token)
}

func TestContainer_ClearError(t *testing.T) {
	container, _ := newTestContainer()
	ctx := context.Background()

	container.LoginFailure(ctx, "boom")
	container.ClearError(ctx)

	assert.Empty(t, container.Snapshot().Err)
}
