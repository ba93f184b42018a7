package impl

import (
	"context"
	"testing"
	"time"

	"campus/internal/domain/entity"
	domainerrors "campus/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Fetch_MergesProfileRecord(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.identity = &entity.Identity{ID: "uid-1", Email: "ada@campus.test", FirstName: "Ada"}
	h.profiles.profile = &entity.Profile{
		ID:        "uid-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      entity.RoleInstructor,
	}
	svc := h.newProfileService(2 * time.Second)

	session := &entity.Session{AccessToken: "token-1", IdentityID: "uid-1"}
	err := svc.Fetch(context.Background(), session)
	require.NoError(t, err)

	state := h.container.Snapshot()
	require.NotNil(t, state.User)
	assert.Equal(t, "uid-1", state.User.ID)
	assert.Equal(t, "ada@campus.test", state.User.Email)
	assert.Equal(t, "Lovelace", state.User.LastName)
	assert.Equal(t, entity.RoleInstructor, state.User.Role)
	assert.Equal(t, "token-1", state.Token)
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Err)
}

func TestProfileService_Fetch_SlowStoreDegradesToStudent(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.identity = &entity.Identity{ID: "uid-2", Email: "slow@campus.test"}
	h.profiles.profile = &entity.Profile{ID: "uid-2", Role: entity.RoleAdmin}
	h.profiles.delay = 500 * time.Millisecond
	svc := h.newProfileService(20 * time.Millisecond)

	start := time.Now()
	err := svc.Fetch(context.Background(), &entity.Session{AccessToken: "token-2"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond, "timeout should cancel the query, not wait it out")

	state := h.container.Snapshot()
	require.NotNil(t, state.User)
	assert.Equal(t, entity.RoleStudent, state.User.Role, "degraded fetch falls back to the least privileged role")
	assert.Equal(t, "slow@campus.test", state.User.Email)
	assert.True(t, state.IsAuthenticated)
	assert.Empty(t, state.Err, "a degraded profile is still a successful fetch")
}

func TestProfileService_Fetch_MissingProfileDegradesToStudent(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.identity = &entity.Identity{ID: "uid-3", Email: "new@campus.test", FirstName: "New"}
	svc := h.newProfileService(2 * time.Second)

	err := svc.Fetch(context.Background(), nil)
	require.NoError(t, err)

	state := h.container.Snapshot()
	require.NotNil(t, state.User)
	assert.Equal(t, entity.RoleStudent, state.User.Role)
	assert.Equal(t, "New", state.User.FirstName)
	assert.Empty(t, state.Token, "a nil session carries no token")

	// A first-time identity gets a default record seeded so the next
	// fetch resolves a stored profile.
	provisioned := h.profiles.lastUpserted()
	require.NotNil(t, provisioned)
	assert.Equal(t, "uid-3", provisioned.ID)
	assert.Equal(t, "New", provisioned.FirstName)
	assert.Equal(t, entity.RoleStudent, provisioned.Role)
}

func TestProfileService_Resolve_ProvisionFailureStillDegrades(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.profiles.upsertErr = errors.New("write refused")
	svc := h.newProfileService(2 * time.Second)

	user := svc.Resolve(context.Background(), &entity.Identity{ID: "uid-7", Email: "x@campus.test"})

	require.NotNil(t, user)
	assert.Equal(t, entity.RoleStudent, user.Role, "a failed seed still yields the minimal fallback")
}

func TestProfileService_Fetch_UnauthenticatedIdentityClearsState(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.states.Save(context.Background(), "stale-token", &entity.User{ID: "uid-4", Role: entity.RoleStudent})
	h.container.Hydrate(context.Background(), "stale-token", &entity.User{ID: "uid-4", Role: entity.RoleStudent})
	h.provider.identityErr = errors.New("user is not authenticated")
	svc := h.newProfileService(2 * time.Second)

	err := svc.Fetch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, domainerrors.IsUnauthenticated(err))

	state := h.container.Snapshot()
	assert.Nil(t, state.User, "a definitive auth rejection wipes the optimistic state")
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Token)
}

func TestProfileService_Fetch_TransientIdentityErrorKeepsState(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.container.Hydrate(context.Background(), "token-5", &entity.User{ID: "uid-5", Role: entity.RoleStudent})
	h.provider.identityErr = errors.New("connection reset by peer")
	svc := h.newProfileService(2 * time.Second)

	err := svc.Fetch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrServiceUnavailable),
		"a transient identity error is a retry-later condition, not an auth verdict")

	state := h.container.Snapshot()
	require.NotNil(t, state.User, "a transient failure must not log the user out")
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "token-5", state.Token)
	assert.Equal(t, "connection reset by peer", state.Err)
}

func TestProfileService_Resolve_InvalidStoredRoleDefaultsToStudent(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.profiles.profile = &entity.Profile{ID: "uid-6", Role: entity.Role("superuser")}
	svc := h.newProfileService(2 * time.Second)

	user := svc.Resolve(context.Background(), &entity.Identity{ID: "uid-6", Email: "odd@campus.test"})

	assert.Equal(t, entity.RoleStudent, user.Role)
}
