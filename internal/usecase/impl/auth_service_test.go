package impl

import (
	"context"
	"testing"
	"time"

	"campus/internal/domain/entity"
	domainerrors "campus/internal/domain/errors"
	"campus/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(h *testHarness) usecase.AuthUsecase {
	return NewAuthService(AuthServiceParams{
		Container: h.container,
		Provider:  h.provider,
		Profiles:  h.newProfileService(2 * time.Second),
		Logger:    newDiscardLogger(),
	})
}

func TestAuthService_Login_Succeeds(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.session = &entity.Session{AccessToken: "token-admin", IdentityID: "uid-a"}
	h.provider.identity = &entity.Identity{ID: "uid-a", Email: "dean@campus.test"}
	h.profiles.profile = &entity.Profile{ID: "uid-a", FirstName: "Dean", Role: entity.RoleAdmin}
	svc := newAuthService(h)

	output, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "dean@campus.test",
		Password: "secret",
	})
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, entity.RoleAdmin, output.User.Role)
	assert.Equal(t, "token-admin", output.Token)

	state := h.container.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Err)
	assert.Equal(t, "token-admin", state.Token)
	assert.True(t, h.states.hasMirror(), "a successful login refreshes the persisted mirror")
}

func TestAuthService_Login_RejectedCredentials(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.signInErr = domainerrors.ErrInvalidCredentials
	svc := newAuthService(h)

	output, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "dean@campus.test",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, domainerrors.IsInvalidCredentials(err))

	state := h.container.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Equal(t, domainerrors.ErrInvalidCredentials.Message(), state.Err)
}

func TestAuthService_Login_ProviderOutage(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.signInErr = errors.New("dial tcp: connection refused")
	svc := newAuthService(h)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "dean@campus.test",
		Password: "secret",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrServiceUnavailable))

	state := h.container.Snapshot()
	assert.Equal(t, domainerrors.ErrServiceUnavailable.Message(), state.Err,
		"an outage must not read as a wrong password")
}

func TestAuthService_Login_SetsLoadingDuringSignIn(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.signInErr = domainerrors.ErrInvalidCredentials
	svc := newAuthService(h)

	h.container.LoginStart(context.Background())
	assert.True(t, h.container.Snapshot().IsLoading)

	_, _ = svc.Login(context.Background(), &usecase.LoginInput{Email: "a@b.c", Password: "x"})
	assert.False(t, h.container.Snapshot().IsLoading, "every outcome must release the loading flag")
}

func TestAuthService_Logout_ClearsEverything(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.session = &entity.Session{AccessToken: "token-x"}
	h.provider.identity = &entity.Identity{ID: "uid-x", Email: "x@campus.test"}
	svc := newAuthService(h)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{Email: "x@campus.test", Password: "pw"})
	require.NoError(t, err)
	require.True(t, h.states.hasMirror())

	require.NoError(t, svc.Logout(context.Background()))

	state := h.container.Snapshot()
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
	assert.False(t, state.IsAuthenticated)
	assert.False(t, h.states.hasMirror())
	assert.True(t, h.provider.wasSignedOut())
}

func TestAuthService_ClearError(t *testing.T) {
	t.Parallel()

	h := newTestHarness()
	h.provider.signInErr = domainerrors.ErrInvalidCredentials
	svc := newAuthService(h)

	_, _ = svc.Login(context.Background(), &usecase.LoginInput{Email: "a@b.c", Password: "x"})
	require.NotEmpty(t, h.container.Snapshot().Err)

	svc.ClearError(context.Background())
	assert.Empty(t, h.container.Snapshot().Err)
}
