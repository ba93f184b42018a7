package identity

import (
	"testing"

	domainerrors "campus/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestToolkitError_CredentialRejections(t *testing.T) {
	cases := []struct {
		name    string
		message string
	}{
		{name: "wrong password", message: "INVALID_PASSWORD"},
		{name: "unknown email", message: "EMAIL_NOT_FOUND"},
		{name: "combined rejection", message: "INVALID_LOGIN_CREDENTIALS"},
		{name: "disabled user", message: "USER_DISABLED"},
		{name: "rejection with detail", message: "INVALID_PASSWORD : The password is invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := []byte(`{"error":{"message":"` + tc.message + `"}}`)
			err := toolkitError(400, body)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		})
	}
}

func TestToolkitError_ExpiredTokenIsUnauthenticated(t *testing.T) {
	err := toolkitError(401, []byte(`{"error":{"message":"TOKEN_EXPIRED"}}`))
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestToolkitError_UnknownPayload(t *testing.T) {
	err := toolkitError(500, []byte("upstream blew up"))
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "invalid email or password")
	assert.Contains(t, err.Error(), "500")
}

func TestSplitDisplayName(t *testing.T) {
	first, last := splitDisplayName("Ada Lovelace")
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "Lovelace", last)

	first, last = splitDisplayName("Plato")
	assert.Equal(t, "Plato", first)
	assert.Empty(t, last)

	first, last = splitDisplayName("  ")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
