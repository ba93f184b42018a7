package auth

import (
	"testing"
	"time"

	"campus/config"

	"github.com/stretchr/testify/assert"
)

func newJWTTestConfig(secret string, ttl time.Duration) *config.Config {
	return &config.Config{
		Provider: &config.ProviderConfig{
			Local: &config.LocalProviderConfig{
				Secret:   secret,
				TokenTTL: ttl,
			},
		},
	}
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	cfg := newJWTTestConfig("test_secret_key_very_long_for_testing", time.Hour)

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	token, err := jwtService.GenerateToken("uid-123", "student@campus.test")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	identityID, email, err := jwtService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "uid-123", identityID)
	assert.Equal(t, "student@campus.test", email)
}

func TestJWTService_InvalidToken(t *testing.T) {
	cfg := newJWTTestConfig("test_secret_key_very_long_for_testing", time.Hour)

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)

	// Test invalid token - using clearly non-JWT format
	identityID, _, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Empty(t, identityID)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newJWTTestConfig("issuer_secret_very_long_for_testing", time.Hour))
	assert.NoError(t, err)
	verifier, err := NewJWTService(newJWTTestConfig("verifier_secret_very_long_for_testing", time.Hour))
	assert.NoError(t, err)

	token, err := issuer.GenerateToken("uid-456", "other@campus.test")
	assert.NoError(t, err)

	_, _, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := newJWTTestConfig("", time.Hour)

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}

func TestJWTService_DefaultTTL(t *testing.T) {
	cfg := newJWTTestConfig("test_secret_key_very_long_for_testing", 0)

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)
	assert.Equal(t, time.Hour, jwtService.TokenTTL())
}
