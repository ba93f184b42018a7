// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"campus/config"
	"campus/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string        // Secret key for signing session tokens.
	ttl    time.Duration // Time-to-live for session tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Provider == nil || cfg.Provider.Local == nil || cfg.Provider.Local.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := cfg.Provider.Local.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &jwtService{
		secret: cfg.Provider.Local.Secret,
		ttl:    ttl,
	}, nil
}

// GenerateToken creates a signed session token for an identity.
func (s *jwtService) GenerateToken(identityID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identityID,                   // Subject (who the token is for)
		"email": email,                        // Login email, echoed back on validation
		"iat":   time.Now().Unix(),            // Issued At
		"exp":   time.Now().Add(s.ttl).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// ValidateToken checks a token's signature and expiry and returns the
// identity it was issued for.
func (s *jwtService) ValidateToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", "", errors.Wrap(err, "failed to parse token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token claims")
	}

	identityID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if identityID == "" {
		return "", "", errors.New("token missing subject")
	}

	return identityID, email, nil
}

// TokenTTL returns the configured session token lifetime.
func (s *jwtService) TokenTTL() time.Duration {
	return s.ttl
}
