package entity

import "time"

// Session is the provider-managed proof of authentication. It is owned
// and refreshed by the identity provider; the application only cares
// about its presence, token, and expiry.
type Session struct {
	AccessToken string    // Opaque bearer token issued by the provider.
	ExpiresAt   time.Time // Provider-side expiry of the token.
	IdentityID  string    // Identity id the session was issued for.
}

// Expired reports whether the session's token is past its expiry.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Identity is the provider's view of an authenticated principal,
// used to build the application User when no profile record exists.
type Identity struct {
	ID        string // Provider-assigned identity id.
	Email     string
	FirstName string // From provider metadata; may be empty.
	LastName  string // From provider metadata; may be empty.
}

// Profile is the application-specific record keyed by the provider's
// identity id. It carries the role and display names.
type Profile struct {
	ID        string // Matches the provider identity id.
	FirstName string
	LastName  string
	Role      Role
	UpdatedAt time.Time
}
