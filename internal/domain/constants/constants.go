// Package constants defines shared domain constants.
package constants

const (
	// Identity provider kinds selectable via configuration.
	IdentityProviderFirebase = "firebase"
	IdentityProviderLocal    = "local"

	// Auth-event ingress providers.
	PubSubProviderGoogle = "google"
)
