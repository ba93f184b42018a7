package entity

// AuthEventType tags a transition pushed by the identity provider.
type AuthEventType string

const (
	// AuthEventSignedIn is emitted when the provider establishes a session.
	AuthEventSignedIn AuthEventType = "SIGNED_IN"
	// AuthEventSignedOut is emitted when the provider session ends,
	// whether locally or revoked out-of-band.
	AuthEventSignedOut AuthEventType = "SIGNED_OUT"
)

// AuthEvent is a single entry in the provider's auth-event stream.
// Session is present for SIGNED_IN events and nil for SIGNED_OUT.
type AuthEvent struct {
	Type    AuthEventType
	Session *Session
}
