package errors

import (
	"strings"

	"campus/internal/errors"
)

// Response is the wire shape the error middleware writes for failures.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries the business error code and optional details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Normalize flattens any error into a plain message string so no raw
// provider/SDK error crosses the auth state container boundary.
func Normalize(err error) string {
	if err == nil {
		return ""
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}

	return err.Error()
}

// IsUnauthenticatedMessage classifies a normalized message as an
// unauthenticated condition. Matching on the message is deliberate:
// by the time a result reaches the container only plain strings
// remain, and provider SDKs phrase the condition in several ways.
func IsUnauthenticatedMessage(msg string) bool {
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "not authenticated") ||
		strings.Contains(lower, "unauthenticated") ||
		strings.Contains(lower, "no current session")
}

// IsUnauthenticated reports whether err is the unauthenticated
// sentinel or carries an unauthenticated-shaped message.
func IsUnauthenticated(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthenticated) {
		return true
	}

	return IsUnauthenticatedMessage(err.Error())
}

// IsInvalidCredentials reports whether err is the provider's
// credential rejection, either the sentinel or a provider-shaped message.
func IsInvalidCredentials(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return true
	}
	lower := strings.ToLower(err.Error())

	return strings.Contains(lower, "invalid_password") ||
		strings.Contains(lower, "invalid login credentials") ||
		strings.Contains(lower, "email_not_found")
}
