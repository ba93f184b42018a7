// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"campus/internal/authstate"
	"campus/internal/delivery/http/response"
	"campus/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	auth      usecase.AuthUsecase
	sessions  usecase.SessionUsecase
	container *authstate.Container
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(
	auth usecase.AuthUsecase,
	sessions usecase.SessionUsecase,
	container *authstate.Container,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		sessions:  sessions,
		container: container,
		logger:    logger,
	}
}

// Login handles the explicit login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Email and password are required")
	}

	output, err := h.auth.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Logged in")
}

// Logout ends the session and clears local auth state.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out")
}

// sessionView is the wire shape of the auth state snapshot.
type sessionView struct {
	Ready bool            `json:"ready"`
	State authstate.State `json:"state"`
}

// Session returns the reconciled auth state together with the
// bootstrap readiness flag. Clients poll it to decide between splash
// screen and routed content.
func (h *AuthHandler) Session(c echo.Context) error {
	view := sessionView{
		Ready: h.sessions.Ready(),
		State: h.container.Snapshot(),
	}

	return response.Success(c, http.StatusOK, view, "")
}

// ClearError resets the auth error field after the client has shown it.
func (h *AuthHandler) ClearError(c echo.Context) error {
	h.auth.ClearError(c.Request().Context())

	return response.Success(c, http.StatusOK, nil, "Error cleared")
}
