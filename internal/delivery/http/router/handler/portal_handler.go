package handler

import (
	"net/http"

	"campus/internal/delivery/http/middleware"
	"campus/internal/delivery/http/response"
	"campus/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// PortalHandler serves the role-gated portal endpoints.
type PortalHandler struct{}

// NewPortalHandler creates a new PortalHandler instance.
func NewPortalHandler() *PortalHandler {
	return &PortalHandler{}
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// admittedUser returns the user the guard stored on the context.
func admittedUser(c echo.Context) *entity.User {
	user, _ := c.Get(middleware.UserContextKey).(*entity.User)

	return user
}

// Learn is the student-level landing endpoint.
func (h *PortalHandler) Learn(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"portal": "learn",
		"user":   admittedUser(c),
	}, "")
}

// Teach is the instructor-level landing endpoint.
func (h *PortalHandler) Teach(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"portal": "teach",
		"user":   admittedUser(c),
	}, "")
}

// Admin is the admin-level landing endpoint.
func (h *PortalHandler) Admin(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"portal": "admin",
		"user":   admittedUser(c),
	}, "")
}
