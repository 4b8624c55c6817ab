package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signpath/signpath-server/internal/api/http/middleware"
	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
	"github.com/signpath/signpath-server/internal/service"
)

// User-facing messages. Details stay in the server log.
const (
	msgAuthFailed   = "Authentication failed"
	msgGenericError = "An error occurred"
)

// SessionService defines the session operations exposed over HTTP.
type SessionService interface {
	Login(ctx context.Context, email, password string) bool
	Signup(ctx context.Context, email, password, name string) bool
	SetRole(ctx context.Context, role model.Role) error
	Logout(ctx context.Context) error
	Authorize(identityID string) error
	Snapshot() model.SessionState
}

// Session handles the /v1/session endpoints.
type Session struct {
	service SessionService
	tokens  model.TokenManager
	logger  *logger.Logger
}

// NewSession creates a new Session handler.
func NewSession(service SessionService, tokens model.TokenManager, logger *logger.Logger) *Session {
	return &Session{service: service, tokens: tokens, logger: logger}
}

// Login handles POST /v1/session/login.
func (h *Session) Login(c echo.Context) error {
	var in model.LoginRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	if !h.service.Login(c.Request().Context(), in.Email, in.Password) {
		h.logger.Error("Session HTTP handler: login failed", "email", in.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, msgAuthFailed)
	}

	return h.respond(c, http.StatusOK, msgAuthFailed)
}

// Signup handles POST /v1/session/signup.
func (h *Session) Signup(c echo.Context) error {
	var in model.SignupRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	if !h.service.Signup(c.Request().Context(), in.Email, in.Password, in.Name) {
		h.logger.Error("Session HTTP handler: signup failed", "email", in.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, msgGenericError)
	}

	return h.respond(c, http.StatusCreated, msgGenericError)
}

// SetRole handles PUT /v1/session/role.
func (h *Session) SetRole(c echo.Context) error {
	var in model.RoleRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	if err := h.authorize(c); err != nil {
		return err
	}

	if err := h.service.SetRole(c.Request().Context(), in.Role); err != nil {
		h.logger.Error("Session HTTP handler: role selection failed",
			"role", in.Role,
			"error", err.Error())
		return httpError(err)
	}

	return h.respond(c, http.StatusOK, msgGenericError)
}

// Logout handles POST /v1/session/logout.
func (h *Session) Logout(c echo.Context) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	if err := h.service.Logout(c.Request().Context()); err != nil {
		h.logger.Error("Session HTTP handler: logout failed", "error", err.Error())
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Current handles GET /v1/session.
func (h *Session) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, service.View(h.service.Snapshot()))
}

func (h *Session) authorize(c echo.Context) error {
	identityID, ok := middleware.IdentityID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	if err := h.service.Authorize(identityID); err != nil {
		h.logger.Warn("Session HTTP handler: rejected token", "identity_id", identityID)
		return httpError(err)
	}
	return nil
}

func (h *Session) respond(c echo.Context, code int, failure string) error {
	resp, err := service.NewSessionResponse(h.tokens, h.service.Snapshot())
	if err != nil {
		h.logger.Error("Session HTTP handler: failed to issue token", "error", err.Error())
		return echo.NewHTTPError(http.StatusInternalServerError, failure)
	}
	return c.JSON(code, resp)
}

func bindAndValidate(c echo.Context, in any) error {
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidRole):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrStaleToken):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msgGenericError)
	}
}
