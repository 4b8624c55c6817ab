package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signpath/signpath-server/internal/model"
)

// SessionGate checks token subjects against the current session.
type SessionGate interface {
	Authorize(identityID string) error
	Snapshot() model.SessionState
}

// RequireOnboarded lets through only the current identity once it has picked a role.
// It must run after Authenticate.
func RequireOnboarded(session SessionGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identityID, ok := IdentityID(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
			}
			if err := session.Authorize(identityID); errors.Is(err, model.ErrStaleToken) {
				return echo.NewHTTPError(http.StatusForbidden, err.Error())
			}

			state := session.Snapshot()
			if state.Identity == nil || state.Identity.Onboarding != model.Onboarded {
				return echo.NewHTTPError(http.StatusForbidden, "role selection required")
			}
			return next(c)
		}
	}
}
