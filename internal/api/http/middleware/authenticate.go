package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
)

const identityIDKey = "identity_id"

// TokenParser resolves claims from bearer tokens.
type TokenParser interface {
	ParseAccessToken(token string) (model.TokenClaims, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// token subject in the echo context.
func Authenticate(tokens TokenParser, logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization token")
			}

			claims, err := tokens.ParseAccessToken(tokenString)
			if err != nil || claims.IdentityID == "" {
				logger.Debug("Authenticate middleware: rejected token", "path", c.Path())
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization token")
			}

			c.Set(identityIDKey, claims.IdentityID)
			return next(c)
		}
	}
}

// IdentityID returns the token subject stored by Authenticate.
func IdentityID(c echo.Context) (string, bool) {
	id, ok := c.Get(identityIDKey).(string)
	return id, ok && id != ""
}
