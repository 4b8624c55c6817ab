package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// TokenParser resolves claims from bearer tokens.
type TokenParser interface {
	ParseAccessToken(token string) (model.TokenClaims, error)
}

// Authenticate validates bearer tokens and injects the identity id into context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and returns a context with the identity id.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	identityID, err := m.authenticate(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected request", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetIdentityIDToContext(ctx, identityID), nil
}

func (m *Authenticate) authenticate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errMissingToken
	}

	claims, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil || claims.IdentityID == "" {
		return "", errInvalidToken
	}

	return claims.IdentityID, nil
}
