package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a transport serves on. Implementations
// decide between plain TCP and TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is one transport (gRPC or HTTP) exposing the session.
// Start blocks until the server stops; Address reports the bound address
// once listening, the configured one before.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// ContextManager carries the authenticated identity id through request contexts.
type ContextManager interface {
	SetIdentityIDToContext(ctx context.Context, identityID string) context.Context
	GetIdentityIDFromContext(ctx context.Context) (string, bool)
}
