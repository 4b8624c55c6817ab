package context

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// identityIDKey is the metadata key carrying the authenticated identity id.
const identityIDKey = "identity_id"

// Manager stores the authenticated identity id in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityIDToContext returns ctx with the identity id set in its incoming metadata.
// A client-supplied value under the same key is overwritten.
func (m *Manager) SetIdentityIDToContext(ctx context.Context, identityID string) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(nil)
	} else {
		md = md.Copy()
	}
	md.Set(identityIDKey, identityID)

	return metadata.NewIncomingContext(ctx, md)
}

// GetIdentityIDFromContext returns the identity id set by SetIdentityIDToContext.
func (m *Manager) GetIdentityIDFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	ids := md.Get(identityIDKey)
	if len(ids) == 0 || ids[0] == "" {
		return "", false
	}

	return ids[0], true
}
