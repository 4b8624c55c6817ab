package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signpath/signpath-server/internal/api/grpc/sessionpb"
	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
	"github.com/signpath/signpath-server/internal/service"
)

// SessionService defines the session operations exposed over gRPC.
type SessionService interface {
	Login(ctx context.Context, email, password string) bool
	Signup(ctx context.Context, email, password, name string) bool
	SetRole(ctx context.Context, role model.Role) error
	Logout(ctx context.Context) error
	Authorize(identityID string) error
	Snapshot() model.SessionState
}

var _ sessionpb.SessionServer = (*Session)(nil)

// Session handles gRPC endpoints of the session service.
type Session struct {
	service        SessionService
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSession creates a new Session handler.
func NewSession(service SessionService, tokens model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Session {
	return &Session{
		service:        service,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Login makes the given credentials the current identity and returns a session token.
func (h *Session) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := model.LoginRequest{
		Email:    stringField(req, "email"),
		Password: stringField(req, "password"),
	}
	if err := model.Validate(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	h.logger.Debug("Session handler: processing login request", "email", in.Email)

	if !h.service.Login(ctx, in.Email, in.Password) {
		h.logger.Error("Session handler: login failed", "email", in.Email)
		return nil, status.Error(codes.Internal, msgAuthFailed)
	}

	return h.respond(msgAuthFailed)
}

// Signup creates a new student identity and returns a session token.
func (h *Session) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := model.SignupRequest{
		Email:    stringField(req, "email"),
		Password: stringField(req, "password"),
		Name:     stringField(req, "name"),
	}
	if err := model.Validate(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	h.logger.Debug("Session handler: processing signup request", "email", in.Email)

	if !h.service.Signup(ctx, in.Email, in.Password, in.Name) {
		h.logger.Error("Session handler: signup failed", "email", in.Email)
		return nil, status.Error(codes.Internal, msgGenericError)
	}

	return h.respond(msgGenericError)
}

// SetRole completes onboarding of the token's identity.
func (h *Session) SetRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := model.RoleRequest{Role: model.Role(stringField(req, "role"))}
	if err := model.Validate(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.authorize(ctx); err != nil {
		return nil, err
	}

	if err := h.service.SetRole(ctx, in.Role); err != nil {
		h.logger.Error("Session handler: role selection failed",
			"role", in.Role,
			"error", err.Error())
		return nil, handleError(err)
	}

	return h.respond(msgGenericError)
}

// Logout ends the token's session.
func (h *Session) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := h.authorize(ctx); err != nil {
		return nil, err
	}

	if err := h.service.Logout(ctx); err != nil {
		h.logger.Error("Session handler: logout failed", "error", err.Error())
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

// Current returns the session state and the screen it routes to.
func (h *Session) Current(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := toStruct(service.View(h.service.Snapshot()))
	if err != nil {
		h.logger.Error("Session handler: failed to encode session", "error", err.Error())
		return nil, status.Error(codes.Internal, msgGenericError)
	}
	return out, nil
}

func (h *Session) authorize(ctx context.Context) error {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing identity")
	}
	if err := h.service.Authorize(identityID); err != nil {
		h.logger.Warn("Session handler: rejected token", "identity_id", identityID)
		return handleError(err)
	}
	return nil
}

// respond returns the current session with a fresh token for its identity.
func (h *Session) respond(failure string) (*structpb.Struct, error) {
	resp, err := service.NewSessionResponse(h.tokens, h.service.Snapshot())
	if err != nil {
		h.logger.Error("Session handler: failed to issue token", "error", err.Error())
		return nil, status.Error(codes.Internal, failure)
	}

	out, err := toStruct(resp)
	if err != nil {
		h.logger.Error("Session handler: failed to encode session", "error", err.Error())
		return nil, status.Error(codes.Internal, failure)
	}

	return out, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// toStruct converts v to a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build struct: %w", err)
	}

	return out, nil
}
