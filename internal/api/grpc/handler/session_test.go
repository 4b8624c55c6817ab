package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signpath/signpath-server/internal/mocks"
	"github.com/signpath/signpath-server/internal/model"
	"github.com/signpath/signpath-server/internal/testutil"
)

var student = model.Identity{
	ID:         "0190f1e2-aaaa-7bbb-8ccc-000000000001",
	Email:      "a@x.com",
	Role:       model.RoleStudent,
	Name:       "Ada",
	CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	Onboarding: model.Unonboarded,
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func requireCode(t *testing.T, err error, code codes.Code) *status.Status {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, code, st.Code())
	return st
}

func TestSession_Login(t *testing.T) {
	t.Parallel()

	svc := mocks.NewSessionService(t)
	tokens := mocks.NewTokenManager(t)
	cm := mocks.NewContextManager(t)

	svc.On("Login", mock.Anything, "a@x.com", "pw").Return(true)
	svc.On("Snapshot").Return(model.SessionState{Identity: &student})
	tokens.On("GenerateAccessToken", student).Return("tok", nil)

	h := NewSession(svc, tokens, cm, testutil.MakeNoopLogger())
	out, err := h.Login(context.Background(), mustStruct(t, map[string]any{"email": "a@x.com", "password": "pw"}))
	require.NoError(t, err)

	assert.Equal(t, "tok", out.Fields["access_token"].GetStringValue())
	session := out.Fields["session"].GetStructValue()
	assert.Equal(t, "role_selection", session.Fields["screen"].GetStringValue())
	identity := session.Fields["identity"].GetStructValue()
	assert.Equal(t, student.ID, identity.Fields["id"].GetStringValue())
	assert.Equal(t, "student", identity.Fields["role"].GetStringValue())
}

func TestSession_Login_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     map[string]any
		setup   func(svc *mocks.SessionService, tokens *mocks.TokenManager)
		code    codes.Code
		message string
	}{
		{
			name:  "missing password",
			req:   map[string]any{"email": "a@x.com"},
			setup: func(*mocks.SessionService, *mocks.TokenManager) {},
			code:  codes.InvalidArgument,
		},
		{
			name: "persistence failure",
			req:  map[string]any{"email": "a@x.com", "password": "pw"},
			setup: func(svc *mocks.SessionService, _ *mocks.TokenManager) {
				svc.On("Login", mock.Anything, "a@x.com", "pw").Return(false)
			},
			code:    codes.Internal,
			message: "Authentication failed",
		},
		{
			name: "token failure",
			req:  map[string]any{"email": "a@x.com", "password": "pw"},
			setup: func(svc *mocks.SessionService, tokens *mocks.TokenManager) {
				svc.On("Login", mock.Anything, "a@x.com", "pw").Return(true)
				svc.On("Snapshot").Return(model.SessionState{Identity: &student})
				tokens.On("GenerateAccessToken", student).Return("", errors.New("no key"))
			},
			code:    codes.Internal,
			message: "Authentication failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewSessionService(t)
			tokens := mocks.NewTokenManager(t)
			tt.setup(svc, tokens)

			h := NewSession(svc, tokens, mocks.NewContextManager(t), testutil.MakeNoopLogger())
			out, err := h.Login(context.Background(), mustStruct(t, tt.req))
			assert.Nil(t, out)
			st := requireCode(t, err, tt.code)
			if tt.message != "" {
				assert.Equal(t, tt.message, st.Message())
			}
		})
	}
}

func TestSession_Signup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     map[string]any
		ok      bool
		code    codes.Code
		message string
	}{
		{name: "created", req: map[string]any{"email": "a@x.com", "password": "password1", "name": "Ada"}, ok: true},
		{name: "short password", req: map[string]any{"email": "a@x.com", "password": "short", "name": "Ada"}, code: codes.InvalidArgument},
		{name: "bad email", req: map[string]any{"email": "ada", "password": "password1", "name": "Ada"}, code: codes.InvalidArgument},
		{name: "missing name", req: map[string]any{"email": "a@x.com", "password": "password1"}, code: codes.InvalidArgument},
		{
			name:    "persistence failure",
			req:     map[string]any{"email": "a@x.com", "password": "password1", "name": "Ada"},
			code:    codes.Internal,
			message: "An error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewSessionService(t)
			tokens := mocks.NewTokenManager(t)
			if tt.code != codes.InvalidArgument {
				svc.On("Signup", mock.Anything, "a@x.com", "password1", "Ada").Return(tt.ok)
			}
			if tt.ok {
				svc.On("Snapshot").Return(model.SessionState{Identity: &student})
				tokens.On("GenerateAccessToken", student).Return("tok", nil)
			}

			h := NewSession(svc, tokens, mocks.NewContextManager(t), testutil.MakeNoopLogger())
			out, err := h.Signup(context.Background(), mustStruct(t, tt.req))
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "tok", out.Fields["access_token"].GetStringValue())
				return
			}
			st := requireCode(t, err, tt.code)
			if tt.message != "" {
				assert.Equal(t, tt.message, st.Message())
			}
		})
	}
}

func TestSession_SetRole(t *testing.T) {
	t.Parallel()

	tutor := student
	tutor.Role = model.RoleTutor
	tutor.Onboarding = model.Onboarded

	tests := []struct {
		name   string
		role   string
		authed bool
		setup  func(svc *mocks.SessionService, tokens *mocks.TokenManager)
		code   codes.Code
		screen string
	}{
		{
			name:   "tutor selected",
			role:   "tutor",
			authed: true,
			setup: func(svc *mocks.SessionService, tokens *mocks.TokenManager) {
				svc.On("Authorize", student.ID).Return(nil)
				svc.On("SetRole", mock.Anything, model.RoleTutor).Return(nil)
				svc.On("Snapshot").Return(model.SessionState{Identity: &tutor})
				tokens.On("GenerateAccessToken", tutor).Return("tok2", nil)
			},
			code:   codes.OK,
			screen: "tutor_dashboard",
		},
		{
			name:   "admin is not selectable",
			role:   "admin",
			authed: true,
			setup:  func(*mocks.SessionService, *mocks.TokenManager) {},
			code:   codes.InvalidArgument,
		},
		{
			name:  "no identity in context",
			role:  "tutor",
			setup: func(*mocks.SessionService, *mocks.TokenManager) {},
			code:  codes.Unauthenticated,
		},
		{
			name:   "token of a previous identity",
			role:   "student",
			authed: true,
			setup: func(svc *mocks.SessionService, _ *mocks.TokenManager) {
				svc.On("Authorize", student.ID).Return(model.ErrStaleToken)
			},
			code: codes.PermissionDenied,
		},
		{
			name:   "persistence failure",
			role:   "student",
			authed: true,
			setup: func(svc *mocks.SessionService, _ *mocks.TokenManager) {
				svc.On("Authorize", student.ID).Return(nil)
				svc.On("SetRole", mock.Anything, model.RoleStudent).Return(errors.New("disk full"))
			},
			code: codes.Internal,
		},
		{
			name:   "no session is a no-op",
			role:   "student",
			authed: true,
			setup: func(svc *mocks.SessionService, _ *mocks.TokenManager) {
				svc.On("Authorize", student.ID).Return(nil)
				svc.On("SetRole", mock.Anything, model.RoleStudent).Return(nil)
				svc.On("Snapshot").Return(model.SessionState{})
			},
			code:   codes.OK,
			screen: "entry",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewSessionService(t)
			tokens := mocks.NewTokenManager(t)
			cm := mocks.NewContextManager(t)
			tt.setup(svc, tokens)
			if tt.code != codes.InvalidArgument {
				cm.On("GetIdentityIDFromContext", mock.Anything).Return(student.ID, tt.authed)
			}

			h := NewSession(svc, tokens, cm, testutil.MakeNoopLogger())
			out, err := h.SetRole(context.Background(), mustStruct(t, map[string]any{"role": tt.role}))
			if tt.code != codes.OK {
				requireCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.screen, out.Fields["session"].GetStructValue().Fields["screen"].GetStringValue())
		})
	}
}

func TestSession_Logout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		authorize error
		logout    error
		code      codes.Code
	}{
		{name: "ok", code: codes.OK},
		{name: "stale token", authorize: model.ErrStaleToken, code: codes.PermissionDenied},
		{name: "erase failure", logout: errors.New("read-only"), code: codes.Internal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewSessionService(t)
			cm := mocks.NewContextManager(t)
			cm.On("GetIdentityIDFromContext", mock.Anything).Return(student.ID, true)
			svc.On("Authorize", student.ID).Return(tt.authorize)
			if tt.authorize == nil {
				svc.On("Logout", mock.Anything).Return(tt.logout)
			}

			h := NewSession(svc, mocks.NewTokenManager(t), cm, testutil.MakeNoopLogger())
			out, err := h.Logout(context.Background(), &emptypb.Empty{})
			if tt.code == codes.OK {
				require.NoError(t, err)
				assert.NotNil(t, out)
				return
			}
			requireCode(t, err, tt.code)
		})
	}
}

func TestSession_Current(t *testing.T) {
	svc := mocks.NewSessionService(t)
	svc.On("Snapshot").Return(model.SessionState{Loading: true})

	h := NewSession(svc, mocks.NewTokenManager(t), mocks.NewContextManager(t), testutil.MakeNoopLogger())
	out, err := h.Current(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	assert.Equal(t, "loading", out.Fields["screen"].GetStringValue())
	assert.True(t, out.Fields["loading"].GetBoolValue())
	_, isNull := out.Fields["identity"].GetKind().(*structpb.Value_NullValue)
	assert.True(t, isNull)
}
