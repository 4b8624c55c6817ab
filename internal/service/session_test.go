package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/signpath/signpath-server/internal/mocks"
	"github.com/signpath/signpath-server/internal/model"
	"github.com/signpath/signpath-server/internal/storage/file"
	"github.com/signpath/signpath-server/internal/testutil"
)

var testAdmin = Admin{Email: "admin@signpath.com", Secret: "admin123"}

func newFileSession(t *testing.T) (*Session, *file.Store) {
	t.Helper()

	store := file.NewStore(filepath.Join(t.TempDir(), "signpath_user.json"))
	s := NewSession(store, testAdmin, testutil.MakeNoopLogger())
	s.Initialize(context.Background())

	return s, store
}

// reload simulates an application restart over the same durable record.
func reload(t *testing.T, store model.RecordStore) model.SessionState {
	t.Helper()

	s := NewSession(store, testAdmin, testutil.MakeNoopLogger())
	s.Initialize(context.Background())

	return s.Snapshot()
}

func TestSession_NewSession_Loading(t *testing.T) {
	s := NewSession(mocks.NewRecordStore(t), testAdmin, testutil.MakeNoopLogger())

	state := s.Snapshot()
	assert.True(t, state.Loading)
	assert.Nil(t, state.Identity)
	assert.Equal(t, model.ScreenLoading, Route(state))
}

func TestSession_Initialize(t *testing.T) {
	t.Parallel()

	stored := model.Identity{
		ID:         "0190f1e2-aaaa-7bbb-8ccc-000000000001",
		Email:      "ada@example.com",
		Role:       model.RoleTutor,
		Name:       "Ada",
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Onboarding: model.Onboarded,
	}
	payload, err := model.EncodeIdentity(stored)
	require.NoError(t, err)

	tests := []struct {
		name     string
		payload  []byte
		err      error
		wantNone bool
	}{
		{name: "record present", payload: payload},
		{name: "no record", err: model.ErrNotFound, wantNone: true},
		{name: "unreadable record", err: errors.New("permission denied"), wantNone: true},
		{name: "not json", payload: []byte("{broken"), wantNone: true},
		{name: "wrong shape", payload: []byte(`{"id":"x","role":"wizard"}`), wantNone: true},
		{name: "null", payload: []byte("null"), wantNone: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewRecordStore(t)
			store.On("Get", mock.Anything).Return(tt.payload, tt.err)

			s := NewSession(store, testAdmin, testutil.MakeNoopLogger())
			s.Initialize(context.Background())

			state := s.Snapshot()
			assert.False(t, state.Loading)
			if tt.wantNone {
				assert.Nil(t, state.Identity)
				return
			}
			require.NotNil(t, state.Identity)
			assert.Equal(t, stored, *state.Identity)
		})
	}
}

func TestSession_Signup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email    string
		password string
		name     string
	}{
		{email: "a@x.com", password: "password1", name: "Ada"},
		{email: "grace@navy.mil", password: "cobol-forever", name: "Grace Hopper"},
		{email: "x@y.z", password: "12345678", name: "X"},
		{email: "", password: "password1", name: "No Email"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			s, store := newFileSession(t)
			require.True(t, s.Signup(context.Background(), tt.email, tt.password, tt.name))

			state := s.Snapshot()
			require.NotNil(t, state.Identity)
			assert.Equal(t, model.RoleStudent, state.Identity.Role)
			assert.Nil(t, state.Identity.Profile)
			assert.Equal(t, tt.name, state.Identity.Name)
			assert.Equal(t, tt.email, state.Identity.Email)
			assert.Equal(t, model.Unonboarded, state.Identity.Onboarding)

			payload, err := store.Get(context.Background())
			require.NoError(t, err)
			persisted, err := model.DecodeIdentity(payload)
			require.NoError(t, err)
			assert.Equal(t, *state.Identity, persisted)
		})
	}
}

func TestSession_Signup_FreshIDs(t *testing.T) {
	s, _ := newFileSession(t)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		require.True(t, s.Signup(context.Background(), "a@x.com", "password1", "Ada"))
		id := s.Snapshot().Identity.ID
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestSession_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		wantRole model.Role
		wantName string
		wantID   string
	}{
		{
			name:     "admin credentials",
			email:    testAdmin.Email,
			password: testAdmin.Secret,
			wantRole: model.RoleAdmin,
			wantName: adminName,
			wantID:   adminID,
		},
		{
			name:     "admin email with wrong secret",
			email:    testAdmin.Email,
			password: "guess",
			wantRole: model.RoleStudent,
			wantName: "admin",
		},
		{
			name:     "any other pair",
			email:    "lin@example.com",
			password: "x",
			wantRole: model.RoleStudent,
			wantName: "lin",
		},
		{
			name:     "email without at sign",
			email:    "nobody",
			password: "",
			wantRole: model.RoleStudent,
			wantName: "nobody",
		},
		{
			name:     "empty email",
			email:    "",
			password: "whatever",
			wantRole: model.RoleStudent,
			wantName: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newFileSession(t)
			require.True(t, s.Login(context.Background(), tt.email, tt.password))

			got := s.Snapshot().Identity
			require.NotNil(t, got)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Nil(t, got.Profile)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}

func TestSession_Login_AdminRegardlessOfPriorState(t *testing.T) {
	s, _ := newFileSession(t)
	ctx := context.Background()

	require.True(t, s.Signup(ctx, "a@x.com", "password1", "Ada"))
	require.NoError(t, s.SetRole(ctx, model.RoleTutor))
	require.True(t, s.Login(ctx, testAdmin.Email, testAdmin.Secret))

	got := s.Snapshot()
	assert.Equal(t, model.RoleAdmin, got.Identity.Role)
	assert.Equal(t, model.ScreenAdminDashboard, Route(got))
}

func TestSession_Login_EmptyAdminNeverMatches(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "rec.json"))
	s := NewSession(store, Admin{}, testutil.MakeNoopLogger())
	s.Initialize(context.Background())

	require.True(t, s.Login(context.Background(), "", ""))
	assert.Equal(t, model.RoleStudent, s.Snapshot().Identity.Role)
}

func TestSession_WriteFailureKeepsPriorState(t *testing.T) {
	t.Parallel()

	prior := model.Identity{
		ID:         "prior",
		Email:      "p@x.com",
		Role:       model.RoleStudent,
		Name:       "p",
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Onboarding: model.Unonboarded,
	}
	payload, err := model.EncodeIdentity(prior)
	require.NoError(t, err)

	tests := []struct {
		name string
		call func(s *Session) bool
	}{
		{name: "login", call: func(s *Session) bool { return s.Login(context.Background(), "b@x.com", "pw") }},
		{name: "admin login", call: func(s *Session) bool {
			return s.Login(context.Background(), testAdmin.Email, testAdmin.Secret)
		}},
		{name: "signup", call: func(s *Session) bool {
			return s.Signup(context.Background(), "b@x.com", "password1", "B")
		}},
		{name: "set role", call: func(s *Session) bool {
			return s.SetRole(context.Background(), model.RoleTutor) == nil
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewRecordStore(t)
			store.On("Get", mock.Anything).Return(payload, nil)
			store.On("Put", mock.Anything, mock.Anything).Return(errors.New("disk full"))

			s := NewSession(store, testAdmin, testutil.MakeNoopLogger())
			s.Initialize(context.Background())

			var notified int
			s.Subscribe(func(model.SessionState) { notified++ })

			assert.False(t, tt.call(s))
			require.NotNil(t, s.Snapshot().Identity)
			assert.Equal(t, prior, *s.Snapshot().Identity)
			assert.Zero(t, notified)
		})
	}
}

func TestSession_IDGenerationFailure(t *testing.T) {
	store := mocks.NewRecordStore(t)
	store.On("Get", mock.Anything).Return(nil, model.ErrNotFound)

	s := NewSession(store, testAdmin, testutil.MakeNoopLogger())
	s.newID = func() (string, error) { return "", errors.New("entropy exhausted") }
	s.Initialize(context.Background())

	assert.False(t, s.Login(context.Background(), "a@x.com", "pw"))
	assert.False(t, s.Signup(context.Background(), "a@x.com", "password1", "Ada"))
	assert.Nil(t, s.Snapshot().Identity)
}

func TestSession_SetRole_ChangesOnlyRole(t *testing.T) {
	s, store := newFileSession(t)
	ctx := context.Background()

	require.True(t, s.Signup(ctx, "a@x.com", "password1", "Ada"))
	before := *s.Snapshot().Identity

	require.NoError(t, s.SetRole(ctx, model.RoleTutor))
	after := *s.Snapshot().Identity

	assert.Equal(t, model.RoleTutor, after.Role)
	assert.Equal(t, model.Onboarded, after.Onboarding)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Nil(t, after.Profile)

	restored := reload(t, store)
	require.NotNil(t, restored.Identity)
	assert.Equal(t, after, *restored.Identity)
	assert.Equal(t, model.ScreenTutorDashboard, Route(restored))
}

func TestSession_SetRole_WithoutSession(t *testing.T) {
	s, store := newFileSession(t)

	require.NoError(t, s.SetRole(context.Background(), model.RoleTutor))
	assert.Nil(t, s.Snapshot().Identity)
	assert.Nil(t, reload(t, store).Identity)
}

func TestSession_SetRole_RejectsUnselectable(t *testing.T) {
	t.Parallel()

	for _, role := range []model.Role{model.RoleAdmin, "", "wizard"} {
		role := role
		t.Run(fmt.Sprintf("role %q", role), func(t *testing.T) {
			t.Parallel()

			s, _ := newFileSession(t)
			require.True(t, s.Signup(context.Background(), "a@x.com", "password1", "Ada"))

			err := s.SetRole(context.Background(), role)
			assert.ErrorIs(t, err, model.ErrInvalidRole)
			assert.Equal(t, model.RoleStudent, s.Snapshot().Identity.Role)
		})
	}
}

func TestSession_Logout(t *testing.T) {
	s, store := newFileSession(t)
	ctx := context.Background()

	require.True(t, s.Login(ctx, "a@x.com", "pw"))
	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.Snapshot().Identity)

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Nil(t, reload(t, store).Identity)

	require.NoError(t, s.Logout(ctx))
}

func TestSession_Logout_DeleteFailure(t *testing.T) {
	store := mocks.NewRecordStore(t)
	store.On("Get", mock.Anything).Return(nil, model.ErrNotFound)
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	store.On("Delete", mock.Anything).Return(errors.New("read-only filesystem"))

	s := NewSession(store, testAdmin, testutil.MakeNoopLogger())
	s.Initialize(context.Background())
	require.True(t, s.Login(context.Background(), "a@x.com", "pw"))

	err := s.Logout(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only filesystem")
	assert.Nil(t, s.Snapshot().Identity)
}

func TestSession_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		do   func(s *Session) bool
	}{
		{name: "admin login", do: func(s *Session) bool {
			return s.Login(context.Background(), testAdmin.Email, testAdmin.Secret)
		}},
		{name: "student login", do: func(s *Session) bool { return s.Login(context.Background(), "kim@x.com", "pw") }},
		{name: "signup", do: func(s *Session) bool {
			return s.Signup(context.Background(), "kim@x.com", "password1", "Kim Lee")
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, store := newFileSession(t)
			require.True(t, tt.do(s))

			want := s.Snapshot()
			got := reload(t, store)
			require.NotNil(t, got.Identity)
			assert.Equal(t, *want.Identity, *got.Identity)
			assert.Equal(t, Route(want), Route(got))
		})
	}
}

func TestSession_Scenario(t *testing.T) {
	s, store := newFileSession(t)
	ctx := context.Background()

	require.True(t, s.Signup(ctx, "a@x.com", "password1", "Ada"))
	state := s.Snapshot()
	assert.Equal(t, model.RoleStudent, state.Identity.Role)
	assert.Nil(t, state.Identity.Profile)
	assert.Equal(t, model.ScreenRoleSelection, Route(state))

	require.NoError(t, s.SetRole(ctx, model.RoleTutor))
	state = s.Snapshot()
	assert.Equal(t, model.RoleTutor, state.Identity.Role)
	assert.Nil(t, state.Identity.Profile)

	require.NoError(t, s.Logout(ctx))
	restored := reload(t, store)
	assert.Nil(t, restored.Identity)
	assert.Equal(t, model.ScreenEntry, Route(restored))
}

func TestSession_SnapshotIsCopy(t *testing.T) {
	s, _ := newFileSession(t)
	require.True(t, s.Signup(context.Background(), "a@x.com", "password1", "Ada"))

	snap := s.Snapshot()
	snap.Identity.Role = model.RoleAdmin
	snap.Identity.Name = "Mallory"

	got := s.Snapshot().Identity
	assert.Equal(t, model.RoleStudent, got.Role)
	assert.Equal(t, "Ada", got.Name)
}

func TestSession_Subscribe(t *testing.T) {
	s, _ := newFileSession(t)
	ctx := context.Background()

	var screens []model.Screen
	unsubscribe := s.Subscribe(func(state model.SessionState) {
		screens = append(screens, Route(state))
	})

	require.True(t, s.Signup(ctx, "a@x.com", "password1", "Ada"))
	require.NoError(t, s.SetRole(ctx, model.RoleStudent))
	require.NoError(t, s.Logout(ctx))

	unsubscribe()
	require.True(t, s.Login(ctx, "a@x.com", "pw"))

	assert.Equal(t, []model.Screen{
		model.ScreenRoleSelection,
		model.ScreenStudentDashboard,
		model.ScreenEntry,
	}, screens)
}

func TestSession_Authorize(t *testing.T) {
	s, _ := newFileSession(t)

	assert.NoError(t, s.Authorize("anything"))

	require.True(t, s.Login(context.Background(), testAdmin.Email, testAdmin.Secret))
	assert.NoError(t, s.Authorize(adminID))
	assert.ErrorIs(t, s.Authorize("someone-else"), model.ErrStaleToken)
}

func TestSession_ConcurrentMutations(t *testing.T) {
	s, store := newFileSession(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				s.Signup(ctx, "a@x.com", "password1", "Ada")
			case 1:
				_ = s.SetRole(ctx, model.RoleTutor)
			case 2:
				s.Login(ctx, "b@x.com", "pw")
			default:
				_ = s.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	// The durable record always mirrors the in-memory session.
	current := s.Snapshot()
	restored := reload(t, store)
	assert.Equal(t, current.Identity, restored.Identity)
}
