package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/metrics"
	"github.com/signpath/signpath-server/internal/model"
)

const (
	adminID   = "1"
	adminName = "Admin User"
)

// Admin is the reserved administrator login.
type Admin struct {
	Email  string
	Secret string
}

// StateReader is the read side of a Session handed to consumers.
type StateReader interface {
	Snapshot() model.SessionState
	Subscribe(fn func(model.SessionState)) (unsubscribe func())
}

var _ StateReader = (*Session)(nil)

// Session owns the current identity of this application instance and its
// durable record. It is the only writer of session state.
type Session struct {
	store  model.RecordStore
	admin  Admin
	logger *logger.Logger
	now    func() time.Time
	newID  func() (string, error)

	mu    sync.RWMutex
	state model.SessionState

	subsMu  sync.Mutex
	subs    map[int]func(model.SessionState)
	nextSub int
}

// NewSession creates a Session in the loading state. Call Initialize before use.
func NewSession(store model.RecordStore, admin Admin, logger *logger.Logger) *Session {
	return &Session{
		store:  store,
		admin:  admin,
		logger: logger,
		now:    defaultClock,
		newID:  newIdentityID,
		state:  model.SessionState{Loading: true},
		subs:   make(map[int]func(model.SessionState)),
	}
}

func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func newIdentityID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate identity id: %w", err)
	}
	return id.String(), nil
}

// Initialize re-hydrates the session from the durable record. A missing,
// unreadable or malformed record leaves the session anonymous.
func (s *Session) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.state = model.SessionState{Loading: true}

	identity := s.load(ctx)

	s.state = model.SessionState{Identity: identity}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.SetAuthenticated(identity != nil)
	s.notify(snapshot)
}

func (s *Session) load(ctx context.Context) *model.Identity {
	payload, err := s.store.Get(ctx)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Debug("Session service: no durable record, starting anonymous")
		return nil
	}
	if err != nil {
		metrics.RecordStoreError("get")
		s.logger.Warn("Session service: failed to read durable record, starting anonymous",
			"error", err.Error())
		return nil
	}

	identity, err := model.DecodeIdentity(payload)
	if err != nil {
		s.logger.Warn("Session service: discarding malformed durable record",
			"error", err.Error())
		return nil
	}

	s.logger.Info("Session service: session restored",
		"identity_id", identity.ID,
		"role", identity.Role)

	return &identity
}

// Login makes a new identity current. The reserved administrator credentials
// produce the admin identity; any other pair produces a provisional student.
// Non-admin passwords are not verified.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	s.logger.Debug("Session service: login", "email", email)

	var identity model.Identity
	if s.isAdmin(email, password) {
		identity = model.Identity{
			ID:         adminID,
			Email:      email,
			Role:       model.RoleAdmin,
			Name:       adminName,
			CreatedAt:  s.now(),
			Onboarding: model.Onboarded,
		}
	} else {
		id, err := s.newID()
		if err != nil {
			s.logger.Error("Session service: login failed", "email", email, "error", err.Error())
			metrics.RecordTransition("login", metrics.OutcomeFailure)
			return false
		}
		name, _, _ := strings.Cut(email, "@")
		identity = model.Identity{
			ID:         id,
			Email:      email,
			Role:       model.RoleStudent,
			Name:       name,
			CreatedAt:  s.now(),
			Onboarding: model.Unonboarded,
		}
	}

	if err := s.replace(ctx, identity); err != nil {
		s.logger.Error("Session service: login failed",
			"email", email,
			"error", err.Error())
		metrics.RecordTransition("login", metrics.OutcomeFailure)
		return false
	}

	s.logger.Info("Session service: logged in",
		"identity_id", identity.ID,
		"role", identity.Role)
	metrics.RecordTransition("login", metrics.OutcomeSuccess)

	return true
}

// Signup makes a freshly created student identity current. Password length
// is checked by callers.
func (s *Session) Signup(ctx context.Context, email, password, name string) bool {
	s.logger.Debug("Session service: signup", "email", email)

	id, err := s.newID()
	if err != nil {
		s.logger.Error("Session service: signup failed", "email", email, "error", err.Error())
		metrics.RecordTransition("signup", metrics.OutcomeFailure)
		return false
	}

	identity := model.Identity{
		ID:         id,
		Email:      email,
		Role:       model.RoleStudent,
		Name:       name,
		CreatedAt:  s.now(),
		Onboarding: model.Unonboarded,
	}

	if err := s.replace(ctx, identity); err != nil {
		s.logger.Error("Session service: signup failed",
			"email", email,
			"error", err.Error())
		metrics.RecordTransition("signup", metrics.OutcomeFailure)
		return false
	}

	s.logger.Info("Session service: signed up", "identity_id", identity.ID)
	metrics.RecordTransition("signup", metrics.OutcomeSuccess)

	return true
}

// SetRole assigns a selectable role to the current identity and completes
// onboarding. Without a current identity it does nothing.
func (s *Session) SetRole(ctx context.Context, role model.Role) error {
	if !role.Selectable() {
		return fmt.Errorf("%w: %q", model.ErrInvalidRole, role)
	}

	s.mu.Lock()
	if s.state.Identity == nil {
		s.mu.Unlock()
		s.logger.Debug("Session service: role selection without session ignored", "role", role)
		metrics.RecordTransition("set_role", metrics.OutcomeNoop)
		return nil
	}

	updated := s.state.Identity.Clone()
	updated.Role = role
	updated.Onboarding = model.Onboarded

	if err := s.persistLocked(ctx, updated); err != nil {
		s.mu.Unlock()
		metrics.RecordTransition("set_role", metrics.OutcomeFailure)
		return fmt.Errorf("failed to set role: %w", err)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("Session service: role selected",
		"identity_id", updated.ID,
		"role", role)
	metrics.RecordTransition("set_role", metrics.OutcomeSuccess)
	s.notify(snapshot)

	return nil
}

// Logout clears the current identity and erases the durable record.
// The in-memory session is cleared even when the erase fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	previous := s.state.Identity
	s.state = model.SessionState{}
	err := s.store.Delete(ctx)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.SetAuthenticated(false)
	s.notify(snapshot)

	if err != nil {
		metrics.RecordStoreError("delete")
		metrics.RecordTransition("logout", metrics.OutcomeFailure)
		s.logger.Error("Session service: failed to erase durable record", "error", err.Error())
		return fmt.Errorf("failed to delete durable record: %w", err)
	}

	if previous == nil {
		metrics.RecordTransition("logout", metrics.OutcomeNoop)
		return nil
	}

	s.logger.Info("Session service: logged out", "identity_id", previous.ID)
	metrics.RecordTransition("logout", metrics.OutcomeSuccess)

	return nil
}

// Authorize checks that a token subject still names the current identity.
// With no current identity every subject passes, so idempotent calls stay no-ops.
func (s *Session) Authorize(identityID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Identity == nil || s.state.Identity.ID == identityID {
		return nil
	}
	return model.ErrStaleToken
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// Subscribe registers fn to be called with the state after every transition.
func (s *Session) Subscribe(fn func(model.SessionState)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Session) replace(ctx context.Context, identity model.Identity) error {
	s.mu.Lock()
	if err := s.persistLocked(ctx, identity); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.SetAuthenticated(true)
	s.notify(snapshot)

	return nil
}

// persistLocked writes identity to the store and, only on success, makes it current.
func (s *Session) persistLocked(ctx context.Context, identity model.Identity) error {
	payload, err := model.EncodeIdentity(identity)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, payload); err != nil {
		metrics.RecordStoreError("put")
		return fmt.Errorf("failed to write durable record: %w", err)
	}

	s.state = model.SessionState{Identity: &identity}
	return nil
}

func (s *Session) snapshotLocked() model.SessionState {
	out := model.SessionState{Loading: s.state.Loading}
	if s.state.Identity != nil {
		identity := s.state.Identity.Clone()
		out.Identity = &identity
	}
	return out
}

func (s *Session) notify(state model.SessionState) {
	s.subsMu.Lock()
	fns := make([]func(model.SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *Session) isAdmin(email, password string) bool {
	if s.admin.Email == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Secret)) == 1
	return emailOK && secretOK
}
