package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	"github.com/signpath/signpath-server/internal/model"
)

// SessionService is a mock type for the SessionService type
type SessionService struct {
	mock.Mock
}

// Login provides a mock function with given fields: ctx, email, password
func (_m *SessionService) Login(ctx context.Context, email string, password string) bool {
	ret := _m.Called(ctx, email, password)
	return ret.Bool(0)
}

// Signup provides a mock function with given fields: ctx, email, password, name
func (_m *SessionService) Signup(ctx context.Context, email string, password string, name string) bool {
	ret := _m.Called(ctx, email, password, name)
	return ret.Bool(0)
}

// SetRole provides a mock function with given fields: ctx, role
func (_m *SessionService) SetRole(ctx context.Context, role model.Role) error {
	ret := _m.Called(ctx, role)
	return ret.Error(0)
}

// Logout provides a mock function with given fields: ctx
func (_m *SessionService) Logout(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// Authorize provides a mock function with given fields: identityID
func (_m *SessionService) Authorize(identityID string) error {
	ret := _m.Called(identityID)
	return ret.Error(0)
}

// Snapshot provides a mock function with given fields:
func (_m *SessionService) Snapshot() model.SessionState {
	ret := _m.Called()

	var r0 model.SessionState
	if rf, ok := ret.Get(0).(func() model.SessionState); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.SessionState)
	}

	return r0
}

// NewSessionService creates a new instance of SessionService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSessionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionService {
	m := &SessionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
