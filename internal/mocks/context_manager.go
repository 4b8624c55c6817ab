package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// ContextManager is a mock type for the ContextManager type
type ContextManager struct {
	mock.Mock
}

// SetIdentityIDToContext provides a mock function with given fields: ctx, identityID
func (_m *ContextManager) SetIdentityIDToContext(ctx context.Context, identityID string) context.Context {
	ret := _m.Called(ctx, identityID)

	var r0 context.Context
	if rf, ok := ret.Get(0).(func(context.Context, string) context.Context); ok {
		r0 = rf(ctx, identityID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(context.Context)
	}

	return r0
}

// GetIdentityIDFromContext provides a mock function with given fields: ctx
func (_m *ContextManager) GetIdentityIDFromContext(ctx context.Context) (string, bool) {
	ret := _m.Called(ctx)
	return ret.String(0), ret.Bool(1)
}

// NewContextManager creates a new instance of ContextManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
