package mocks

import (
	mock "github.com/stretchr/testify/mock"

	"github.com/signpath/signpath-server/internal/model"
)

// TokenManager is a mock type for the TokenManager type
type TokenManager struct {
	mock.Mock
}

// GenerateAccessToken provides a mock function with given fields: identity
func (_m *TokenManager) GenerateAccessToken(identity model.Identity) (string, error) {
	ret := _m.Called(identity)
	return ret.String(0), ret.Error(1)
}

// ParseAccessToken provides a mock function with given fields: token
func (_m *TokenManager) ParseAccessToken(token string) (model.TokenClaims, error) {
	ret := _m.Called(token)

	var r0 model.TokenClaims
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.TokenClaims)
	}

	return r0, ret.Error(1)
}

// NewTokenManager creates a new instance of TokenManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
