package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// RecordStore is a mock type for the RecordStore type
type RecordStore struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx
func (_m *RecordStore) Get(ctx context.Context) ([]byte, error) {
	ret := _m.Called(ctx)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context) []byte); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// Put provides a mock function with given fields: ctx, payload
func (_m *RecordStore) Put(ctx context.Context, payload []byte) error {
	ret := _m.Called(ctx, payload)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx
func (_m *RecordStore) Delete(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewRecordStore creates a new instance of RecordStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRecordStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RecordStore {
	m := &RecordStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
