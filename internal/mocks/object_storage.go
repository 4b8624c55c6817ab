package mocks

import (
	"context"
	"io"

	mock "github.com/stretchr/testify/mock"
)

// ObjectStorage is a mock type for the ObjectStorage type
type ObjectStorage struct {
	mock.Mock
}

// Upload provides a mock function with given fields: ctx, key, reader, size
func (_m *ObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64) error {
	ret := _m.Called(ctx, key, reader, size)
	return ret.Error(0)
}

// Download provides a mock function with given fields: ctx, key
func (_m *ObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ret := _m.Called(ctx, key)

	var r0 io.ReadCloser
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, key
func (_m *ObjectStorage) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

// Exists provides a mock function with given fields: ctx, key
func (_m *ObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}

// NewObjectStorage creates a new instance of ObjectStorage. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewObjectStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *ObjectStorage {
	m := &ObjectStorage{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
