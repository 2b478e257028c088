package mocks

import (
	"context"
	"io"

	"assetapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, filename string, private bool) (storage.UploadResult, error) {
	args := m.Called(ctx, r, size, contentType, filename, private)
	if f, ok := args.Get(0).(func(context.Context, io.Reader, int64, string, string, bool) storage.UploadResult); ok {
		return f(ctx, r, size, contentType, filename, private), args.Error(1)
	}
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string, private bool) error {
	args := m.Called(ctx, key, private)
	return args.Error(0)
}
