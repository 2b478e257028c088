package mocks

import (
	"context"

	"assetapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) Upload(ctx context.Context, scope model.Scope, file model.File, private bool, name string) (*model.Asset, error) {
	args := m.Called(ctx, scope, file, private, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) UploadMany(ctx context.Context, scope model.Scope, files []model.File, private bool) []model.Asset {
	args := m.Called(ctx, scope, files, private)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Asset)
}

func (m *MockAssetService) List(ctx context.Context, scope model.Scope) ([]model.Asset, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Asset), args.Error(1)
}

func (m *MockAssetService) Get(ctx context.Context, id string, scope model.Scope) (*model.Asset, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) Delete(ctx context.Context, scope model.Scope, id string) error {
	args := m.Called(ctx, scope, id)
	return args.Error(0)
}
