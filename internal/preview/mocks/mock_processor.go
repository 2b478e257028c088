package mocks

import (
	"assetapi/internal/preview"

	"github.com/stretchr/testify/mock"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Decode(b []byte) (preview.Meta, error) {
	args := m.Called(b)
	return args.Get(0).(preview.Meta), args.Error(1)
}

func (m *MockProcessor) Resize(b []byte, maxWidth int) ([]byte, error) {
	args := m.Called(b, maxWidth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
