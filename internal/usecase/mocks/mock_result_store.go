package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) Save(ctx context.Context, name string, contentType string, reader io.Reader, size int64) (string, error) {
	args := m.Called(ctx, name, contentType, reader, size)
	return args.String(0), args.Error(1)
}
