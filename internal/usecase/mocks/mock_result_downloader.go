package mocks

import (
	"context"

	"github.com/plastinin/renderclient/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockResultDownloader struct {
	mock.Mock
}

func (m *MockResultDownloader) Download(ctx context.Context, rawURL string) (*domain.ResultFile, error) {
	args := m.Called(ctx, rawURL)
	if f, ok := args.Get(0).(func(context.Context, string) *domain.ResultFile); ok {
		return f(ctx, rawURL), args.Error(1)
	}
	file, _ := args.Get(0).(*domain.ResultFile)
	return file, args.Error(1)
}
