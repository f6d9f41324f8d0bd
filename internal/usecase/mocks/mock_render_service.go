package mocks

import (
	"context"

	"github.com/plastinin/renderclient/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRenderService struct {
	mock.Mock
}

func (m *MockRenderService) Upload(ctx context.Context, file *domain.SelectedFile) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

func (m *MockRenderService) Status(ctx context.Context, jobID string) (*domain.JobReport, error) {
	args := m.Called(ctx, jobID)
	if f, ok := args.Get(0).(func(context.Context, string) *domain.JobReport); ok {
		return f(ctx, jobID), args.Error(1)
	}
	report, _ := args.Get(0).(*domain.JobReport)
	return report, args.Error(1)
}

func (m *MockRenderService) ResultURL(path string) string {
	args := m.Called(path)
	return args.String(0)
}
