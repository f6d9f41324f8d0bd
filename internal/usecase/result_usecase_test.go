package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/plastinin/renderclient/internal/domain"
	"github.com/plastinin/renderclient/internal/usecase/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func resultFile(name, body string) func(context.Context, string) *domain.ResultFile {
	return func(context.Context, string) *domain.ResultFile {
		return &domain.ResultFile{
			Name:        name,
			ContentType: "image/png",
			Size:        int64(len(body)),
			Content:     io.NopCloser(strings.NewReader(body)),
		}
	}
}

func TestResultUseCase_Fetch(t *testing.T) {
	ctx := context.Background()
	downloader := new(mocks.MockResultDownloader)
	store := new(mocks.MockResultStore)
	rec := &fakeRecorder{}

	downloader.On("Download", mock.Anything, "http://svc/r/a.png").Return(resultFile("a.png", "aaa"), nil)
	downloader.On("Download", mock.Anything, "http://svc/r/b.png").Return(resultFile("b.png", "bb"), nil)
	store.On("Save", mock.Anything, "a.png", "image/png", mock.Anything, int64(3)).Return("out/a.png", nil)
	store.On("Save", mock.Anything, "b.png", "image/png", mock.Anything, int64(2)).Return("out/b.png", nil)

	uc := NewResultUseCase(downloader, store, rec, 2, zap.NewNop())

	results, err := uc.Fetch(ctx, []string{"http://svc/r/a.png", "http://svc/r/b.png"})
	require.NoError(t, err)

	assert.Equal(t, []FetchedResult{
		{URL: "http://svc/r/a.png", Location: "out/a.png"},
		{URL: "http://svc/r/b.png", Location: "out/b.png"},
	}, results)
	assert.Equal(t, 2, rec.fetched)
	downloader.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestResultUseCase_Fetch_Empty(t *testing.T) {
	uc := NewResultUseCase(new(mocks.MockResultDownloader), new(mocks.MockResultStore), nil, 0, zap.NewNop())

	_, err := uc.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoResults)
}

func TestResultUseCase_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(d *mocks.MockResultDownloader, s *mocks.MockResultStore)
		wantErrMsg string
	}{
		{
			name: "download error",
			setupMocks: func(d *mocks.MockResultDownloader, s *mocks.MockResultStore) {
				d.On("Download", mock.Anything, mock.Anything).Return(nil, errors.New("404"))
			},
			wantErrMsg: "failed to download http://svc/r/a.png: 404",
		},
		{
			name: "store error",
			setupMocks: func(d *mocks.MockResultDownloader, s *mocks.MockResultStore) {
				d.On("Download", mock.Anything, mock.Anything).Return(resultFile("a.png", "x"), nil)
				s.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", errors.New("disk full"))
			},
			wantErrMsg: "failed to save a.png: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downloader := new(mocks.MockResultDownloader)
			store := new(mocks.MockResultStore)
			tt.setupMocks(downloader, store)
			rec := &fakeRecorder{}

			uc := NewResultUseCase(downloader, store, rec, 1, zap.NewNop())
			_, err := uc.Fetch(context.Background(), []string{"http://svc/r/a.png"})

			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErrMsg)
			assert.Zero(t, rec.fetched)
		})
	}
}
