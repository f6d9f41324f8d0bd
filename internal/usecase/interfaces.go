package usecase

import (
	"context"
	"io"

	"github.com/plastinin/renderclient/internal/domain"
)

// RenderService интерфейс для работы с внешним Render Service
type RenderService interface {
	Upload(ctx context.Context, file *domain.SelectedFile) (jobID string, err error)
	Status(ctx context.Context, jobID string) (*domain.JobReport, error)
	ResultURL(path string) string
}

// ResultDownloader скачивает результаты по абсолютной ссылке
type ResultDownloader interface {
	Download(ctx context.Context, rawURL string) (*domain.ResultFile, error)
}

// ResultStore интерфейс для сохранения скачанных результатов (диск или S3)
type ResultStore interface {
	Save(ctx context.Context, name string, contentType string, reader io.Reader, size int64) (location string, err error)
}

// Recorder интерфейс для сбора метрик клиента
type Recorder interface {
	UploadFinished(ok bool)
	PollFinished(outcome string)
	JobFinished(status domain.JobStatus)
	ResultsFetched(count int)
}

// Исходы одного опроса статуса
const (
	PollOutcomePending   = "pending"
	PollOutcomeCompleted = "completed"
	PollOutcomeFailed    = "failed"
	PollOutcomeError     = "error"
	PollOutcomeStale     = "stale"
)

type nopRecorder struct{}

func (nopRecorder) UploadFinished(bool)          {}
func (nopRecorder) PollFinished(string)          {}
func (nopRecorder) JobFinished(domain.JobStatus) {}
func (nopRecorder) ResultsFetched(int)           {}
