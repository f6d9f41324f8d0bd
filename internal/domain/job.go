package domain

import (
	"errors"
	"time"
)

// Ошибки домена
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidJobStatus = errors.New("invalid job status")
	ErrEmptyJobID       = errors.New("job id cannot be empty")
	ErrJobFailed        = errors.New("rendering failed")
	ErrNoResults        = errors.New("no results to fetch")
)

// Job задача рендеринга на стороне Render Service
type Job struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	ResultPaths []string   `json:"result_paths,omitempty"` // Относительные пути результатов
	Error       string     `json:"error,omitempty"`        // Текст ошибки (если failed)
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewJob создаёт задачу по идентификатору, полученному после загрузки
func NewJob(id string) (*Job, error) {
	if id == "" {
		return nil, ErrEmptyJobID
	}

	now := time.Now()

	return &Job{
		ID:        id,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MarkPending фиксирует очередной ответ "pending"
func (j *Job) MarkPending() error {
	if j.Status != JobStatusPending {
		return ErrInvalidJobStatus
	}
	j.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted переводит задачу в статус "завершена"
func (j *Job) MarkCompleted(paths []string) error {
	if j.Status != JobStatusPending {
		return ErrInvalidJobStatus
	}
	now := time.Now()
	j.Status = JobStatusCompleted
	j.ResultPaths = append([]string(nil), paths...)
	j.UpdatedAt = now
	j.CompletedAt = &now
	return nil
}

// MarkFailed переводит задачу в статус "ошибка"
func (j *Job) MarkFailed(errMsg string) error {
	if j.Status != JobStatusPending {
		return ErrInvalidJobStatus
	}
	now := time.Now()
	j.Status = JobStatusFailed
	j.Error = errMsg
	j.UpdatedAt = now
	j.CompletedAt = &now
	return nil
}
