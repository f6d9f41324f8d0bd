package domain

// JobStatus статус задачи рендеринга, как его сообщает Render Service
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"   // Задача принята, рендеринг ещё идёт
	JobStatusCompleted JobStatus = "completed" // Рендеринг завершён, есть file_paths
	JobStatusFailed    JobStatus = "failed"    // Рендеринг завершился с ошибкой
)

// IsValid проверяет валидность статуса
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsFinal проверяет, является ли статус финальным
func (s JobStatus) IsFinal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

func (s JobStatus) String() string {
	return string(s)
}
