package domain

import (
	"errors"
	"fmt"
)

// Ошибки клиента
var (
	ErrNoFileSelected   = errors.New("no file selected")
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrClientClosed     = errors.New("client closed")
)

// Тексты статуса, которые видит пользователь
const (
	StatusTextIdle       = ""
	StatusTextUploading  = "Uploading..."
	StatusTextUploadFail = "Upload failed"
	StatusTextProcessing = "Processing..."
	StatusTextCompleted  = "Rendering complete"
	StatusTextPollError  = "Error checking status"
)

// FailedStatusText текст статуса для задачи, которую сервис пометил как failed
func FailedStatusText(errMsg string) string {
	return fmt.Sprintf("Rendering failed: %s", errMsg)
}

// Phase состояние клиента относительно текущей задачи
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseUploading    Phase = "uploading"
	PhaseUploadFailed Phase = "upload_failed"
	PhaseProcessing   Phase = "processing"
	PhaseCompleted    Phase = "completed"
	PhaseFailed       Phase = "failed"
	PhaseError        Phase = "error"
)

// IsFinal проверяет, что ждать больше нечего
func (p Phase) IsFinal() bool {
	return p == PhaseCompleted || p == PhaseFailed || p == PhaseUploadFailed
}

func (p Phase) String() string {
	return string(p)
}

// UIState производная модель представления.
// DownloadURLs непусты только в фазе PhaseCompleted.
type UIState struct {
	Phase        Phase    `json:"phase"`
	StatusText   string   `json:"status_text"`
	Uploading    bool     `json:"uploading"`
	FileName     string   `json:"file_name,omitempty"`
	JobID        string   `json:"job_id,omitempty"`
	DownloadURLs []string `json:"download_urls"`
}

// Clone возвращает копию, которую можно отдавать наружу
func (s UIState) Clone() UIState {
	c := s
	c.DownloadURLs = append([]string{}, s.DownloadURLs...)
	return c
}
