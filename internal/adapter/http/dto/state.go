package dto

import (
	"github.com/plastinin/renderclient/internal/domain"
	"github.com/plastinin/renderclient/internal/usecase"
)

// StateResponse текущее состояние клиента
type StateResponse struct {
	Phase        string   `json:"phase"`
	StatusText   string   `json:"status_text"`
	Uploading    bool     `json:"uploading"`
	FileName     string   `json:"file_name,omitempty"`
	JobID        string   `json:"job_id,omitempty"`
	DownloadURLs []string `json:"download_urls"`
}

// StateFromDomain конвертирует состояние клиента в DTO
func StateFromDomain(state domain.UIState) *StateResponse {
	urls := state.DownloadURLs
	if urls == nil {
		urls = []string{}
	}

	return &StateResponse{
		Phase:        state.Phase.String(),
		StatusText:   state.StatusText,
		Uploading:    state.Uploading,
		FileName:     state.FileName,
		JobID:        state.JobID,
		DownloadURLs: urls,
	}
}

// ResultsResponse ответ со списком сохранённых результатов
type ResultsResponse struct {
	Results []usecase.FetchedResult `json:"results"`
}

// ErrorResponse ответ с ошибкой: машинный код и текст для пользователя
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewErrorResponse создаёт ответ с ошибкой
func NewErrorResponse(code string, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   code,
		Message: message,
	}
}
