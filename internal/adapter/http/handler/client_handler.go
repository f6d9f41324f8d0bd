package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/plastinin/renderclient/internal/adapter/http/dto"
	"github.com/plastinin/renderclient/internal/domain"
	"github.com/plastinin/renderclient/internal/usecase"
	"go.uber.org/zap"
)

// ClientHandler обработчик действий пользователя над клиентом рендеринга
type ClientHandler struct {
	client        *usecase.RenderClient
	resultUC      *usecase.ResultUseCase
	maxUploadSize int64
	logger        *zap.Logger
}

// NewClientHandler создаёт новый ClientHandler
func NewClientHandler(
	client *usecase.RenderClient,
	resultUC *usecase.ResultUseCase,
	maxUploadSize int64,
	logger *zap.Logger,
) *ClientHandler {
	return &ClientHandler{
		client:        client,
		resultUC:      resultUC,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// State возвращает текущее состояние
// GET /api/v1/state
func (h *ClientHandler) State(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.StateFromDomain(h.client.State()))
}

// SelectFile выбирает файл для загрузки
// POST /api/v1/file
// Content-Type: multipart/form-data
// - file: файл сцены
func (h *ClientHandler) SelectFile(w http.ResponseWriter, r *http.Request) {
	// Ограничиваем размер загрузки
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.logger.Warn("Failed to parse multipart form", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "invalid_request", "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn("Failed to get file from form", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "file_required", "File is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "invalid_request", "Failed to read file")
		return
	}

	selected, err := domain.NewSelectedFile(header.Filename, data)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "file_required", err.Error())
		return
	}

	h.client.SelectFile(selected)
	h.respondJSON(w, http.StatusOK, dto.StateFromDomain(h.client.State()))
}

// Upload загружает выбранный файл в Render Service
// POST /api/v1/upload
func (h *ClientHandler) Upload(w http.ResponseWriter, r *http.Request) {
	err := h.client.Upload(r.Context())
	state := h.client.State()

	switch {
	case err == nil:
		h.respondJSON(w, http.StatusOK, dto.StateFromDomain(state))
	case errors.Is(err, domain.ErrNoFileSelected):
		h.respondError(w, http.StatusBadRequest, "file_required", "No file selected")
	case errors.Is(err, domain.ErrUploadInProgress):
		h.respondError(w, http.StatusConflict, "upload_in_progress", "Upload already in progress")
	case errors.Is(err, domain.ErrClientClosed):
		h.respondError(w, http.StatusServiceUnavailable, "client_closed", "Client is shutting down")
	default:
		h.respondError(w, http.StatusBadGateway, "upload_failed", state.StatusText)
	}
}

// FetchResults сохраняет готовые результаты в хранилище
// POST /api/v1/results
func (h *ClientHandler) FetchResults(w http.ResponseWriter, r *http.Request) {
	state := h.client.State()
	if state.Phase != domain.PhaseCompleted || len(state.DownloadURLs) == 0 {
		h.respondError(w, http.StatusConflict, "no_results", "No results to fetch")
		return
	}

	results, err := h.resultUC.Fetch(r.Context(), state.DownloadURLs)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			h.respondError(w, http.StatusConflict, "no_results", "No results to fetch")
			return
		}
		h.logger.Error("Failed to fetch results", zap.String("job_id", state.JobID), zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "fetch_failed", "Failed to fetch results")
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ResultsResponse{Results: results})
}

// respondJSON отправляет JSON ответ
func (h *ClientHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError отправляет ответ с ошибкой
func (h *ClientHandler) respondError(w http.ResponseWriter, status int, errCode string, message string) {
	h.respondJSON(w, status, dto.NewErrorResponse(errCode, message))
}
