package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// HealthHandler обработчик health check запросов
type HealthHandler struct {
	baseURL string
	logger  *zap.Logger
}

// NewHealthHandler создаёт новый HealthHandler
func NewHealthHandler(baseURL string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseURL: baseURL,
		logger:  logger,
	}
}

// HealthResponse ответ health check
type HealthResponse struct {
	Status        string `json:"status"`
	RenderService string `json:"render_service"`
}

// Check проверяет состояние сервиса
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(HealthResponse{Status: "ok", RenderService: h.baseURL}); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}
