package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cliptube/backend/internal/logging"
)

// apiResponse is the uniform envelope every endpoint answers with.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeEnvelope(ctx, w, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeEnvelope(ctx, w, apiResponse{
		StatusCode: status,
		Data:       nil,
		Message:    message,
		Success:    false,
	})
}

func writeEnvelope(ctx context.Context, w http.ResponseWriter, payload apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(payload.StatusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", payload.StatusCode, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case payload.StatusCode >= http.StatusInternalServerError:
		logger.Error("request failed", "status", payload.StatusCode, "message", payload.Message)
	case payload.StatusCode >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", payload.StatusCode, "message", payload.Message)
	}
}
