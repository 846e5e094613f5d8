package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// requestLog scopes logger to the request id set by RequestLogger.
func requestLog(logger *zap.Logger, r *http.Request) *zap.Logger {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
