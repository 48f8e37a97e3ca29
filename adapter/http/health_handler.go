package http

import (
	"encoding/json"
	"net/http"

	"http-logger/domain/port"
)

// HTTPLoggingStatus reports whether request logging is currently active.
type HTTPLoggingStatus interface {
	Enabled() bool
}

type HealthHandler struct {
	status HTTPLoggingStatus
	logger port.Logger
}

func NewHealthHandler(status HTTPLoggingStatus, logger port.Logger) *HealthHandler {
	if logger == nil {
		logger = &port.NopLogger{}
	}
	return &HealthHandler{status: status, logger: logger}
}

type HealthStatus struct {
	Status      string `json:"status"`
	HTTPLogging bool   `json:"http_logging"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "healthy"}
	if h.status != nil {
		status.HTTPLogging = h.status.Enabled()
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("failed to encode health status", port.Error(err))
	}
}
