package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new HTTP router with all API endpoints
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", instrument("/analyze", h.Analyze))
	mux.HandleFunc("GET /status/{task_id}", instrument("/status/{task_id}", h.Status))
	mux.HandleFunc("GET /healthz", h.Health)

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
