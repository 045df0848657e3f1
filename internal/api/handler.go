package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Liwei-Ji/DISE-AI/internal/analysis"
	"github.com/Liwei-Ji/DISE-AI/internal/config"
	"github.com/Liwei-Ji/DISE-AI/internal/ingest"
	"github.com/Liwei-Ji/DISE-AI/internal/logger"
	"github.com/Liwei-Ji/DISE-AI/internal/metrics"
)

// maxUploadMemory bounds how much of a multipart upload is buffered in
// memory before spilling to disk (32 MB, the net/http default).
const maxUploadMemory = 32 << 20

// Handler provides HTTP API handlers
type Handler struct {
	registry *analysis.Registry
	pool     *analysis.Pool
	cfg      *config.Config
}

// NewHandler creates a new API handler
func NewHandler(registry *analysis.Registry, pool *analysis.Pool, cfg *config.Config) *Handler {
	return &Handler{
		registry: registry,
		pool:     pool,
		cfg:      cfg,
	}
}

// response helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// AnalyzeRequest is the JSON request body for URL-based submissions
type AnalyzeRequest struct {
	VideoURL  string   `json:"video_url"`
	StartTime *float64 `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
}

// Analyze handles POST /analyze. It accepts either a multipart upload with
// a "video" file part, or a JSON body naming a video_url to download.
// Either way the response is immediate; clients poll /status/{task_id}.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if isMultipart(r) {
		h.analyzeUpload(w, r)
		return
	}
	h.analyzeURL(w, r)
}

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return len(ct) >= 19 && ct[:19] == "multipart/form-data"
}

func (h *Handler) analyzeUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "No video provided")
		return
	}

	file, _, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No video provided")
		return
	}
	defer file.Close()

	spec := analysis.WindowSpec{
		Start: parseSeconds(r.FormValue("start_time")),
		End:   parseSeconds(r.FormValue("end_time")),
	}

	job := analysis.NewJob(analysis.StatusPending)

	// Stage the upload before responding: the multipart file is only
	// readable while this request is alive.
	dst := analysis.TempVideoPath(h.cfg.TempPath, job.ID)
	size, err := ingest.SaveUpload(file, dst)
	if err != nil {
		logger.Error("Failed to stage upload", "job_id", job.ID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.registry.Create(job)
	h.pool.Submit(job, ingest.NewLocalUpload(dst), spec)
	metrics.RecordJobSubmitted(string(ingest.KindLocalUpload))
	logger.Info("Upload accepted", "job_id", job.ID, "bytes", size)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"task_id": job.ID,
		"status":  string(job.Status),
	})
}

func (h *Handler) analyzeURL(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "No video provided")
		return
	}

	var spec analysis.WindowSpec
	if req.StartTime != nil {
		spec.Start = *req.StartTime
	}
	if req.EndTime != nil {
		spec.End = *req.EndTime
	}

	job := analysis.NewJob(analysis.StatusDownloading)
	src := ingest.NewURLSource(req.VideoURL)

	h.registry.Create(job)
	h.pool.Submit(job, src, spec)
	metrics.RecordJobSubmitted(string(src.Kind()))
	logger.Info("Download accepted", "job_id", job.ID, "source", string(src.Kind()))

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"task_id": job.ID,
		"status":  string(job.Status),
	})
}

// parseSeconds parses an optional form field; empty or malformed means 0
func parseSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Status handles GET /status/{task_id}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("task_id")

	job := h.registry.Get(id)
	if job == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
