package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Liwei-Ji/DISE-AI/internal/metrics"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request metrics. The endpoint label is
// the route pattern, not the raw path, to keep label cardinality bounded.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()

		next(rec, r)

		metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(rec.status), time.Since(started))
	}
}
