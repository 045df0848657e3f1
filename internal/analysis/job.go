package analysis

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of an analysis job
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Job represents one asynchronous airway analysis request. The status
// endpoint returns the job record directly, so the JSON shape here is the
// wire shape: {status, progress, result?, error?}.
type Job struct {
	ID        string    `json:"-"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"` // 0-100
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// NewJob creates a job with a fresh id in the given initial state.
// Direct uploads start pending; remote URLs start downloading.
func NewJob(status Status) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    status,
		CreatedAt: time.Now(),
	}
}

// IsTerminal returns true if the job has finished, successfully or not
func (j *Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Copy returns a shallow copy of the job. The Result pointer is shared:
// results are written once by the job's runner and read-only afterwards.
func (j *Job) Copy() *Job {
	c := *j
	return &c
}

// ExtremumRecord is the single worst (most obstructed) or best sampled
// moment, with its rendered still image as a data URI.
type ExtremumRecord struct {
	Time           float64 `json:"time"`
	Area           int     `json:"area"`
	ObstructionPct float64 `json:"obs_pct"`
	Image          string  `json:"image"`
}

// ChartPoint is one row of the time series returned for charting
type ChartPoint struct {
	Time           float64 `json:"time"`
	AirwaySmoothed float64 `json:"airway_smooth"`
	ObstructionPct float64 `json:"obs_pct"`
}

// Result is the completed analysis payload
type Result struct {
	Worst ExtremumRecord `json:"worst"`
	Best  ExtremumRecord `json:"best"`
	Chart []ChartPoint   `json:"chart_data"`
}

// FrameSample is the raw metric for one analyzed frame
type FrameSample struct {
	Index      int     // frame index in the source video
	Time       float64 // seconds, rounded to 2 decimals
	DefectSize float64 // defect pixel count from the inference engine
	AirwayArea float64 // max(0, totalScopeArea - DefectSize)
}

// SeriesRow is a FrameSample augmented by the series processor
type SeriesRow struct {
	FrameSample
	AirwaySmoothed float64
	ObstructionPct float64
	Weight         float64
	WeightedScore  float64
}
