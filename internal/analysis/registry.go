package analysis

import (
	"sync"

	"github.com/Liwei-Ji/DISE-AI/internal/logger"
)

// Store defines the persistence interface for job records.
// This interface is implemented by internal/store.SQLiteStore.
type Store interface {
	SaveJob(job *Job) error
	GetJob(id string) (*Job, error)
	Close() error
}

// Registry is the process-wide job table. It is the only shared mutable
// state in the pipeline: each job is written by exactly one runner and
// read by any number of status pollers. Entries are never evicted — a
// known capacity gap that a real deployment would cover with TTL-based
// cleanup.
type Registry struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	store Store // optional (nil = in-memory only)
}

// NewRegistry creates an in-memory registry (for testing).
// Use NewRegistryWithStore for production use.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// NewRegistryWithStore creates a registry backed by a store
func NewRegistryWithStore(store Store) *Registry {
	return &Registry{
		jobs:  make(map[string]*Job),
		store: store,
	}
}

// persist saves a job to the store (if configured).
// Called with lock held.
func (r *Registry) persist(job *Job) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveJob(job); err != nil {
		logger.Warn("Failed to persist job", "job_id", job.ID, "error", err)
	}
}

// Create registers a new job
func (r *Registry) Create(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[job.ID] = job
	r.persist(job)
}

// Get returns a snapshot of a job, or nil if unknown
func (r *Registry) Get(id string) *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil
	}
	return job.Copy()
}

// SetStatus moves a non-terminal job to a new state
func (r *Registry) SetStatus(id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.IsTerminal() {
		return ErrJobTerminal
	}

	job.Status = status
	r.persist(job)
	return nil
}

// SetProgress updates a job's progress. Progress is monotonic while the
// job is not terminal: stale or lower values are dropped. Not persisted —
// per-frame updates are too chatty for the store.
func (r *Registry) SetProgress(id string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.IsTerminal() {
		return
	}
	if progress > job.Progress {
		job.Progress = progress
	}
}

// Complete marks a job completed with its result and full progress
func (r *Registry) Complete(id string, result *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.IsTerminal() {
		return ErrJobTerminal
	}

	job.Status = StatusCompleted
	job.Progress = 100
	job.Result = result
	r.persist(job)
	return nil
}

// Fail marks a job failed, recording the error verbatim.
// Progress is left where the pipeline stopped.
func (r *Registry) Fail(id string, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.IsTerminal() {
		return ErrJobTerminal
	}

	job.Status = StatusFailed
	job.Error = errMsg
	r.persist(job)
	return nil
}
