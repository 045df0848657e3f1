package analysis

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Liwei-Ji/DISE-AI/internal/logger"
	"github.com/Liwei-Ji/DISE-AI/internal/metrics"
)

// Source produces a local readable video resource at dst. Implemented by
// internal/ingest for uploads, direct URLs, and shared-link URLs.
type Source interface {
	Fetch(ctx context.Context, dst string) error
}

// TempVideoPath returns the staging path for a job's input video.
// One file per job id, so concurrent jobs never collide.
func TempVideoPath(dir, jobID string) string {
	return filepath.Join(dir, "dise-"+jobID+".mp4")
}

// Pool runs analysis jobs in the background. Submission is fire-and-forget
// for the caller; admission is bounded by a weighted semaphore so a burst
// of submissions queues instead of saturating the host. Each job gets its
// own cancellable context, used today only for shutdown.
type Pool struct {
	registry *Registry
	runner   *Runner
	sem      *semaphore.Weighted
	tempDir  string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewPool creates a pool allowing up to maxJobs concurrent analyses
func NewPool(registry *Registry, runner *Runner, tempDir string, maxJobs int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		registry: registry,
		runner:   runner,
		sem:      semaphore.NewWeighted(int64(ClampJobLimit(maxJobs))),
		tempDir:  tempDir,
		ctx:      ctx,
		cancel:   cancel,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Submit schedules a job for background processing. The job must already
// be registered; the caller returns to the client immediately and learns
// the outcome only by polling the registry.
func (p *Pool) Submit(job *Job, src Source, spec WindowSpec) {
	p.wg.Add(1)
	go p.run(job, src, spec)
}

// Stop cancels all running jobs and waits for their goroutines to exit
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) run(job *Job, src Source, spec WindowSpec) {
	defer p.wg.Done()

	jobCtx, jobCancel := context.WithCancel(p.ctx)
	defer jobCancel()

	p.mu.Lock()
	p.cancels[job.ID] = jobCancel
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.cancels, job.ID)
		p.mu.Unlock()
	}()

	if err := p.sem.Acquire(jobCtx, 1); err != nil {
		// Shutdown before the job ever started
		_ = p.registry.Fail(job.ID, err.Error())
		return
	}
	defer p.sem.Release(1)

	metrics.JobsActive.Inc()
	defer metrics.JobsActive.Dec()
	started := time.Now()

	tmp := TempVideoPath(p.tempDir, job.ID)
	// The staged input is removed exactly once, on success and failure alike.
	defer func() {
		if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove temp video", "job_id", job.ID, "path", tmp, "error", err)
		}
	}()

	if err := src.Fetch(jobCtx, tmp); err != nil {
		logger.Error("Ingestion failed", "job_id", job.ID, "error", err.Error())
		metrics.RecordJobFailed(time.Since(started))
		_ = p.registry.Fail(job.ID, err.Error())
		return
	}

	_ = p.registry.SetStatus(job.ID, StatusProcessing)
	logger.Info("Job started", "job_id", job.ID)

	result, err := p.runner.Analyze(jobCtx, job.ID, tmp, spec)
	if err != nil {
		logger.Error("Job failed", "job_id", job.ID, "error", err.Error())
		metrics.RecordJobFailed(time.Since(started))
		_ = p.registry.Fail(job.ID, err.Error())
		return
	}

	_ = p.registry.Complete(job.ID, result)
	metrics.RecordJobCompleted(time.Since(started))
	logger.Info("Job completed", "job_id", job.ID, "elapsed", time.Since(started).Round(time.Millisecond))
}
