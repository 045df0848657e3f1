package analysis

import (
	"context"
	"fmt"

	"github.com/Liwei-Ji/DISE-AI/internal/logger"
)

// Decoder is one random-access read handle on a local video resource
type Decoder interface {
	FrameCount() int
	FrameRate() float64
	Duration() float64 // seconds
	ReadFrame(ctx context.Context, index int) ([]byte, error)
	Close() error
}

// OpenVideoFunc opens an independent decoder handle on a local video file
type OpenVideoFunc func(ctx context.Context, path string) (Decoder, error)

// Engine is the opaque inference capability: one decoded frame in, a
// defect pixel count out. Any engine failure is fatal for the job.
type Engine interface {
	DefectSize(ctx context.Context, frame []byte) (float64, error)
}

// Runner executes the analysis pipeline for one job at a time: sample
// frames, score each with the engine, smooth the series, pick extremes,
// and render the two still-image artifacts.
type Runner struct {
	registry       *Registry
	open           OpenVideoFunc
	engine         Engine
	totalScopeArea float64
	step           int
}

// NewRunner creates a runner wired to the given registry and collaborators
func NewRunner(registry *Registry, open OpenVideoFunc, engine Engine, totalScopeArea float64, step int) *Runner {
	return &Runner{
		registry:       registry,
		open:           open,
		engine:         engine,
		totalScopeArea: totalScopeArea,
		step:           step,
	}
}

// Analyze runs the full pipeline over a staged local video and returns the
// assembled result. Any failure aborts the whole job; there is no
// per-frame skipping. Progress lands on the 0-90/92/95 milestones as the
// stages complete.
func (r *Runner) Analyze(ctx context.Context, jobID string, path string, spec WindowSpec) (*Result, error) {
	dec, err := r.open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer dec.Close()

	window := ResolveWindow(spec, dec.Duration())
	logger.Debug("Analysis window resolved",
		"job_id", jobID,
		"start", window.Start,
		"end", window.End,
		"frames", dec.FrameCount(),
		"fps", dec.FrameRate())

	sampler := NewSampler(dec.FrameCount(), dec.FrameRate(), r.step, window)

	var samples []FrameSample
	for {
		c, ok := sampler.Next()
		if !ok {
			break
		}
		r.registry.SetProgress(jobID, sampler.Progress())

		frame, err := dec.ReadFrame(ctx, c.Index)
		if err != nil {
			return nil, frameReadError(c.Index, err)
		}

		defect, err := r.engine.DefectSize(ctx, frame)
		if err != nil {
			return nil, fmt.Errorf("inference failed on frame %d: %w", c.Index, err)
		}

		area := r.totalScopeArea - defect
		if area < 0 {
			area = 0
		}
		samples = append(samples, FrameSample{
			Index:      c.Index,
			Time:       round2(c.Time),
			DefectSize: defect,
			AirwayArea: area,
		})
	}

	if len(samples) == 0 {
		return nil, ErrNoFramesInWindow
	}

	series := BuildSeries(samples, window, r.totalScopeArea)
	r.registry.SetProgress(jobID, 92)

	worst, best := SelectExtremes(series)

	worstImg, bestImg, err := r.extractArtifacts(ctx, path, worst.Index, best.Index)
	if err != nil {
		return nil, err
	}
	r.registry.SetProgress(jobID, 95)

	chart := make([]ChartPoint, len(series))
	for i, row := range series {
		chart[i] = ChartPoint{
			Time:           row.Time,
			AirwaySmoothed: row.AirwaySmoothed,
			ObstructionPct: row.ObstructionPct,
		}
	}

	return &Result{
		Worst: ExtremumRecord{
			Time:           worst.Time,
			Area:           int(worst.AirwaySmoothed),
			ObstructionPct: worst.ObstructionPct,
			Image:          worstImg,
		},
		Best: ExtremumRecord{
			Time:           best.Time,
			Area:           int(best.AirwaySmoothed),
			ObstructionPct: best.ObstructionPct,
			Image:          bestImg,
		},
		Chart: chart,
	}, nil
}

// extractArtifacts re-seeks the source on a second, independent handle and
// renders the two chosen frames as data URIs.
func (r *Runner) extractArtifacts(ctx context.Context, path string, worstIdx, bestIdx int) (worstImg, bestImg string, err error) {
	dec, err := r.open(ctx, path)
	if err != nil {
		return "", "", fmt.Errorf("open video for artifacts: %w", err)
	}
	defer dec.Close()

	worstFrame, err := dec.ReadFrame(ctx, worstIdx)
	if err != nil {
		return "", "", frameReadError(worstIdx, err)
	}
	bestFrame, err := dec.ReadFrame(ctx, bestIdx)
	if err != nil {
		return "", "", frameReadError(bestIdx, err)
	}

	return JPEGDataURI(worstFrame), JPEGDataURI(bestFrame), nil
}
