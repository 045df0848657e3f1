package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// stubDecoder is a configurable in-memory stand-in for an ffmpeg handle
type stubDecoder struct {
	frameCount int
	fps        float64
	duration   float64
	readErr    error
}

func (d *stubDecoder) FrameCount() int    { return d.frameCount }
func (d *stubDecoder) FrameRate() float64 { return d.fps }
func (d *stubDecoder) Duration() float64  { return d.duration }
func (d *stubDecoder) ReadFrame(ctx context.Context, index int) ([]byte, error) {
	if d.readErr != nil {
		return nil, d.readErr
	}
	return []byte(fmt.Sprintf("frame-%d", index)), nil
}
func (d *stubDecoder) Close() error { return nil }

func stubOpen(d *stubDecoder, err error) OpenVideoFunc {
	return func(ctx context.Context, path string) (Decoder, error) {
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// engineFunc adapts a function to the Engine interface
type engineFunc func(frame []byte) (float64, error)

func (f engineFunc) DefectSize(ctx context.Context, frame []byte) (float64, error) {
	return f(frame)
}

func constantDefect(v float64) Engine {
	return engineFunc(func([]byte) (float64, error) { return v, nil })
}

func TestAnalyzeHappyPath(t *testing.T) {
	registry := NewRegistry()
	job := NewJob(StatusProcessing)
	registry.Create(job)

	// 10 seconds at 30 fps, zero defect everywhere
	dec := &stubDecoder{frameCount: 300, fps: 30, duration: 10}
	runner := NewRunner(registry, stubOpen(dec, nil), constantDefect(0), 1000, 5)

	result, err := runner.Analyze(context.Background(), job.ID, "unused.mp4", WindowSpec{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	// Default window [0.5, 9.5] keeps indices 15..285 stepping by 5
	if len(result.Chart) != 55 {
		t.Errorf("len(Chart) = %d, want 55", len(result.Chart))
	}
	if first := result.Chart[0].Time; first != 0.5 {
		t.Errorf("first chart point at %v, want 0.5", first)
	}
	for _, p := range result.Chart {
		if p.ObstructionPct != 0 {
			t.Fatalf("ObstructionPct = %v at t=%v, want 0 for zero defect", p.ObstructionPct, p.Time)
		}
		if p.AirwaySmoothed != 1000 {
			t.Fatalf("AirwaySmoothed = %v at t=%v, want full scope area", p.AirwaySmoothed, p.Time)
		}
	}

	if result.Worst.Area != 1000 || result.Best.Area != 1000 {
		t.Errorf("extremum areas = (%d, %d), want (1000, 1000)", result.Worst.Area, result.Best.Area)
	}
	if !strings.HasPrefix(result.Worst.Image, "data:image/jpeg;base64,") {
		t.Errorf("worst image is not a data URI: %.40s", result.Worst.Image)
	}

	// Analyze itself leaves progress at the artifact milestone; the pool
	// bumps it to 100 on completion.
	if got := registry.Get(job.ID).Progress; got != 95 {
		t.Errorf("progress after Analyze = %d, want 95", got)
	}
}

func TestAnalyzeSelectsExtremes(t *testing.T) {
	registry := NewRegistry()
	job := NewJob(StatusProcessing)
	registry.Create(job)

	// 2 seconds at 30 fps: 11 samples inside the default window, too few
	// for the smoothing window, so every row keeps its raw area. One frame
	// is heavily obstructed.
	dec := &stubDecoder{frameCount: 60, fps: 30, duration: 2}
	engine := engineFunc(func(frame []byte) (float64, error) {
		if string(frame) == "frame-30" {
			return 900, nil
		}
		return 500, nil
	})
	runner := NewRunner(registry, stubOpen(dec, nil), engine, 1000, 5)

	result, err := runner.Analyze(context.Background(), job.ID, "unused.mp4", WindowSpec{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if result.Worst.Time != 1.0 {
		t.Errorf("worst at t=%v, want 1.0", result.Worst.Time)
	}
	if result.Worst.Area != 100 {
		t.Errorf("worst area = %d, want 100", result.Worst.Area)
	}
	if result.Worst.ObstructionPct != 90 {
		t.Errorf("worst obs_pct = %v, want 90", result.Worst.ObstructionPct)
	}

	// All unobstructed frames tie on area; the earliest full-weight frame
	// wins best.
	if result.Best.Time != 0.5 {
		t.Errorf("best at t=%v, want 0.5", result.Best.Time)
	}

	// The artifact image is the exact chosen frame
	wantImg := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("frame-30"))
	if result.Worst.Image != wantImg {
		t.Errorf("worst image does not encode frame 30")
	}
}

func TestAnalyzeEmptyWindow(t *testing.T) {
	registry := NewRegistry()
	job := NewJob(StatusProcessing)
	registry.Create(job)

	dec := &stubDecoder{frameCount: 300, fps: 30, duration: 10}
	runner := NewRunner(registry, stubOpen(dec, nil), constantDefect(0), 1000, 5)

	_, err := runner.Analyze(context.Background(), job.ID, "unused.mp4", WindowSpec{Start: 100, End: 200})
	if !errors.Is(err, ErrNoFramesInWindow) {
		t.Errorf("Analyze() error = %v, want ErrNoFramesInWindow", err)
	}
}

func TestAnalyzeFrameReadFailure(t *testing.T) {
	registry := NewRegistry()
	job := NewJob(StatusProcessing)
	registry.Create(job)

	dec := &stubDecoder{frameCount: 300, fps: 30, duration: 10, readErr: errors.New("decoder exploded")}
	runner := NewRunner(registry, stubOpen(dec, nil), constantDefect(0), 1000, 5)

	_, err := runner.Analyze(context.Background(), job.ID, "unused.mp4", WindowSpec{})
	if !errors.Is(err, ErrFrameRead) {
		t.Errorf("Analyze() error = %v, want ErrFrameRead", err)
	}
}

func TestAnalyzeInferenceFailure(t *testing.T) {
	registry := NewRegistry()
	job := NewJob(StatusProcessing)
	registry.Create(job)

	dec := &stubDecoder{frameCount: 300, fps: 30, duration: 10}
	engine := engineFunc(func([]byte) (float64, error) {
		return 0, errors.New("model unavailable")
	})
	runner := NewRunner(registry, stubOpen(dec, nil), engine, 1000, 5)

	_, err := runner.Analyze(context.Background(), job.ID, "unused.mp4", WindowSpec{})
	if err == nil || !strings.Contains(err.Error(), "inference failed") {
		t.Errorf("Analyze() error = %v, want inference failure", err)
	}
}

func TestAnalyzeOpenFailure(t *testing.T) {
	registry := NewRegistry()
	job := NewJob(StatusProcessing)
	registry.Create(job)

	runner := NewRunner(registry, stubOpen(nil, errors.New("corrupt container")), constantDefect(0), 1000, 5)

	_, err := runner.Analyze(context.Background(), job.ID, "unused.mp4", WindowSpec{})
	if err == nil || !strings.Contains(err.Error(), "open video") {
		t.Errorf("Analyze() error = %v, want open failure", err)
	}
}
