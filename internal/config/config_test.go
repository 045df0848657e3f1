package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FrameStep != 5 {
		t.Errorf("expected frame step 5, got %d", cfg.FrameStep)
	}
	if cfg.TotalScopeArea != 58365 {
		t.Errorf("expected total scope area 58365, got %v", cfg.TotalScopeArea)
	}
	if cfg.MaxJobs != 4 {
		t.Errorf("expected 4 max jobs, got %d", cfg.MaxJobs)
	}
	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" {
		t.Errorf("expected default ffmpeg/ffprobe paths, got %s / %s", cfg.FFmpegPath, cfg.FFprobePath)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.FrameStep != 5 {
		t.Errorf("expected default frame step, got %d", cfg.FrameStep)
	}
}

func TestLoadAppliesDefaultsForMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dise.yaml")
	yaml := `
inference_url: "http://gpu-box:9090"
frame_step: 10
log_level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.InferenceURL != "http://gpu-box:9090" {
		t.Errorf("expected configured inference URL, got %s", cfg.InferenceURL)
	}
	if cfg.FrameStep != 10 {
		t.Errorf("expected frame step 10, got %d", cfg.FrameStep)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	// Unspecified values fall back to defaults
	if cfg.TotalScopeArea != 58365 {
		t.Errorf("expected default scope area, got %v", cfg.TotalScopeArea)
	}
	if cfg.MaxJobs != 4 {
		t.Errorf("expected default max jobs, got %d", cfg.MaxJobs)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("frame_step: [not an int"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
