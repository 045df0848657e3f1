package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// TempPath is where uploaded/downloaded videos are staged during analysis.
	// If empty, the OS temp directory is used.
	TempPath string `yaml:"temp_path"`

	// FFmpegPath is the path to the ffmpeg binary (default: "ffmpeg")
	FFmpegPath string `yaml:"ffmpeg_path"`

	// FFprobePath is the path to the ffprobe binary (default: "ffprobe")
	FFprobePath string `yaml:"ffprobe_path"`

	// InferenceURL is the base URL of the segmentation inference service
	InferenceURL string `yaml:"inference_url"`

	// TotalScopeArea is the full visible scope area in pixels; airway area
	// is TotalScopeArea minus the defect pixel count (default 58365)
	TotalScopeArea float64 `yaml:"total_scope_area"`

	// FrameStep is the sampling stride in frames (default 5)
	FrameStep int `yaml:"frame_step"`

	// MaxJobs bounds the number of analysis jobs running at once (default 4)
	MaxJobs int `yaml:"max_jobs"`

	// LogLevel is one of debug, info, warn, error (default info)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		TempPath:       os.TempDir(),
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		InferenceURL:   "http://localhost:9090",
		TotalScopeArea: 58365,
		FrameStep:      5,
		MaxJobs:        4,
		LogLevel:       "info",
	}
}

// Load reads config from a YAML file, applying defaults for missing values
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file - use defaults
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Apply defaults for empty values
	if cfg.TempPath == "" {
		cfg.TempPath = os.TempDir()
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.InferenceURL == "" {
		cfg.InferenceURL = "http://localhost:9090"
	}
	if cfg.TotalScopeArea <= 0 {
		cfg.TotalScopeArea = 58365
	}
	if cfg.FrameStep < 1 {
		cfg.FrameStep = 5
	}
	if cfg.MaxJobs < 1 {
		cfg.MaxJobs = 4
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
