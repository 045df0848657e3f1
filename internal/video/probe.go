package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata describes a local video resource
type Metadata struct {
	FrameCount int     `json:"frame_count"`
	FrameRate  float64 `json:"frame_rate"`
	Duration   float64 `json:"duration"` // seconds
}

// ffprobeOutput represents the JSON output from ffprobe
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	NbFrames     string `json:"nb_frames"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

// Prober wraps ffprobe functionality
type Prober struct {
	ffprobePath string
}

// NewProber creates a new Prober with the given ffprobe path
func NewProber(ffprobePath string) *Prober {
	return &Prober{ffprobePath: ffprobePath}
}

// Probe returns the metadata the sampler needs: total frame count, frame
// rate, and duration in seconds.
func (p *Prober) Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeOutput(output)
}

// parseProbeOutput derives Metadata from raw ffprobe JSON.
// Containers without a frame count fall back to duration * fps; a missing
// or zero frame rate falls back to 30.
func parseProbeOutput(data []byte) (*Metadata, error) {
	var probeOutput ffprobeOutput
	if err := json.Unmarshal(data, &probeOutput); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	meta := &Metadata{}
	if probeOutput.Format.Duration != "" {
		meta.Duration, _ = strconv.ParseFloat(probeOutput.Format.Duration, 64)
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType != "video" {
			continue
		}
		meta.FrameRate = parseFrameRate(stream.RFrameRate)
		if meta.FrameRate == 0 {
			meta.FrameRate = parseFrameRate(stream.AvgFrameRate)
		}
		if stream.NbFrames != "" {
			meta.FrameCount, _ = strconv.Atoi(stream.NbFrames)
		}
		break // first video stream wins
	}

	if meta.FrameRate == 0 {
		meta.FrameRate = 30
	}
	if meta.FrameCount == 0 && meta.Duration > 0 {
		meta.FrameCount = int(meta.Duration*meta.FrameRate + 0.5)
	}
	if meta.FrameCount == 0 {
		return nil, fmt.Errorf("no video frames found")
	}
	if meta.Duration == 0 {
		meta.Duration = float64(meta.FrameCount) / meta.FrameRate
	}

	return meta, nil
}

// parseFrameRate parses a frame rate string like "30000/1001" or "30/1"
func parseFrameRate(s string) float64 {
	if s == "" || s == "0/0" {
		return 0
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	num, _ := strconv.ParseFloat(parts[0], 64)
	den, _ := strconv.ParseFloat(parts[1], 64)
	if den == 0 {
		return 0
	}
	return num / den
}
