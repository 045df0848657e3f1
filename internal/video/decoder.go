package video

import (
	"context"
	"fmt"
	"os/exec"
)

// Opener opens independent decode handles on local video files
type Opener struct {
	ffmpegPath  string
	ffprobePath string
}

// NewOpener creates an Opener using the given ffmpeg/ffprobe binaries
func NewOpener(ffmpegPath, ffprobePath string) *Opener {
	return &Opener{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Open probes the file and returns a read handle for it. Each handle is
// independent; the analysis pipeline opens a second one for artifact
// extraction.
func (o *Opener) Open(ctx context.Context, path string) (*File, error) {
	meta, err := NewProber(o.ffprobePath).Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("cannot open video file: %w", err)
	}
	return &File{
		ffmpegPath: o.ffmpegPath,
		path:       path,
		meta:       *meta,
	}, nil
}

// File is a random-access read handle on a local video. Frame reads shell
// out to ffmpeg one frame at a time, so the handle itself holds no OS
// resources and Close is a no-op.
type File struct {
	ffmpegPath string
	path       string
	meta       Metadata
}

// FrameCount returns the total number of frames in the video
func (f *File) FrameCount() int {
	return f.meta.FrameCount
}

// FrameRate returns the video frame rate in frames per second
func (f *File) FrameRate() float64 {
	return f.meta.FrameRate
}

// Duration returns the video duration in seconds
func (f *File) Duration() float64 {
	return f.meta.Duration
}

// ReadFrame seeks to the given frame index and returns it encoded as JPEG
func (f *File) ReadFrame(ctx context.Context, index int) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-v", "error",
		"-i", f.path,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", index),
		"-vsync", "0",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-",
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffmpeg failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("no frame data at index %d", index)
	}

	return output, nil
}

// Close releases the handle
func (f *File) Close() error {
	return nil
}
