package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline failures.
// These can be checked with errors.Is().
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrJobTerminal      = errors.New("job already in terminal state")
	ErrNoFramesInWindow = errors.New("no frames analyzed in the requested window")
	ErrFrameRead        = errors.New("failed to read frame")
)

// frameReadError wraps a seek/read failure at a specific frame index.
func frameReadError(index int, err error) error {
	return fmt.Errorf("%w %d: %v", ErrFrameRead, index, err)
}
