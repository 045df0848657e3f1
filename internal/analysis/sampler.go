package analysis

// Candidate is a frame index paired with its timestamp in seconds
type Candidate struct {
	Index int
	Time  float64
}

// Sampler enumerates candidate frame indices 0, S, 2S, ... below the
// total frame count and filters them to the analysis window. It is a
// one-shot pull sequence: Next cannot be rewound.
type Sampler struct {
	frameCount int
	step       int
	fps        float64
	window     Window

	next       int
	visited    int
	candidates int
}

// NewSampler creates a sampler over a video with the given frame count and
// frame rate, sampling every step-th frame.
func NewSampler(frameCount int, fps float64, step int, window Window) *Sampler {
	if step < 1 {
		step = 1
	}
	candidates := 0
	if frameCount > 0 {
		candidates = (frameCount + step - 1) / step
	}
	return &Sampler{
		frameCount: frameCount,
		step:       step,
		fps:        fps,
		window:     window,
		candidates: candidates,
	}
}

// Next returns the next candidate whose timestamp falls inside the window.
// Candidates outside the window are consumed and discarded; they still
// count toward Visited.
func (s *Sampler) Next() (Candidate, bool) {
	for s.next < s.frameCount {
		idx := s.next
		s.next += s.step
		s.visited++

		t := float64(idx) / s.fps
		if s.window.Contains(t) {
			return Candidate{Index: idx, Time: t}, true
		}
	}
	return Candidate{}, false
}

// Visited returns how many candidates have been examined so far,
// window-filtered ones included.
func (s *Sampler) Visited() int {
	return s.visited
}

// Candidates returns the total number of candidate indices
func (s *Sampler) Candidates() int {
	return s.candidates
}

// Progress maps sampling position onto the 0-90 progress range. It is
// deliberately scaled by candidates examined rather than frames analyzed:
// with a narrow window, progress races through the filtered stretches and
// crawls inside the window. That matches the long-observed behavior that
// clients poll against.
func (s *Sampler) Progress() int {
	if s.candidates == 0 || s.visited == 0 {
		return 0
	}
	return int(float64(s.visited-1) / float64(s.candidates) * 90)
}
