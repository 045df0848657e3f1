package analysis

// WindowSpec carries the caller-supplied analysis bounds in seconds.
// A spec where End <= Start (including the zero value) means "auto".
type WindowSpec struct {
	Start float64
	End   float64
}

// Window is the resolved analysis time range. Only frames whose timestamp
// falls inside [Start, End] are analyzed.
type Window struct {
	Start float64
	End   float64
}

// ResolveWindow derives the effective window for a video of the given
// duration. A caller-supplied interval with End > Start is used verbatim,
// with no clamping against the duration; otherwise the window defaults to
// the middle 90% of the video, skipping the first and last 5%.
func ResolveWindow(spec WindowSpec, duration float64) Window {
	if spec.End > spec.Start {
		return Window{Start: spec.Start, End: spec.End}
	}
	return Window{Start: duration * 0.05, End: duration * 0.95}
}

// Contains reports whether t falls inside the window, bounds included
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// Weight returns the positional weight for a timestamp inside the window:
// a linear ramp 0→1 over the first 15% of the window, 1 in the middle,
// and a linear ramp 1→0 over the last 15%. Frames near the window edges
// carry the least reliable imagery, so they are down-weighted when picking
// the best frame. Degenerate windows (End <= Start) weigh everything 1.
func (w Window) Weight(t float64) float64 {
	total := w.End - w.Start
	if total <= 0 {
		return 1.0
	}
	norm := (t - w.Start) / total
	switch {
	case norm < 0.15:
		return norm / 0.15
	case norm > 0.85:
		return (1 - norm) / 0.15
	default:
		return 1.0
	}
}
