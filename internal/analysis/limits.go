package analysis

// Concurrent job limits
const (
	MinJobs = 1
	MaxJobs = 16
)

// ClampJobLimit ensures the concurrent job bound is within valid range.
func ClampJobLimit(n int) int {
	if n < MinJobs {
		return MinJobs
	}
	if n > MaxJobs {
		return MaxJobs
	}
	return n
}
