package analysis

import "math"

// smoothWindow is the centered moving-average width over airway area.
// Edge samples without a full window keep their raw value; extremum
// selection at the boundaries depends on that fallback, so it must not be
// replaced with a partial average.
const smoothWindow = 15

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildSeries smooths the raw airway areas and derives the obstruction
// percentage, positional weight, and weighted score for each sample.
// Samples must already be ordered by ascending timestamp.
func BuildSeries(samples []FrameSample, window Window, totalScopeArea float64) []SeriesRow {
	n := len(samples)
	half := smoothWindow / 2

	rows := make([]SeriesRow, n)
	for i, s := range samples {
		smoothed := s.AirwayArea
		if i >= half && i+half < n {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += samples[j].AirwayArea
			}
			smoothed = sum / smoothWindow
		}

		// Clip before rounding; the reverse order shifts boundary values.
		obs := (totalScopeArea - smoothed) / totalScopeArea * 100
		if obs < 0 {
			obs = 0
		} else if obs > 100 {
			obs = 100
		}

		weight := window.Weight(s.Time)

		rows[i] = SeriesRow{
			FrameSample:    s,
			AirwaySmoothed: smoothed,
			ObstructionPct: round2(obs),
			Weight:         weight,
			WeightedScore:  smoothed * weight,
		}
	}

	return rows
}
