package analysis

// SelectExtremes picks the worst and best rows of a processed series.
// Worst is the row with the globally minimum smoothed airway area (most
// obstructed); best is the row with the globally maximum weighted score.
// Ties go to the earliest timestamp. The series must be non-empty and
// ordered by ascending timestamp.
func SelectExtremes(series []SeriesRow) (worst, best SeriesRow) {
	worst, best = series[0], series[0]
	for _, row := range series[1:] {
		if row.AirwaySmoothed < worst.AirwaySmoothed {
			worst = row
		}
		if row.WeightedScore > best.WeightedScore {
			best = row
		}
	}
	return worst, best
}
