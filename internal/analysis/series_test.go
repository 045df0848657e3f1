package analysis

import (
	"math"
	"testing"
)

func makeSamples(areas []float64) []FrameSample {
	samples := make([]FrameSample, len(areas))
	for i, a := range areas {
		samples[i] = FrameSample{
			Index:      i * 5,
			Time:       float64(i) * 0.5,
			AirwayArea: a,
		}
	}
	return samples
}

func TestBuildSeriesConstantInput(t *testing.T) {
	areas := make([]float64, 40)
	for i := range areas {
		areas[i] = 500
	}
	rows := BuildSeries(makeSamples(areas), Window{Start: 0, End: 100}, 1000)

	for i, row := range rows {
		if row.AirwaySmoothed != 500 {
			t.Errorf("row %d AirwaySmoothed = %v, want 500", i, row.AirwaySmoothed)
		}
		if row.ObstructionPct != 50 {
			t.Errorf("row %d ObstructionPct = %v, want 50", i, row.ObstructionPct)
		}
	}
}

func TestBuildSeriesEdgeFallback(t *testing.T) {
	// One spike in an otherwise flat series. Edge rows keep their raw
	// value; interior rows with a full 15-wide window get averaged.
	areas := make([]float64, 20)
	for i := range areas {
		areas[i] = 100
	}
	areas[0] = 900
	areas[10] = 250

	rows := BuildSeries(makeSamples(areas), Window{Start: 0, End: 100}, 1000)

	if rows[0].AirwaySmoothed != 900 {
		t.Errorf("edge row smoothed = %v, want raw 900", rows[0].AirwaySmoothed)
	}
	if rows[19].AirwaySmoothed != 100 {
		t.Errorf("edge row smoothed = %v, want raw 100", rows[19].AirwaySmoothed)
	}

	// Row 10 has full coverage [3,17]: fourteen 100s and one 250
	want := (14*100.0 + 250.0) / 15
	if math.Abs(rows[10].AirwaySmoothed-want) > 1e-9 {
		t.Errorf("interior row smoothed = %v, want %v", rows[10].AirwaySmoothed, want)
	}

	// Row 6 lacks a full left window and stays raw
	if rows[6].AirwaySmoothed != 100 {
		t.Errorf("row 6 smoothed = %v, want raw 100", rows[6].AirwaySmoothed)
	}
}

func TestBuildSeriesObstructionClipped(t *testing.T) {
	// Airway larger than the scope area and a fully blocked airway both
	// land on the [0, 100] bounds.
	areas := []float64{1200, 0}
	rows := BuildSeries(makeSamples(areas), Window{Start: 0, End: 100}, 1000)

	if rows[0].ObstructionPct != 0 {
		t.Errorf("oversized airway ObstructionPct = %v, want 0", rows[0].ObstructionPct)
	}
	if rows[1].ObstructionPct != 100 {
		t.Errorf("blocked airway ObstructionPct = %v, want 100", rows[1].ObstructionPct)
	}
}

func TestBuildSeriesObstructionRounding(t *testing.T) {
	rows := BuildSeries(makeSamples([]float64{333}), Window{Start: 0, End: 100}, 1000)
	// (1000-333)/1000*100 = 66.7
	if rows[0].ObstructionPct != 66.7 {
		t.Errorf("ObstructionPct = %v, want 66.7", rows[0].ObstructionPct)
	}
}

func TestBuildSeriesWeightedScore(t *testing.T) {
	// Window [0, 10]; sample times step by 0.5 so row 1 sits at t=0.5,
	// a third of the way up the leading ramp.
	rows := BuildSeries(makeSamples([]float64{300, 300, 300}), Window{Start: 0, End: 10}, 1000)

	if rows[0].Weight != 0 {
		t.Errorf("row 0 Weight = %v, want 0 at window edge", rows[0].Weight)
	}
	wantW := 0.5 / 1.5
	if math.Abs(rows[1].Weight-wantW) > 1e-9 {
		t.Errorf("row 1 Weight = %v, want %v", rows[1].Weight, wantW)
	}
	if math.Abs(rows[1].WeightedScore-300*wantW) > 1e-9 {
		t.Errorf("row 1 WeightedScore = %v, want %v", rows[1].WeightedScore, 300*wantW)
	}
}
