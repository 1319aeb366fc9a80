package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanEmptySliceIsZero(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Fatalf("expected mean of empty slice to be 0, got %v", got)
	}
}

func TestVarianceUsesBesselCorrection(t *testing.T) {
	// Sample variance of {2, 4, 4, 4, 5, 5, 7, 9} is 32/7.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Variance(values); !almostEqual(got, 32.0/7.0) {
		t.Fatalf("expected sample variance 32/7, got %v", got)
	}
}

func TestVarianceSingleValueIsZero(t *testing.T) {
	if got := Variance([]float64{3.2}); got != 0 {
		t.Fatalf("expected variance of one value to be 0, got %v", got)
	}
}

func TestPercentileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	if got := Percentile(values, 50); !almostEqual(got, 2.5) {
		t.Fatalf("expected median 2.5, got %v", got)
	}
	if got := Percentile(values, 25); !almostEqual(got, 1.75) {
		t.Fatalf("expected P25 1.75, got %v", got)
	}
	if got := Percentile(values, 0); got != 1 {
		t.Fatalf("expected P0 to be the minimum, got %v", got)
	}
	if got := Percentile(values, 100); got != 4 {
		t.Fatalf("expected P100 to be the maximum, got %v", got)
	}
}

func TestOutliersRequireFourPoints(t *testing.T) {
	if got := Outliers([]float64{1, 100, 1}); got != nil {
		t.Fatalf("expected no outliers for fewer than 4 points, got %v", got)
	}
}

func TestOutliersFlagExtremeValue(t *testing.T) {
	values := []float64{2.0, 2.1, 2.2, 2.0, 2.1, 5.0}
	got := Outliers(values)
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected index 5 flagged as outlier, got %v", got)
	}
}

func TestConfidenceInterval95EmptyAndSingle(t *testing.T) {
	if got := ConfidenceInterval95(nil); got != [2]float64{0, 0} {
		t.Fatalf("expected [0,0] for empty input, got %v", got)
	}
	if got := ConfidenceInterval95([]float64{4}); got != [2]float64{4, 4} {
		t.Fatalf("expected [4,4] for single value, got %v", got)
	}
}

func TestConfidenceInterval95ContainsMean(t *testing.T) {
	values := []float64{2, 6}
	ci := ConfidenceInterval95(values)
	if !(ci[0] < 4 && ci[1] > 4) {
		t.Fatalf("expected interval strictly containing mean 4, got %v", ci)
	}
}

func TestConfidenceInterval95NarrowsWithSampleSize(t *testing.T) {
	small := []float64{2.0, 2.5, 3.0, 3.5, 4.0}
	large := make([]float64, 0, 120)
	for i := 0; i < 120; i++ {
		large = append(large, small[i%len(small)])
	}
	smallWidth := ConfidenceInterval95(small)[1] - ConfidenceInterval95(small)[0]
	largeWidth := ConfidenceInterval95(large)[1] - ConfidenceInterval95(large)[0]
	if largeWidth >= smallWidth {
		t.Fatalf("expected CI width to shrink with sample size: small=%v large=%v", smallWidth, largeWidth)
	}
	if smallWidth >= 2.0 {
		t.Fatalf("expected a bounded interval for 5 points, got width %v", smallWidth)
	}
}

func TestTValueBreakpoints(t *testing.T) {
	cases := []struct {
		df   int
		want float64
	}{
		{1, 12.706},
		{4, 2.776},
		{12, 2.131},
		{55, 2.000},
		{200, 1.96},
	}
	for _, tc := range cases {
		if got := tValue(tc.df); got != tc.want {
			t.Fatalf("tValue(%d) = %v, want %v", tc.df, got, tc.want)
		}
	}
}

func TestConsistencyBands(t *testing.T) {
	if got := Consistency([]float64{5, 5, 5}); got != ConsistencyHigh {
		t.Fatalf("identical values should be high consistency, got %q", got)
	}
	if got := Consistency([]float64{4}); got != ConsistencyHigh {
		t.Fatalf("single value should be high consistency, got %q", got)
	}
	if got := Consistency([]float64{0, 0, 0}); got != ConsistencyHigh {
		t.Fatalf("zero mean should report high consistency, got %q", got)
	}
	if got := Consistency([]float64{1, 5, 1, 5}); got != ConsistencyLow {
		t.Fatalf("wildly varying values should be low consistency, got %q", got)
	}
}

func TestEffectSizeAntisymmetric(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{3, 4, 5, 6}
	if got := EffectSize(a, b) + EffectSize(b, a); !almostEqual(got, 0) {
		t.Fatalf("expected EffectSize(a,b) == -EffectSize(b,a), sum=%v", got)
	}
}

func TestEffectSizeDegenerateInputs(t *testing.T) {
	if got := EffectSize(nil, []float64{1, 2}); got != 0 {
		t.Fatalf("expected 0 for empty sample, got %v", got)
	}
	if got := EffectSize([]float64{2, 2}, []float64{2, 2}); got != 0 {
		t.Fatalf("expected 0 when pooled deviation is 0, got %v", got)
	}
}

func TestInterpretEffectSizeBands(t *testing.T) {
	cases := []struct {
		d    float64
		want string
	}{
		{0.1, "negligible"},
		{-0.3, "small"},
		{0.6, "medium"},
		{-1.2, "large"},
	}
	for _, tc := range cases {
		if got := InterpretEffectSize(tc.d); got != tc.want {
			t.Fatalf("InterpretEffectSize(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestWeightedMeanLengthMismatch(t *testing.T) {
	if _, err := WeightedMean([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestWeightedMeanZeroWeightsYieldZero(t *testing.T) {
	got, err := WeightedMean([]float64{3, 4}, []float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for zero total weight, got %v", got)
	}
}

func TestWeightedMeanMatchesHandComputation(t *testing.T) {
	got, err := WeightedMean([]float64{1, 3}, []float64{0.25, 0.75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 2.5) {
		t.Fatalf("expected 2.5, got %v", got)
	}
}
