// internal/stats/stats.go
// Package stats provides the deterministic numeric functions behind result
// aggregation: descriptive statistics, confidence intervals, consistency
// ratings, and effect sizes. Every function is total over arbitrary-length
// input; sparse or empty input degrades to zero defaults rather than failing.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// Consistency labels derived from the coefficient of variation.
const (
	ConsistencyHigh   = "high"
	ConsistencyMedium = "medium"
	ConsistencyLow    = "low"
)

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the sample variance with Bessel's correction, 0 if n < 2.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values)-1)
}

// StdDev returns the sample standard deviation, 0 if n < 2.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Median returns the middle value via linear interpolation, 0 if empty.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between order statistics. Returns 0 for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// IQR returns the interquartile range P75 - P25.
func IQR(values []float64) float64 {
	return Percentile(values, 75) - Percentile(values, 25)
}

// Outliers returns the indices of values outside the 1.5*IQR fences.
// Fewer than 4 points cannot establish fences, so the result is empty.
func Outliers(values []float64) []int {
	if len(values) < 4 {
		return nil
	}
	q1 := Percentile(values, 25)
	q3 := Percentile(values, 75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var indices []int
	for i, v := range values {
		if v < lower || v > upper {
			indices = append(indices, i)
		}
	}
	return indices
}

// tTable maps degrees-of-freedom breakpoints to two-sided 95% critical
// values. The interval selects the first breakpoint >= df, defaulting to
// 1.96 beyond the table. The stepwise lookup is intentional: it reproduces
// the exact interval widths at each breakpoint rather than approximating
// the t-distribution with a continuous formula.
var tTable = []struct {
	df int
	t  float64
}{
	{1, 12.706},
	{2, 4.303},
	{3, 3.182},
	{4, 2.776},
	{5, 2.571},
	{6, 2.447},
	{7, 2.365},
	{8, 2.306},
	{9, 2.262},
	{10, 2.228},
	{15, 2.131},
	{20, 2.086},
	{25, 2.060},
	{30, 2.042},
	{40, 2.021},
	{60, 2.000},
	{100, 1.984},
}

// tValue returns the 95% critical value for the given degrees of freedom.
func tValue(df int) float64 {
	for _, entry := range tTable {
		if df <= entry.df {
			return entry.t
		}
	}
	return 1.96
}

// ConfidenceInterval95 returns the two-sided 95% confidence interval for the
// sample mean. Empty input yields [0,0]; a single value yields [v,v].
func ConfidenceInterval95(values []float64) [2]float64 {
	switch len(values) {
	case 0:
		return [2]float64{0, 0}
	case 1:
		return [2]float64{values[0], values[0]}
	}
	mean := Mean(values)
	stderr := StdDev(values) / math.Sqrt(float64(len(values)))
	margin := tValue(len(values)-1) * stderr
	return [2]float64{mean - margin, mean + margin}
}

// CoefficientOfVariation returns |stddev/mean| as a percentage, 0 when the
// mean is 0 or n < 2.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return math.Abs(StdDev(values)/mean) * 100
}

// Consistency maps the coefficient of variation onto a categorical label.
// A zero mean or fewer than two samples count as high consistency by
// convention: there is no spread to speak of.
func Consistency(values []float64) string {
	if len(values) < 2 || Mean(values) == 0 {
		return ConsistencyHigh
	}
	cv := CoefficientOfVariation(values)
	switch {
	case cv < 15:
		return ConsistencyHigh
	case cv < 30:
		return ConsistencyMedium
	default:
		return ConsistencyLow
	}
}

// EffectSize returns Cohen's d for two samples using the pooled standard
// deviation. It is 0 when either sample is empty or the pooled deviation is
// 0, and antisymmetric: EffectSize(a, b) == -EffectSize(b, a).
func EffectSize(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	na := float64(len(a))
	nb := float64(len(b))
	pooledVar := ((na-1)*Variance(a) + (nb-1)*Variance(b)) / (na + nb - 2)
	if pooledVar <= 0 || math.IsNaN(pooledVar) {
		return 0
	}
	return (Mean(a) - Mean(b)) / math.Sqrt(pooledVar)
}

// InterpretEffectSize maps |d| onto the conventional Cohen bands.
func InterpretEffectSize(d float64) string {
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return "negligible"
	case abs < 0.5:
		return "small"
	case abs < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// WeightedMean returns the weight-averaged value. Mismatched slice lengths
// signal an upstream programming error and are rejected outright; a zero
// total weight yields 0.
func WeightedMean(values, weights []float64) (float64, error) {
	if len(values) != len(weights) {
		return 0, fmt.Errorf("weighted mean: %d values but %d weights", len(values), len(weights))
	}
	totalWeight := 0.0
	weightedSum := 0.0
	for i, v := range values {
		weightedSum += v * weights[i]
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return 0, nil
	}
	return weightedSum / totalWeight, nil
}

// Clamp bounds val to the [lo, hi] interval.
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
