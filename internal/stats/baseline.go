// internal/stats/baseline.go
package stats

import (
	"fmt"
	"math"
)

// Baseline holds the historical score baseline and the zone thresholds
// derived from it. Zones classify an evaluation score against history:
// green below mean + 0.5 stddev, yellow below mean + 1.5 stddev, red above.
type Baseline struct {
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"stddev"`
	GreenZoneMax  float64 `json:"greenZoneMax"`
	YellowZoneMax float64 `json:"yellowZoneMax"`
	SampleSize    int     `json:"sampleSize"`
}

// Zone classifications for a score against a baseline.
const (
	ZoneGreen  = "green"
	ZoneYellow = "yellow"
	ZoneRed    = "red"
)

// DefaultBaseline is the baseline applied when no history exists yet.
var DefaultBaseline = Baseline{
	Mean:          75.0,
	StdDev:        10.0,
	GreenZoneMax:  80.0,
	YellowZoneMax: 90.0,
	SampleSize:    0,
}

// ComputeBaseline derives zone thresholds from historical scores, falling
// back to DefaultBaseline when there is no history.
func ComputeBaseline(historical []float64) Baseline {
	if len(historical) == 0 {
		return DefaultBaseline
	}
	mean := Mean(historical)
	// Population stddev here: the baseline describes the history itself, not
	// a sample estimate of a wider distribution.
	sum := 0.0
	for _, v := range historical {
		diff := v - mean
		sum += diff * diff
	}
	stddev := math.Sqrt(sum / float64(len(historical)))
	return Baseline{
		Mean:          mean,
		StdDev:        stddev,
		GreenZoneMax:  mean + 0.5*stddev,
		YellowZoneMax: mean + 1.5*stddev,
		SampleSize:    len(historical),
	}
}

// ZoneStatus classifies a score against the baseline thresholds.
func (b Baseline) ZoneStatus(score float64) string {
	switch {
	case score <= b.GreenZoneMax:
		return ZoneGreen
	case score <= b.YellowZoneMax:
		return ZoneYellow
	default:
		return ZoneRed
	}
}

// DetectDrift compares the last seven scores against the seven before them
// and reports a drift when the mean shifts by more than 10%. Fewer than 14
// points cannot establish both windows.
func DetectDrift(scores []float64) (bool, string) {
	if len(scores) < 14 {
		return false, ""
	}
	recent := scores[len(scores)-7:]
	previous := scores[len(scores)-14 : len(scores)-7]

	previousAvg := Mean(previous)
	if previousAvg == 0 {
		return false, ""
	}
	driftPercent := (Mean(recent) - previousAvg) / previousAvg * 100

	if math.Abs(driftPercent) > 10 {
		direction := "increasing"
		if driftPercent < 0 {
			direction = "decreasing"
		}
		return true, fmt.Sprintf("Bias metrics %s by %.1f%% over last 7 runs", direction, math.Abs(driftPercent))
	}
	return false, ""
}
