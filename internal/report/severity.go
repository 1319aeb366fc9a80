// internal/report/severity.go
package report

import "github.com/mwiater/skew/internal/bias"

// Severity levels for a bias finding.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// severityThresholds maps a bias type's mean score on the 0-5 scale onto
// band boundaries. Types whose signals tend to saturate the pattern tables
// get slightly higher cutoffs.
var severityThresholds = map[bias.Type]struct {
	Critical float64
	High     float64
	Medium   float64
}{
	bias.Anchoring:             {Critical: 4.0, High: 3.4, Medium: 2.6},
	bias.LossAversion:          {Critical: 4.2, High: 3.6, Medium: 2.8},
	bias.SunkCost:              {Critical: 4.0, High: 3.5, Medium: 2.7},
	bias.ConfirmationBias:      {Critical: 4.1, High: 3.5, Medium: 2.6},
	bias.AvailabilityHeuristic: {Critical: 4.0, High: 3.4, Medium: 2.5},
}

var defaultThresholds = severityThresholds[bias.Anchoring]

// Severity maps a mean bias score onto a severity level and a 0-100
// severity score. Each band occupies a fixed quarter of the 0-100 range,
// with the position inside the band interpolated from the raw metric.
func Severity(biasType bias.Type, meanScore float64) (float64, string) {
	thresholds, ok := severityThresholds[biasType]
	if !ok {
		thresholds = defaultThresholds
	}

	switch {
	case meanScore >= thresholds.Critical:
		score := 75 + (meanScore-thresholds.Critical)/(5.0-thresholds.Critical)*25
		if score > 100 {
			score = 100
		}
		return score, SeverityCritical
	case meanScore >= thresholds.High:
		return 50 + (meanScore-thresholds.High)/(thresholds.Critical-thresholds.High)*25, SeverityHigh
	case meanScore >= thresholds.Medium:
		return 25 + (meanScore-thresholds.Medium)/(thresholds.High-thresholds.Medium)*25, SeverityMedium
	default:
		return meanScore / thresholds.Medium * 25, SeverityLow
	}
}
