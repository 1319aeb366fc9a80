// internal/report/report.go
// Package report assembles evaluation findings into a top-level report
// structure and renders it as json, csv, or a standalone html page.
// Rendering consumes only already-computed aggregates; nothing here re-runs
// scoring or statistics.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/stats"
)

// Finding summarizes one bias type's outcome across its scenarios.
type Finding struct {
	BiasType      bias.Type `json:"biasType"`
	TestCount     int       `json:"testCount"`
	MeanScore     float64   `json:"meanScore"`
	SeverityScore float64   `json:"severityScore"`
	SeverityLevel string    `json:"severityLevel"`
	Confidence    float64   `json:"confidence"`
	Description   string    `json:"description"`
}

// Report is the top-level evaluation report.
type Report struct {
	GeneratedAt     time.Time                `json:"generatedAt"`
	Model           string                   `json:"model,omitempty"`
	OverallScore    float64                  `json:"overallScore"`
	ZoneStatus      string                   `json:"zoneStatus"`
	Baseline        stats.Baseline           `json:"baseline"`
	DriftDetected   bool                     `json:"driftDetected"`
	DriftMessage    string                   `json:"driftMessage,omitempty"`
	Findings        []Finding                `json:"findings"`
	Summary         stats.Findings           `json:"summary"`
	Scenarios       []bias.AggregatedResults `json:"scenarios"`
	Recommendations []Recommendation         `json:"recommendations"`
}

// Build assembles a report from scenario aggregates. historicalScores feeds
// the baseline zones and drift detection and may be empty for a first run.
func Build(aggs []bias.AggregatedResults, historicalScores []float64) Report {
	summaries, summary := stats.SummarizeByBiasType(aggs)

	confidenceByType := make(map[bias.Type][]float64)
	model := ""
	for _, agg := range aggs {
		confidenceByType[agg.BiasType] = append(confidenceByType[agg.BiasType], agg.MeanConfidence)
		if model == "" {
			model = agg.Model
		}
	}

	findings := make([]Finding, 0, len(summaries))
	for _, s := range summaries {
		severityScore, severityLevel := Severity(s.BiasType, s.Mean)
		confidence := stats.Mean(confidenceByType[s.BiasType])
		findings = append(findings, Finding{
			BiasType:      s.BiasType,
			TestCount:     s.TestCount,
			MeanScore:     s.Mean,
			SeverityScore: severityScore,
			SeverityLevel: severityLevel,
			Confidence:    confidence,
			Description:   fmt.Sprintf("%s scored a mean of %.2f of 5 across %d scenarios (%s severity).", s.BiasType, s.Mean, s.TestCount, severityLevel),
		})
	}

	baseline := stats.ComputeBaseline(historicalScores)
	overall := overallScore(findings)
	drifted, driftMessage := stats.DetectDrift(historicalScores)

	return Report{
		GeneratedAt:     time.Now().UTC(),
		Model:           model,
		OverallScore:    overall,
		ZoneStatus:      baseline.ZoneStatus(overall),
		Baseline:        baseline,
		DriftDetected:   drifted,
		DriftMessage:    driftMessage,
		Findings:        findings,
		Summary:         summary,
		Scenarios:       aggs,
		Recommendations: Recommend(findings),
	}
}

// overallScore weights each finding's severity by its confidence. Lower is
// better: it measures bias, not quality.
func overallScore(findings []Finding) float64 {
	weightedSum := 0.0
	totalWeight := 0.0
	for _, f := range findings {
		weightedSum += f.SeverityScore * f.Confidence
		totalWeight += f.Confidence
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// RenderJSON renders the report as indented JSON.
func RenderJSON(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error rendering json report: %w", err)
	}
	return data, nil
}

// RenderCSV renders the per-scenario aggregates as CSV rows.
func RenderCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"scenario_id", "bias_type", "iterations", "mean", "stddev", "median", "ci95_low", "ci95_high", "consistency", "confidence"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("error writing csv header: %w", err)
	}
	for _, agg := range r.Scenarios {
		row := []string{
			agg.ScenarioID,
			string(agg.BiasType),
			strconv.Itoa(agg.Iterations),
			formatFloat(agg.Mean),
			formatFloat(agg.StdDev),
			formatFloat(agg.Median),
			formatFloat(agg.CI95[0]),
			formatFloat(agg.CI95[1]),
			agg.Consistency,
			formatFloat(agg.MeanConfidence),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("error writing csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error rendering csv report: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Bias Evaluation Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.3rem; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f0f0f0; }
.zone-green { color: #1a7f37; font-weight: bold; }
.zone-yellow { color: #9a6700; font-weight: bold; }
.zone-red { color: #cf222e; font-weight: bold; }
.drift { background: #fff8c5; padding: 0.6rem; border: 1px solid #d4a72c; }
</style>
</head>
<body>
<h1>Bias Evaluation Report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}}{{if .Model}} for model <strong>{{.Model}}</strong>{{end}}.</p>
<p>Overall bias score: <strong>{{printf "%.1f" .OverallScore}}</strong> / 100 &mdash;
zone <span class="zone-{{.ZoneStatus}}">{{.ZoneStatus}}</span></p>
{{if .DriftDetected}}<p class="drift">{{.DriftMessage}}</p>{{end}}

<h2>Findings by Bias Type</h2>
<table>
<tr><th>Bias Type</th><th>Scenarios</th><th>Mean (0-5)</th><th>Severity</th><th>Confidence</th></tr>
{{range .Findings}}
<tr><td>{{.BiasType}}</td><td>{{.TestCount}}</td><td>{{printf "%.2f" .MeanScore}}</td><td>{{.SeverityLevel}} ({{printf "%.0f" .SeverityScore}})</td><td>{{printf "%.2f" .Confidence}}</td></tr>
{{end}}
</table>

<h2>Scenario Detail</h2>
<table>
<tr><th>Scenario</th><th>Iterations</th><th>Mean</th><th>CI95</th><th>Consistency</th></tr>
{{range .Scenarios}}
<tr><td>{{.ScenarioID}}</td><td>{{.Iterations}}</td><td>{{printf "%.2f" .Mean}}</td><td>[{{printf "%.2f" (index .CI95 0)}}, {{printf "%.2f" (index .CI95 1)}}]</td><td>{{.Consistency}}</td></tr>
{{end}}
</table>

<h2>Recommendations</h2>
<table>
<tr><th>Priority</th><th>Bias Type</th><th>Action</th><th>Impact</th><th>Difficulty</th></tr>
{{range .Recommendations}}
<tr><td>{{.Priority}}</td><td>{{.BiasType}}</td><td>{{.ActionTitle}}</td><td>{{.EstimatedImpact}}</td><td>{{.Difficulty}}</td></tr>
{{end}}
</table>
</body>
</html>
`

// RenderHTML renders the report as a standalone HTML page.
func RenderHTML(r Report) ([]byte, error) {
	tmpl, err := template.New("report").Parse(reportTemplateHTML)
	if err != nil {
		return nil, fmt.Errorf("error parsing report template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("error rendering html report: %w", err)
	}
	return buf.Bytes(), nil
}
