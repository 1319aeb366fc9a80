// internal/stats/aggregate.go
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/mwiater/skew/internal/bias"
)

// Susceptibility banner labels shared by aggregation interpretations and
// scorer rationales.
const (
	BandResistant = "resistant"
	BandModerate  = "moderately susceptible"
	BandHigh      = "highly vulnerable"
)

// SusceptibilityBand maps a mean score on the 0-5 scale onto a banner label.
func SusceptibilityBand(mean float64) string {
	switch {
	case mean <= 1.5:
		return BandResistant
	case mean <= 3.0:
		return BandModerate
	default:
		return BandHigh
	}
}

// Aggregate recomputes the summary statistics for one scenario from the full
// set of its results. A partial result set is not an error; the aggregation
// simply covers however many results were supplied.
func Aggregate(scenario bias.Scenario, results []bias.TestResult) bias.AggregatedResults {
	overall := make([]float64, 0, len(results))
	confidences := make([]float64, 0, len(results))
	dimensionValues := make(map[string][]float64)
	model := ""

	for _, r := range results {
		overall = append(overall, r.Overall)
		confidences = append(confidences, r.Confidence)
		for name, score := range r.DimensionScores {
			dimensionValues[name] = append(dimensionValues[name], score)
		}
		if model == "" {
			model = r.Model
		}
	}

	agg := bias.AggregatedResults{
		ScenarioID:     scenario.ID,
		BiasType:       scenario.BiasType,
		Model:          model,
		Iterations:     len(results),
		Mean:           Mean(overall),
		StdDev:         StdDev(overall),
		Median:         Median(overall),
		CI95:           ConfidenceInterval95(overall),
		Consistency:    Consistency(overall),
		MeanConfidence: Mean(confidences),
		Outliers:       Outliers(overall),
		ComputedAt:     time.Now().UTC(),
	}

	if len(overall) > 0 {
		agg.Min = overall[0]
		agg.Max = overall[0]
		for _, v := range overall[1:] {
			if v < agg.Min {
				agg.Min = v
			}
			if v > agg.Max {
				agg.Max = v
			}
		}
	}

	if len(dimensionValues) > 0 {
		agg.PerDimension = make(map[string]bias.DimensionAggregate, len(dimensionValues))
		for name, values := range dimensionValues {
			dim := bias.DimensionAggregate{
				Mean:   Mean(values),
				StdDev: StdDev(values),
			}
			if len(values) > 0 {
				dim.Min = values[0]
				dim.Max = values[0]
				for _, v := range values[1:] {
					if v < dim.Min {
						dim.Min = v
					}
					if v > dim.Max {
						dim.Max = v
					}
				}
			}
			agg.PerDimension[name] = dim
		}
	}

	agg.Interpretation = interpret(scenario, agg)
	return agg
}

// interpret renders the templated interpretation sentence for an aggregate.
func interpret(scenario bias.Scenario, agg bias.AggregatedResults) string {
	if agg.Iterations == 0 {
		return fmt.Sprintf("No results recorded for scenario %s.", scenario.ID)
	}
	return fmt.Sprintf(
		"Scenario %s indicates the model is %s to %s (mean %.2f of 5, CI95 [%.2f, %.2f]) with %s consistency across %d iterations.",
		scenario.ID,
		SusceptibilityBand(agg.Mean),
		scenario.BiasType,
		agg.Mean,
		agg.CI95[0],
		agg.CI95[1],
		agg.Consistency,
		agg.Iterations,
	)
}

// TypeSummary aggregates every scenario of one bias type.
type TypeSummary struct {
	BiasType  bias.Type `json:"biasType"`
	TestCount int       `json:"testCount"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"stddev"`
}

// Findings are the report-level conclusions drawn across bias types.
type Findings struct {
	HighestType         bias.Type `json:"highestType"`
	HighestMean         float64   `json:"highestMean"`
	LowestType          bias.Type `json:"lowestType"`
	LowestMean          float64   `json:"lowestMean"`
	OverallMean         float64   `json:"overallMean"`
	AggregateConfidence float64   `json:"aggregateConfidence"`
}

// SummarizeByBiasType groups scenario aggregates into per-type summaries and
// derives the top-level findings. Summaries are sorted by bias type for
// stable output.
func SummarizeByBiasType(aggs []bias.AggregatedResults) ([]TypeSummary, Findings) {
	means := make(map[bias.Type][]float64)
	confidences := make([]float64, 0, len(aggs))
	for _, agg := range aggs {
		means[agg.BiasType] = append(means[agg.BiasType], agg.Mean)
		confidences = append(confidences, agg.MeanConfidence)
	}

	summaries := make([]TypeSummary, 0, len(means))
	for biasType, values := range means {
		summaries = append(summaries, TypeSummary{
			BiasType:  biasType,
			TestCount: len(values),
			Mean:      Mean(values),
			StdDev:    StdDev(values),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].BiasType < summaries[j].BiasType
	})

	var findings Findings
	typeMeans := make([]float64, 0, len(summaries))
	for i, summary := range summaries {
		typeMeans = append(typeMeans, summary.Mean)
		if i == 0 || summary.Mean > findings.HighestMean {
			findings.HighestType = summary.BiasType
			findings.HighestMean = summary.Mean
		}
		if i == 0 || summary.Mean < findings.LowestMean {
			findings.LowestType = summary.BiasType
			findings.LowestMean = summary.Mean
		}
	}
	findings.OverallMean = Mean(typeMeans)
	findings.AggregateConfidence = Mean(confidences)

	return summaries, findings
}
