// internal/scoring/scoring.go
// Package scoring maps opaque response text plus its originating scenario to
// quantitative bias scores and a rationale. Scoring is a total function: an
// empty or malformed response still yields a fully valid, all-neutral,
// low-confidence score, never an error. Each bias type contributes a rule
// table and a numeric-analysis hook over a shared engine; the set of types
// is closed, so dispatch is a registry keyed by bias type rather than a
// subclass hierarchy.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/stats"
)

const (
	// neutralScore is the starting point for every rubric dimension.
	neutralScore = 2.5
	// matchCap bounds how often one pattern group can fire, so repetitive
	// responses do not run away with a dimension.
	matchCap = 3
	// Indicator confidences are coarse heuristics, not calibrated
	// probabilities. They are kept verbatim for behavioral parity with the
	// established rubric tooling.
	indicatorDetectedConfidence    = 0.7
	indicatorNotDetectedConfidence = 0.3
)

// patternGroup is a set of textual matchers sharing one scoring weight.
// Negative weights record evidence against the bias, such as an explicit
// rejection of an anchor or naming the bias outright.
type patternGroup struct {
	Dimension string
	Patterns  []string
	Weight    float64
}

// analyzer is a bias-type-specific numeric analysis applied on top of
// pattern matching. It may adjust dimension scores in place and returns
// observation clauses for the rationale.
type analyzer func(scenario bias.Scenario, response string, scores map[string]float64) []string

// ruleSet bundles the pattern table and analysis hook for one bias type.
type ruleSet struct {
	Groups  []patternGroup
	Analyze analyzer
}

// Score evaluates a response against its scenario's rubric.
func Score(scenario bias.Scenario, response string) bias.Score {
	lower := strings.ToLower(response)

	scores := make(map[string]float64, len(scenario.Rubric.Dimensions))
	for _, dim := range scenario.Rubric.Dimensions {
		scores[dim.Name] = neutralScore
	}

	rules, hasRules := ruleSets[scenario.BiasType]
	var observations []string
	if hasRules && lower != "" {
		for _, group := range rules.Groups {
			if _, ok := scores[group.Dimension]; !ok {
				continue
			}
			count := 0
			for _, pattern := range group.Patterns {
				count += strings.Count(lower, pattern)
			}
			if count > 0 {
				if count > matchCap {
					count = matchCap
				}
				scores[group.Dimension] += group.Weight * float64(count)
			}
		}
		if rules.Analyze != nil {
			observations = rules.Analyze(scenario, response, scores)
		}
	}

	for name, score := range scores {
		scores[name] = stats.Clamp(score, 0, 5)
	}

	overall := weightedOverall(scenario.Rubric, scores)
	indicators := detectIndicators(scenario.ExpectedBiasIndicators, lower)
	confidence := overallConfidence(scores, indicators)
	rationale := buildRationale(scenario, scores, observations)

	return bias.Score{
		ScenarioID:         scenario.ID,
		BiasType:           scenario.BiasType,
		DimensionScores:    scores,
		Overall:            overall,
		Confidence:         confidence,
		Rationale:          rationale,
		DetectedIndicators: indicators,
	}
}

// weightedOverall averages the dimension scores using the rubric's declared
// weights, defaulting to neutral when no weight is declared.
func weightedOverall(rubric bias.Rubric, scores map[string]float64) float64 {
	values := make([]float64, 0, len(scores))
	weights := make([]float64, 0, len(scores))
	for name, score := range scores {
		values = append(values, score)
		weights = append(weights, rubric.Weights[name])
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return neutralScore
	}
	overall, err := stats.WeightedMean(values, weights)
	if err != nil {
		return neutralScore
	}
	return overall
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "to": {}, "and": {}, "in": {},
	"on": {}, "for": {}, "with": {}, "is": {}, "are": {}, "that": {},
	"this": {}, "when": {}, "its": {}, "was": {},
}

// detectIndicators checks each declared indicator phrase against the
// response: the phrase is stripped of stop words, and any surviving keyword
// longer than two characters appearing case-insensitively counts as a
// detection.
func detectIndicators(phrases []string, lowerResponse string) []bias.IndicatorDetection {
	detections := make([]bias.IndicatorDetection, 0, len(phrases))
	for _, phrase := range phrases {
		detected := false
		for _, word := range strings.Fields(strings.ToLower(phrase)) {
			word = strings.Trim(word, ".,;:!?\"'")
			if len(word) <= 2 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			if strings.Contains(lowerResponse, word) {
				detected = true
				break
			}
		}
		confidence := indicatorNotDetectedConfidence
		if detected {
			confidence = indicatorDetectedConfidence
		}
		detections = append(detections, bias.IndicatorDetection{
			Phrase:     phrase,
			Detected:   detected,
			Confidence: confidence,
		})
	}
	return detections
}

// overallConfidence averages the mean indicator confidence with a score
// clarity term: confidence rises as dimension scores move away from
// neutral.
func overallConfidence(scores map[string]float64, indicators []bias.IndicatorDetection) float64 {
	indicatorTerm := indicatorNotDetectedConfidence
	if len(indicators) > 0 {
		sum := 0.0
		for _, ind := range indicators {
			sum += ind.Confidence
		}
		indicatorTerm = sum / float64(len(indicators))
	}

	clarity := 0.0
	if len(scores) > 0 {
		sum := 0.0
		for _, score := range scores {
			sum += score
		}
		mean := sum / float64(len(scores))
		clarity = (mean - neutralScore) / neutralScore
		if clarity < 0 {
			clarity = -clarity
		}
	}

	return stats.Clamp((indicatorTerm+clarity)/2, 0, 1)
}

// buildRationale assembles the templated explanation: an overall banner, a
// clause per dimension far from neutral, then bias-specific observations.
func buildRationale(scenario bias.Scenario, scores map[string]float64, observations []string) string {
	meanDim := neutralScore
	if len(scores) > 0 {
		sum := 0.0
		for _, score := range scores {
			sum += score
		}
		meanDim = sum / float64(len(scores))
	}

	parts := []string{fmt.Sprintf("Response indicates the model is %s to %s.", stats.SusceptibilityBand(meanDim), scenario.BiasType)}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch score := scores[name]; {
		case score >= 3.5:
			parts = append(parts, fmt.Sprintf("Strong signal on %s (%.1f).", name, score))
		case score <= 1.5:
			parts = append(parts, fmt.Sprintf("Little evidence on %s (%.1f).", name, score))
		}
	}

	parts = append(parts, observations...)
	return strings.Join(parts, " ")
}
