// internal/bias/types.go
// Package bias defines the domain types shared by the evaluation engine:
// scenarios, rubrics, generated prompts, scores, results, and aggregates.
package bias

import "time"

// Type identifies one of the cognitive biases the suite can probe.
type Type string

const (
	Anchoring             Type = "anchoring"
	LossAversion          Type = "loss_aversion"
	SunkCost              Type = "sunk_cost"
	ConfirmationBias      Type = "confirmation_bias"
	AvailabilityHeuristic Type = "availability_heuristic"
)

// AllTypes lists every supported bias type in canonical order.
var AllTypes = []Type{
	Anchoring,
	LossAversion,
	SunkCost,
	ConfirmationBias,
	AvailabilityHeuristic,
}

// Valid reports whether t is one of the supported bias types.
func (t Type) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Difficulty buckets scenarios by how subtle the bias probe is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty bucket.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ScoringDimension is one named 0-5 axis within a scenario's rubric.
type ScoringDimension struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	ScaleMin         float64           `json:"scaleMin"`
	ScaleMax         float64           `json:"scaleMax"`
	IndicatorPhrases []string          `json:"indicatorPhrases,omitempty"`
	Examples         map[string]string `json:"examples,omitempty"`
}

// Rubric is a scenario's full scoring specification.
type Rubric struct {
	Dimensions          []ScoringDimension `json:"dimensions"`
	Weights             map[string]float64 `json:"weights"`
	InterpretationGuide string             `json:"interpretationGuide,omitempty"`
}

// Scenario is one bias-probing situation with its prompt template and rubric.
type Scenario struct {
	ID                     string     `json:"id"`
	BiasType               Type       `json:"biasType"`
	Category               string     `json:"category,omitempty"`
	Prompt                 string     `json:"prompt"`
	ControlPrompt          string     `json:"controlPrompt,omitempty"`
	Difficulty             Difficulty `json:"difficulty"`
	Tags                   []string   `json:"tags,omitempty"`
	ExpectedBiasIndicators []string   `json:"expectedBiasIndicators,omitempty"`
	Rubric                 Rubric     `json:"rubric"`
}

// GeneratedPrompt is the concrete prompt text produced for one iteration of
// a scenario. It is a deterministic function of (scenario, iteration).
type GeneratedPrompt struct {
	ScenarioID        string            `json:"scenarioId"`
	Iteration         int               `json:"iteration"`
	Prompt            string            `json:"prompt"`
	ControlPrompt     string            `json:"controlPrompt,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	AppliedVariations []int             `json:"appliedVariations"`
}

// IndicatorDetection records whether one declared indicator phrase surfaced
// in a response.
type IndicatorDetection struct {
	Phrase     string  `json:"phrase"`
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
}

// Score is the raw output of the pattern scorer for a single response.
type Score struct {
	ScenarioID         string               `json:"scenarioId"`
	BiasType           Type                 `json:"biasType"`
	DimensionScores    map[string]float64   `json:"dimensionScores"`
	Overall            float64              `json:"overall"`
	Confidence         float64              `json:"confidence"`
	Rationale          string               `json:"rationale"`
	DetectedIndicators []IndicatorDetection `json:"detectedIndicators,omitempty"`
}

// TestResult is one persisted trial of a scenario. Results are written once
// and never mutated.
type TestResult struct {
	ScenarioID      string             `json:"scenarioId"`
	BiasType        Type               `json:"biasType"`
	Iteration       int                `json:"iteration"`
	Model           string             `json:"model"`
	Host            string             `json:"host,omitempty"`
	Response        string             `json:"response"`
	DimensionScores map[string]float64 `json:"dimensionScores"`
	Overall         float64            `json:"overall"`
	Confidence      float64            `json:"confidence"`
	Rationale       string             `json:"rationale,omitempty"`
	Seed            int64              `json:"seed,omitempty"`
	Timestamp       string             `json:"timestamp"`
}

// DimensionAggregate summarizes one rubric dimension across iterations.
type DimensionAggregate struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// AggregatedResults summarizes all trials of one scenario. It is recomputed
// from the full result set, never patched incrementally.
type AggregatedResults struct {
	ScenarioID     string                        `json:"scenarioId"`
	BiasType       Type                          `json:"biasType"`
	Model          string                        `json:"model,omitempty"`
	Iterations     int                           `json:"iterations"`
	Mean           float64                       `json:"mean"`
	StdDev         float64                       `json:"stddev"`
	Median         float64                       `json:"median"`
	Min            float64                       `json:"min"`
	Max            float64                       `json:"max"`
	CI95           [2]float64                    `json:"ci95"`
	Consistency    string                        `json:"consistency"`
	MeanConfidence float64                       `json:"meanConfidence"`
	Outliers       []int                         `json:"outliers,omitempty"`
	// Control-arm comparison, populated only when control trials ran.
	ControlMean     float64                       `json:"controlMean,omitempty"`
	EffectSize      float64                       `json:"effectSize,omitempty"`
	EffectMagnitude string                        `json:"effectMagnitude,omitempty"`
	PerDimension    map[string]DimensionAggregate `json:"perDimension,omitempty"`
	Interpretation  string                        `json:"interpretation"`
	ComputedAt      time.Time                     `json:"computedAt"`
}
