package validate

import (
	"strings"
	"testing"

	"github.com/mwiater/skew/internal/appconfig"
	"github.com/mwiater/skew/internal/bias"
)

func validScenario() bias.Scenario {
	return bias.Scenario{
		ID:         "anchoring_001",
		BiasType:   bias.Anchoring,
		Prompt:     "A house listed at $850,000. What is your estimate of its fair value?",
		Difficulty: bias.DifficultyMedium,
		Rubric: bias.Rubric{
			Dimensions: []bias.ScoringDimension{
				{Name: "anchor_influence", Description: "anchor influence", ScaleMin: 0, ScaleMax: 5},
				{Name: "numeric_deviation", Description: "numeric deviation", ScaleMin: 0, ScaleMax: 5},
			},
			Weights: map[string]float64{
				"anchor_influence":  0.6,
				"numeric_deviation": 0.4,
			},
		},
	}
}

func TestScenarioValid(t *testing.T) {
	result := Scenario(validScenario())
	if !result.OK() {
		t.Fatalf("expected valid scenario to pass, got errors: %v", result.Errors)
	}
}

func TestScenarioIDFormat(t *testing.T) {
	cases := []struct {
		id string
		ok bool
	}{
		{"anchoring_001", true},
		{"loss_aversion_012", true},
		{"sunk_cost_premise_003", true},
		{"Anchoring1", false},
		{"anchoring_1", false},
		{"anchoring_0001", false},
		{"anchoring-001", false},
		{"001_anchoring", false},
		{"", false},
	}
	for _, tc := range cases {
		s := validScenario()
		s.ID = tc.id
		result := Scenario(s)
		if result.OK() != tc.ok {
			t.Fatalf("id %q: expected ok=%v, got errors %v", tc.id, tc.ok, result.Errors)
		}
	}
}

func TestRubricWeightSumTolerance(t *testing.T) {
	// The boundary sums 0.999 and 1.001 sit exactly at the tolerance and
	// must pass regardless of which way their representation error falls.
	tests := []struct {
		sum     float64
		weights map[string]float64
	}{
		{0.999, map[string]float64{"anchor_influence": 0.599, "numeric_deviation": 0.4}},
		{1.001, map[string]float64{"anchor_influence": 0.601, "numeric_deviation": 0.4}},
		{0.9995, map[string]float64{"anchor_influence": 0.5995, "numeric_deviation": 0.4}},
		{1.0005, map[string]float64{"anchor_influence": 0.6005, "numeric_deviation": 0.4}},
	}
	for _, tt := range tests {
		s := validScenario()
		s.Rubric.Weights = tt.weights
		result := Scenario(s)
		if !result.OK() {
			t.Fatalf("weight sum %v should be within tolerance, got errors %v", tt.sum, result.Errors)
		}
	}
}

func TestRubricWeightSumError(t *testing.T) {
	s := validScenario()
	s.Rubric.Weights = map[string]float64{
		"anchor_influence":  0.5,
		"numeric_deviation": 0.4,
	}
	result := Scenario(s)
	if result.OK() {
		t.Fatal("expected weight sum 0.9 to fail")
	}
	found := false
	for _, msg := range result.Errors {
		if strings.Contains(msg, "0.9000") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected error naming the actual sum, got %v", result.Errors)
	}
}

func TestRubricWeightDimensionBijection(t *testing.T) {
	s := validScenario()
	s.Rubric.Weights = map[string]float64{
		"anchor_influence": 0.6,
		"mystery_axis":     0.4,
	}
	result := Scenario(s)
	if result.OK() {
		t.Fatal("expected errors for orphan weight and unweighted dimension")
	}

	hasOrphan, hasMissing := false, false
	for _, msg := range result.Errors {
		if strings.Contains(msg, "unknown dimension") {
			hasOrphan = true
		}
		if strings.Contains(msg, "no declared weight") {
			hasMissing = true
		}
	}
	if !hasOrphan || !hasMissing {
		t.Fatalf("expected both bijection directions flagged, got %v", result.Errors)
	}
}

func TestRubricScaleBounds(t *testing.T) {
	s := validScenario()
	s.Rubric.Dimensions[0].ScaleMax = 10
	if Scenario(s).OK() {
		t.Fatal("expected scale beyond 5 to fail")
	}
}

func TestRubricMissingDescriptionIsWarning(t *testing.T) {
	s := validScenario()
	s.Rubric.Dimensions[0].Description = ""
	result := Scenario(s)
	if !result.OK() {
		t.Fatalf("missing description must not be an error, got %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for the missing description")
	}
}

func TestConfigUnknownBiasType(t *testing.T) {
	cfg := appconfig.Config{
		Hosts:     []appconfig.Host{{Name: "h", URL: "http://localhost:11434", Model: "llama3.1:8b"}},
		BiasTypes: []string{"anchoring", "recency_bias"},
	}
	result := Config(cfg)
	if result.OK() {
		t.Fatal("expected unknown bias type to fail")
	}
}

func TestConfigNoHostsIsWarning(t *testing.T) {
	result := Config(appconfig.Config{})
	if !result.OK() {
		t.Fatalf("empty host list must not be an error, got %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for missing hosts")
	}
}

func TestGeneratedPromptPlaceholderIsWarning(t *testing.T) {
	result := GeneratedPrompt(bias.GeneratedPrompt{
		ScenarioID: "anchoring_001",
		Iteration:  2,
		Prompt:     "Estimate the value of {{asset}} today.",
	})
	if !result.OK() {
		t.Fatalf("placeholder must be a warning, got errors %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a placeholder warning")
	}
}

func TestTestResultBounds(t *testing.T) {
	result := TestResult(bias.TestResult{
		ScenarioID:      "anchoring_001",
		Iteration:       0,
		DimensionScores: map[string]float64{"anchor_influence": 5.5},
		Overall:         2.5,
		Confidence:      1.2,
	})
	if result.OK() {
		t.Fatal("expected out-of-range dimension and confidence to fail")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected exactly two errors, got %v", result.Errors)
	}
}

func TestCollectionDuplicateIDs(t *testing.T) {
	a := validScenario()
	b := validScenario()
	result := Collection([]bias.Scenario{a, b})
	if result.OK() {
		t.Fatal("expected duplicate ids to fail")
	}
}

func TestCollectionImbalanceWarning(t *testing.T) {
	scenarios := []bias.Scenario{}
	for i := 0; i < 5; i++ {
		s := validScenario()
		s.ID = "anchoring_00" + string(rune('1'+i))
		scenarios = append(scenarios, s)
	}
	lone := validScenario()
	lone.ID = "sunk_cost_001"
	lone.BiasType = bias.SunkCost
	scenarios = append(scenarios, lone)

	result := Collection(scenarios)
	if !result.OK() {
		t.Fatalf("imbalance must be a warning, got errors %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected an imbalance warning")
	}
}
