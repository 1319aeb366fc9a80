// internal/validate/validate.go
// Package validate enforces structural invariants at every creation
// boundary: scenario authoring, configuration, generated prompts, results,
// and whole collections. Checks return a Result carrying hard errors (which
// block use) separately from advisory warnings; nothing in this package
// panics on malformed input.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/mwiater/skew/internal/appconfig"
	"github.com/mwiater/skew/internal/bias"
)

// weightSumTolerance is how far a rubric's weight sum may drift from 1.0.
const weightSumTolerance = 0.001

// scenarioIDPattern requires a lowercase label plus exactly three digits,
// e.g. anchoring_001 or loss_aversion_012.
var scenarioIDPattern = regexp.MustCompile(`^[a-z]+(?:_[a-z]+)*_[0-9]{3}$`)

// placeholderPattern flags template markers that survived generation.
var placeholderPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)

// Result accumulates validation findings. Errors block the validated object
// from being used; warnings are advisory only.
type Result struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OK reports whether the validated object is usable.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge folds another result's findings into r.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Scenario checks a single scenario's structural invariants.
func Scenario(s bias.Scenario) Result {
	var result Result

	if strings.TrimSpace(s.ID) == "" {
		result.errorf("scenario id is empty")
	} else if !scenarioIDPattern.MatchString(s.ID) {
		result.errorf("scenario id %q does not match label_NNN (lowercase label plus exactly three digits)", s.ID)
	}

	if !s.BiasType.Valid() {
		result.errorf("scenario %s: unknown bias type %q", s.ID, s.BiasType)
	}
	if !s.Difficulty.Valid() {
		result.errorf("scenario %s: unknown difficulty %q", s.ID, s.Difficulty)
	}
	if strings.TrimSpace(s.Prompt) == "" {
		result.errorf("scenario %s: prompt is empty", s.ID)
	}

	result.Merge(rubric(s.ID, s.Rubric))
	return result
}

// rubric checks weight-sum and dimension/weight correspondence.
func rubric(scenarioID string, r bias.Rubric) Result {
	var result Result

	if len(r.Dimensions) == 0 {
		result.errorf("scenario %s: rubric declares no dimensions", scenarioID)
		return result
	}

	seen := make(map[string]struct{}, len(r.Dimensions))
	for _, dim := range r.Dimensions {
		name := strings.TrimSpace(dim.Name)
		if name == "" {
			result.errorf("scenario %s: rubric dimension with empty name", scenarioID)
			continue
		}
		if _, dup := seen[name]; dup {
			result.errorf("scenario %s: duplicate rubric dimension %q", scenarioID, name)
		}
		seen[name] = struct{}{}

		if dim.ScaleMin < 0 || dim.ScaleMax > 5 || dim.ScaleMin >= dim.ScaleMax {
			result.errorf("scenario %s: dimension %q scale [%g, %g] must lie within [0, 5]", scenarioID, name, dim.ScaleMin, dim.ScaleMax)
		}
		if strings.TrimSpace(dim.Description) == "" {
			result.warnf("scenario %s: dimension %q has no description", scenarioID, name)
		}

		if _, ok := r.Weights[name]; !ok {
			result.errorf("scenario %s: dimension %q has no declared weight", scenarioID, name)
		}
	}

	sum := 0.0
	for name, weight := range r.Weights {
		sum += weight
		if _, ok := seen[name]; !ok {
			result.errorf("scenario %s: weight declared for unknown dimension %q", scenarioID, name)
		}
	}
	// The epsilon keeps boundary sums like 0.999 inside the tolerance even
	// when their binary representation error lands just above it.
	if math.Abs(sum-1.0) > weightSumTolerance+1e-9 {
		result.errorf("scenario %s: rubric weights sum to %.4f, expected 1.0 within %.3f", scenarioID, sum, weightSumTolerance)
	}

	return result
}

// Config checks the evaluation configuration for usable values.
func Config(cfg appconfig.Config) Result {
	var result Result

	for _, t := range cfg.SelectedBiasTypes() {
		if !t.Valid() {
			result.errorf("config: unknown bias type %q", t)
		}
	}

	if cfg.Iterations < 0 {
		result.errorf("config: iterations must not be negative, got %d", cfg.Iterations)
	}
	if cfg.Adaptive.Enabled {
		minIter, maxIter := cfg.IterationBounds()
		if minIter > maxIter {
			result.errorf("config: adaptive minIterations %d exceeds maxIterations %d", minIter, maxIter)
		}
		if cfg.Adaptive.CVThreshold < 0 {
			result.errorf("config: adaptive cvThreshold must not be negative, got %g", cfg.Adaptive.CVThreshold)
		}
	}
	if cfg.Difficulty != "" && !bias.Difficulty(cfg.Difficulty).Valid() {
		result.errorf("config: unknown difficulty filter %q", cfg.Difficulty)
	}
	if len(cfg.Hosts) == 0 {
		result.warnf("config: no hosts configured; only offline commands will work")
	}

	return result
}

// GeneratedPrompt checks a generated prompt before it is handed to the
// orchestration layer.
func GeneratedPrompt(p bias.GeneratedPrompt) Result {
	var result Result

	if strings.TrimSpace(p.ScenarioID) == "" {
		result.errorf("generated prompt has no scenario id")
	}
	if p.Iteration < 0 {
		result.errorf("generated prompt for %s has negative iteration %d", p.ScenarioID, p.Iteration)
	}
	if strings.TrimSpace(p.Prompt) == "" {
		result.errorf("generated prompt for %s iteration %d is empty", p.ScenarioID, p.Iteration)
	}
	if leftovers := placeholderPattern.FindAllString(p.Prompt, -1); len(leftovers) > 0 {
		result.warnf("generated prompt for %s iteration %d contains unresolved placeholders: %s", p.ScenarioID, p.Iteration, strings.Join(leftovers, ", "))
	}

	return result
}

// TestResult checks a scored trial's numeric fields against their declared
// bounds.
func TestResult(r bias.TestResult) Result {
	var result Result

	if strings.TrimSpace(r.ScenarioID) == "" {
		result.errorf("result has no scenario id")
	}
	if r.Iteration < 0 {
		result.errorf("result for %s has negative iteration %d", r.ScenarioID, r.Iteration)
	}
	for name, score := range r.DimensionScores {
		if score < 0 || score > 5 {
			result.errorf("result for %s: dimension %q score %.2f outside [0, 5]", r.ScenarioID, name, score)
		}
	}
	if r.Overall < 0 || r.Overall > 5 {
		result.errorf("result for %s: overall score %.2f outside [0, 5]", r.ScenarioID, r.Overall)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		result.errorf("result for %s: confidence %.2f outside [0, 1]", r.ScenarioID, r.Confidence)
	}

	return result
}

// Collection checks a full scenario set: per-scenario invariants, duplicate
// ids, and corpus balance across bias types.
func Collection(scenarios []bias.Scenario) Result {
	var result Result

	seen := make(map[string]struct{}, len(scenarios))
	counts := make(map[bias.Type]int)
	for _, s := range scenarios {
		result.Merge(Scenario(s))
		if _, dup := seen[s.ID]; dup {
			result.errorf("duplicate scenario id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		counts[s.BiasType]++
	}

	if len(counts) > 1 {
		rarest, commonest := math.MaxInt, 0
		var rarestType, commonestType bias.Type
		for biasType, count := range counts {
			if count < rarest {
				rarest, rarestType = count, biasType
			}
			if count > commonest {
				commonest, commonestType = count, biasType
			}
		}
		if commonest > 2*rarest {
			result.warnf("corpus imbalance: %s has %d scenarios while %s has only %d", commonestType, commonest, rarestType, rarest)
		}
	}

	return result
}
