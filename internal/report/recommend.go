// internal/report/recommend.go
package report

import (
	"sort"

	"github.com/mwiater/skew/internal/bias"
)

// Impact and difficulty levels for a recommendation template.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"

	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyComplex  = "complex"
)

// maxRecommendations caps how many prioritized recommendations a report carries.
const maxRecommendations = 7

// Recommendation is one prioritized mitigation suggestion.
type Recommendation struct {
	BiasType              bias.Type `json:"biasType"`
	Priority              int       `json:"priority"`
	ActionTitle           string    `json:"actionTitle"`
	TechnicalDescription  string    `json:"technicalDescription"`
	SimplifiedDescription string    `json:"simplifiedDescription"`
	EstimatedImpact       string    `json:"estimatedImpact"`
	Difficulty            string    `json:"difficulty"`
}

type recommendationTemplate struct {
	ActionTitle           string
	TechnicalDescription  string
	SimplifiedDescription string
	EstimatedImpact       string
	Difficulty            string
}

var recommendationTemplates = map[bias.Type][]recommendationTemplate{
	bias.Anchoring: {
		{
			ActionTitle:           "Implement multi-perspective prompting",
			TechnicalDescription:  "Restructure prompts to present multiple baseline values before eliciting a response. Use randomized anchor values across test scenarios to reduce single-anchor dependency.",
			SimplifiedDescription: "Present multiple starting points to prevent over-reliance on the first value shown",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyEasy,
		},
		{
			ActionTitle:           "Add anchor-blind evaluation phase",
			TechnicalDescription:  "Run two-stage evaluation: initial assessment without context, then contextualized refinement. Compare outputs to measure anchor influence.",
			SimplifiedDescription: "Make initial decisions without reference points, then add context separately",
			EstimatedImpact:       ImpactMedium,
			Difficulty:            DifficultyModerate,
		},
		{
			ActionTitle:           "Randomize information presentation order",
			TechnicalDescription:  "Shuffle the order in which data points are presented. Track variance across orderings to identify order-dependency.",
			SimplifiedDescription: "Change the order information is shown to reduce first-impression bias",
			EstimatedImpact:       ImpactMedium,
			Difficulty:            DifficultyEasy,
		},
	},
	bias.LossAversion: {
		{
			ActionTitle:           "Normalize gain/loss framing",
			TechnicalDescription:  "Present scenarios in both gain-framed and loss-framed versions and verify equivalent scenarios receive equivalent treatment regardless of framing.",
			SimplifiedDescription: "Ensure positive and negative outcomes are weighted equally",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyModerate,
		},
		{
			ActionTitle:           "Implement risk-neutral scoring",
			TechnicalDescription:  "Apply expected-value comparison to recommended options rather than prospect-theory style evaluation.",
			SimplifiedDescription: "Focus on actual probability and impact rather than emotional response to risk",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyComplex,
		},
		{
			ActionTitle:           "Add loss aversion detection layer",
			TechnicalDescription:  "Monitor outputs for asymmetric gain/loss responses and flag decisions showing a sensitivity differential above 1.5x.",
			SimplifiedDescription: "Automatically detect when the system over-reacts to potential losses",
			EstimatedImpact:       ImpactMedium,
			Difficulty:            DifficultyModerate,
		},
	},
	bias.SunkCost: {
		{
			ActionTitle:           "Implement forward-looking decision framework",
			TechnicalDescription:  "Structure prompts to focus exclusively on future costs and benefits, excluding historical investment data from decision-relevant context.",
			SimplifiedDescription: "Make decisions based only on future outcomes, ignoring past investments",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyEasy,
		},
		{
			ActionTitle:           "Add sunk cost filter",
			TechnicalDescription:  "Detect historical cost references in the reasoning chain and strip or flag them before the final decision.",
			SimplifiedDescription: "Remove information about past investments from the decision-making process",
			EstimatedImpact:       ImpactMedium,
			Difficulty:            DifficultyModerate,
		},
		{
			ActionTitle:           "Use incremental value analysis",
			TechnicalDescription:  "Evaluate each decision as if starting fresh, comparing continue-versus-switch using only prospective analysis.",
			SimplifiedDescription: "Evaluate each choice as if it's the first decision being made",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyModerate,
		},
	},
	bias.ConfirmationBias: {
		{
			ActionTitle:           "Implement adversarial evidence search",
			TechnicalDescription:  "For each hypothesis, generate and evaluate counter-arguments; require engagement with the strongest contradictory evidence before finalizing a position.",
			SimplifiedDescription: "Actively search for and consider evidence that contradicts initial thinking",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyModerate,
		},
		{
			ActionTitle:           "Add belief revision tracking",
			TechnicalDescription:  "Monitor whether the model updates beliefs when presented with contradictory evidence; score Bayesian updating rather than position consistency.",
			SimplifiedDescription: "Track and reward changing opinions when new evidence appears",
			EstimatedImpact:       ImpactMedium,
			Difficulty:            DifficultyComplex,
		},
		{
			ActionTitle:           "Use blind evidence evaluation",
			TechnicalDescription:  "Present evidence without labels indicating whether it supports the current hypothesis; measure weight assignment before revealing relevance.",
			SimplifiedDescription: "Evaluate evidence quality before knowing if it supports the current position",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyModerate,
		},
	},
	bias.AvailabilityHeuristic: {
		{
			ActionTitle:           "Incorporate base rate priming",
			TechnicalDescription:  "Provide statistical base rates and frequency data before eliciting probability judgments; weight base rates above anecdotal examples.",
			SimplifiedDescription: "Start with actual statistics before considering individual examples",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyEasy,
		},
		{
			ActionTitle:           "Implement recency weighting correction",
			TechnicalDescription:  "Apply inverse recency weights to examples and normalize for vividness to prevent availability-driven estimates.",
			SimplifiedDescription: "Reduce the influence of recent or memorable events in predictions",
			EstimatedImpact:       ImpactMedium,
			Difficulty:            DifficultyComplex,
		},
		{
			ActionTitle:           "Use frequency-based sampling",
			TechnicalDescription:  "Sample examples proportionally to true frequency rather than availability; prefer representative sampling over convenient sampling.",
			SimplifiedDescription: "Choose examples based on how common they actually are, not how easy to recall",
			EstimatedImpact:       ImpactHigh,
			Difficulty:            DifficultyModerate,
		},
	},
}

var impactScores = map[string]float64{
	ImpactLow:    5,
	ImpactMedium: 10,
	ImpactHigh:   15,
}

// priority combines severity, confidence, and impact into a 1-10 ranking.
func priority(severityScore, confidence float64, impact string) int {
	impactScore, ok := impactScores[impact]
	if !ok {
		impactScore = impactScores[ImpactMedium]
	}
	raw := severityScore*0.6 + confidence*30 + impactScore*0.1
	normalized := int(raw/100*9) + 1
	if normalized < 1 {
		normalized = 1
	}
	if normalized > 10 {
		normalized = 10
	}
	return normalized
}

// Recommend produces the prioritized mitigation list for a set of findings,
// sorted by priority descending and capped at seven entries.
func Recommend(findings []Finding) []Recommendation {
	var recommendations []Recommendation
	for _, finding := range findings {
		for _, template := range recommendationTemplates[finding.BiasType] {
			recommendations = append(recommendations, Recommendation{
				BiasType:              finding.BiasType,
				Priority:              priority(finding.SeverityScore, finding.Confidence, template.EstimatedImpact),
				ActionTitle:           template.ActionTitle,
				TechnicalDescription:  template.TechnicalDescription,
				SimplifiedDescription: template.SimplifiedDescription,
				EstimatedImpact:       template.EstimatedImpact,
				Difficulty:            template.Difficulty,
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority > recommendations[j].Priority
	})
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}
