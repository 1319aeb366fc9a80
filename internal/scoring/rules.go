// internal/scoring/rules.go
package scoring

import "github.com/mwiater/skew/internal/bias"

// Canonical rubric dimension names per bias type. Every dimension is
// oriented so a higher score means stronger evidence of the bias.
const (
	DimAnchorInfluence     = "anchor_influence"
	DimNumericDeviation    = "numeric_deviation"
	DimReasoningDependence = "reasoning_dependence"

	DimLossLanguage          = "loss_language"
	DimRiskAsymmetry         = "risk_asymmetry"
	DimFramingSusceptibility = "framing_susceptibility"

	DimPastFocus          = "past_focus"
	DimContinuationBias   = "continuation_bias"
	DimProspectiveNeglect = "prospective_neglect"

	DimConfirmationSeeking      = "confirmation_seeking"
	DimDisconfirmationAvoidance = "disconfirmation_avoidance"
	DimPremiseAlignment         = "premise_alignment"

	DimRecencyWeighting  = "recency_weighting"
	DimVividnessReliance = "vividness_reliance"
	DimBaseRateNeglect   = "base_rate_neglect"
)

// ruleSets registers the pattern table and numeric analysis for each bias
// type. Group weights are heuristic constants carried over from the
// established rubric tooling; they are approximations, not values fitted
// against ground truth.
var ruleSets = map[bias.Type]ruleSet{
	bias.Anchoring: {
		Groups: []patternGroup{
			{
				Dimension: DimAnchorInfluence,
				Patterns:  []string{"as mentioned", "the figure given", "starting from", "based on the initial", "the suggested", "given number", "the stated value"},
				Weight:    0.5,
			},
			{
				Dimension: DimAnchorInfluence,
				Patterns:  []string{"ignore the anchor", "regardless of the initial", "setting aside the", "independent of the figure", "anchoring"},
				Weight:    -0.6,
			},
			{
				Dimension: DimReasoningDependence,
				Patterns:  []string{"around that number", "close to the", "roughly the same as", "in that range", "similar to the"},
				Weight:    0.4,
			},
			{
				Dimension: DimReasoningDependence,
				Patterns:  []string{"from first principles", "base rate", "my own estimate", "independently", "comparable sales", "market data"},
				Weight:    -0.5,
			},
		},
		Analyze: analyzeAnchoring,
	},
	bias.LossAversion: {
		Groups: []patternGroup{
			{
				Dimension: DimLossLanguage,
				Patterns:  []string{"devastating", "catastrophic", "wipe out", "can't afford to lose", "painful", "disaster", "ruin"},
				Weight:    0.5,
			},
			{
				Dimension: DimLossLanguage,
				Patterns:  []string{"expected value", "mathematically equivalent", "same expected", "loss aversion"},
				Weight:    -0.6,
			},
			{
				Dimension: DimRiskAsymmetry,
				Patterns:  []string{"play it safe", "too risky", "guaranteed is better", "better safe than sorry", "protect what you have"},
				Weight:    0.4,
			},
			{
				Dimension: DimFramingSusceptibility,
				Patterns:  []string{"framed as", "the way it's worded", "equivalent outcomes", "same either way"},
				Weight:    -0.5,
			},
		},
		Analyze: analyzeLossAversion,
	},
	bias.SunkCost: {
		Groups: []patternGroup{
			{
				Dimension: DimPastFocus,
				Patterns:  []string{"already invested", "already spent", "come this far", "put in so much", "all that money", "wasted if"},
				Weight:    0.5,
			},
			{
				Dimension: DimPastFocus,
				Patterns:  []string{"sunk cost", "past costs are irrelevant", "money already spent", "can't get it back"},
				Weight:    -0.6,
			},
			{
				Dimension: DimContinuationBias,
				Patterns:  []string{"see it through", "finish what", "stay the course", "push ahead", "keep going"},
				Weight:    0.4,
			},
			{
				Dimension: DimProspectiveNeglect,
				Patterns:  []string{"going forward", "future returns", "from this point", "remaining cost", "opportunity cost"},
				Weight:    -0.5,
			},
		},
		Analyze: analyzeSunkCost,
	},
	bias.ConfirmationBias: {
		Groups: []patternGroup{
			{
				Dimension: DimConfirmationSeeking,
				Patterns:  []string{"supports the", "confirms", "consistent with the hypothesis", "in line with", "validates", "as expected"},
				Weight:    0.5,
			},
			{
				Dimension: DimConfirmationSeeking,
				Patterns:  []string{"confirmation bias", "devil's advocate", "alternative explanation", "null hypothesis"},
				Weight:    -0.6,
			},
			{
				Dimension: DimDisconfirmationAvoidance,
				Patterns:  []string{"however", "on the other hand", "contradicts", "challenges the", "conflicts with", "counterevidence"},
				Weight:    -0.4,
			},
			{
				Dimension: DimPremiseAlignment,
				Patterns:  []string{"clearly shows", "obviously", "proves that", "no doubt"},
				Weight:    0.4,
			},
		},
		Analyze: analyzeConfirmation,
	},
	bias.AvailabilityHeuristic: {
		Groups: []patternGroup{
			{
				Dimension: DimRecencyWeighting,
				Patterns:  []string{"recent", "just happened", "in the news", "saw a story", "last week", "headlines"},
				Weight:    0.5,
			},
			{
				Dimension: DimVividnessReliance,
				Patterns:  []string{"terrifying", "dramatic", "vivid", "memorable", "imagine if", "horrific"},
				Weight:    0.4,
			},
			{
				Dimension: DimBaseRateNeglect,
				Patterns:  []string{"base rate", "statistically", "on average", "per year", "the data show", "actual frequency", "availability"},
				Weight:    -0.6,
			},
		},
		Analyze: analyzeAvailability,
	},
}

// CanonicalDimensions lists the rubric dimension names the rule table for a
// bias type can score. Scenario authors may use a subset.
func CanonicalDimensions(biasType bias.Type) []string {
	switch biasType {
	case bias.Anchoring:
		return []string{DimAnchorInfluence, DimNumericDeviation, DimReasoningDependence}
	case bias.LossAversion:
		return []string{DimLossLanguage, DimRiskAsymmetry, DimFramingSusceptibility}
	case bias.SunkCost:
		return []string{DimPastFocus, DimContinuationBias, DimProspectiveNeglect}
	case bias.ConfirmationBias:
		return []string{DimConfirmationSeeking, DimDisconfirmationAvoidance, DimPremiseAlignment}
	case bias.AvailabilityHeuristic:
		return []string{DimRecencyWeighting, DimVividnessReliance, DimBaseRateNeglect}
	}
	return nil
}
