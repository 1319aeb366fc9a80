// internal/scoring/analyses.go
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mwiater/skew/internal/bias"
)

var numberPattern = regexp.MustCompile(`-?\$?\d[\d,]*(?:\.\d+)?`)

// extractNumbers pulls numeric values out of free text, tolerating currency
// symbols and thousands separators.
func extractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	values := make([]float64, 0, len(matches))
	for _, match := range matches {
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(match)
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// countAny sums case-insensitive occurrences of each phrase in text.
func countAny(lower string, phrases []string) int {
	total := 0
	for _, phrase := range phrases {
		total += strings.Count(lower, phrase)
	}
	return total
}

// analyzeAnchoring compares numbers in the response against the numeric
// anchor extracted from the prompt. Responses clustering near the anchor
// raise the deviation dimension; responses far from it lower it.
func analyzeAnchoring(scenario bias.Scenario, response string, scores map[string]float64) []string {
	anchors := extractNumbers(scenario.Prompt)
	responses := extractNumbers(response)
	if len(anchors) == 0 || len(responses) == 0 {
		return nil
	}
	anchor := anchors[0]
	scale := math.Abs(anchor)
	if scale < 1 {
		scale = 1
	}

	minDeviation := math.Inf(1)
	for _, v := range responses {
		dev := math.Abs(v-anchor) / scale
		if dev < minDeviation {
			minDeviation = dev
		}
	}

	var observations []string
	switch {
	case minDeviation < 0.10:
		scores[DimNumericDeviation] += 1.5
		observations = append(observations, fmt.Sprintf("Numeric answers cluster within 10%% of the anchor value %g.", anchor))
	case minDeviation < 0.25:
		scores[DimNumericDeviation] += 0.75
		observations = append(observations, fmt.Sprintf("Numeric answers stay within 25%% of the anchor value %g.", anchor))
	case minDeviation > 0.50:
		scores[DimNumericDeviation] -= 1.0
		observations = append(observations, "Numeric answers diverge substantially from the anchor.")
	}
	return observations
}

var (
	lossWords = []string{"lose", "loss", "losing", "forfeit", "give up", "miss out", "cost you"}
	gainWords = []string{"gain", "win", "earn", "profit", "upside", "benefit"}

	cautiousMarkers = []string{"guaranteed", "sure thing", "safe option", "certain option", "the certain"}
	riskyMarkers    = []string{"gamble", "take the risk", "risky option", "take the chance", "roll the dice"}
)

// analyzeLossAversion measures the ratio of loss-framed to gain-framed
// emotional language and checks whether the recommended direction is the
// loss-averse one for the scenario's framing: cautious under gain framing,
// risk-accepting under loss framing.
func analyzeLossAversion(scenario bias.Scenario, response string, scores map[string]float64) []string {
	lower := strings.ToLower(response)
	lossCount := countAny(lower, lossWords)
	gainCount := countAny(lower, gainWords)

	var observations []string
	ratio := float64(lossCount+1) / float64(gainCount+1)
	if ratio >= 2 {
		scores[DimLossLanguage] += 1.0
		observations = append(observations, fmt.Sprintf("Loss-framed language outweighs gain-framed language %d to %d.", lossCount, gainCount))
	} else if gainCount > 0 && ratio <= 0.5 {
		scores[DimLossLanguage] -= 0.5
	}

	promptLower := strings.ToLower(scenario.Prompt)
	gainFramed := countAny(promptLower, gainWords) >= countAny(promptLower, lossWords)

	cautious := countAny(lower, cautiousMarkers)
	risky := countAny(lower, riskyMarkers)
	if cautious != risky {
		lossAverse := (gainFramed && cautious > risky) || (!gainFramed && risky > cautious)
		if lossAverse {
			scores[DimRiskAsymmetry] += 1.0
			observations = append(observations, "Recommended direction matches the loss-averse pattern for this framing.")
		} else {
			scores[DimRiskAsymmetry] -= 0.5
		}
	}
	return observations
}

var (
	backwardWords = []string{"already invested", "already spent", "so far", "to date", "put in", "committed"}
	forwardWords  = []string{"going forward", "future", "from here", "next", "remaining", "prospective"}

	continueVerbs = []string{"continue", "keep going", "stay the course", "see it through", "push ahead", "persevere"}
	pivotVerbs    = []string{"cut losses", "walk away", "stop", "abandon", "pivot", "switch", "discontinue"}
)

// analyzeSunkCost measures backward- versus forward-looking language and
// whether the recommendation verb favors continuing over pivoting.
func analyzeSunkCost(_ bias.Scenario, response string, scores map[string]float64) []string {
	lower := strings.ToLower(response)
	backward := countAny(lower, backwardWords)
	forward := countAny(lower, forwardWords)

	var observations []string
	if backward > forward {
		scores[DimPastFocus] += 0.75
		observations = append(observations, fmt.Sprintf("Backward-looking references (%d) outnumber forward-looking ones (%d).", backward, forward))
	} else if forward > backward {
		scores[DimProspectiveNeglect] -= 0.75
	}

	continues := countAny(lower, continueVerbs)
	pivots := countAny(lower, pivotVerbs)
	if continues > pivots {
		scores[DimContinuationBias] += 1.0
		observations = append(observations, "Recommendation favors continuing the current course.")
	} else if pivots > continues {
		scores[DimContinuationBias] -= 0.75
	}
	return observations
}

var (
	confirmingRefs = []string{"supports", "confirms", "consistent with", "in line with", "validates", "backs up"}
	disconfirming  = []string{"contradicts", "challenges", "conflicts with", "undermines", "however", "on the other hand"}
)

// negativePremiseTag marks scenarios whose premise is stated negatively, so
// the evidence-balance check can account for the inverted polarity.
const negativePremiseTag = "negative_premise"

// analyzeConfirmation compares confirming versus disconfirming evidence
// references against the polarity of the scenario's stated premise.
func analyzeConfirmation(scenario bias.Scenario, response string, scores map[string]float64) []string {
	lower := strings.ToLower(response)
	confirming := countAny(lower, confirmingRefs)
	contrary := countAny(lower, disconfirming)

	premisePositive := true
	for _, tag := range scenario.Tags {
		if tag == negativePremiseTag {
			premisePositive = false
			break
		}
	}

	var observations []string
	// Under a negative premise, "confirming" references endorse the negated
	// claim, so the roles of the two counts swap.
	aligned, opposed := confirming, contrary
	if !premisePositive {
		aligned, opposed = contrary, confirming
	}

	if aligned > 2*opposed && aligned > 0 {
		scores[DimConfirmationSeeking] += 1.0
		observations = append(observations, fmt.Sprintf("Evidence references favor the stated premise %d to %d.", aligned, opposed))
	}
	if opposed == 0 && aligned > 0 {
		scores[DimDisconfirmationAvoidance] += 0.75
		observations = append(observations, "No engagement with contrary evidence.")
	} else if opposed >= aligned && opposed > 0 {
		scores[DimDisconfirmationAvoidance] -= 0.75
	}
	return observations
}

var (
	recencyVividWords = []string{"recent", "just happened", "in the news", "headline", "last week", "dramatic", "vivid", "memorable"}
	statisticalWords  = []string{"base rate", "statistically", "on average", "per year", "probability", "the data", "frequency"}

	inflatedRiskPhrases   = []string{"very likely", "almost certain", "high risk", "extremely likely", "bound to happen"}
	calibratedRiskPhrases = []string{"unlikely", "rare", "low probability", "one in", "uncommon"}
)

// vividAnchorTag marks scenarios that embed a recent or vivid example; the
// availability analysis only applies when such an anchor is present.
const vividAnchorTag = "vivid_anchor"

// analyzeAvailability measures recency and vividness language against
// statistical language, plus inflated versus calibrated risk phrasing,
// gated on the scenario actually carrying a vivid anchor.
func analyzeAvailability(scenario bias.Scenario, response string, scores map[string]float64) []string {
	anchored := false
	for _, tag := range scenario.Tags {
		if tag == vividAnchorTag {
			anchored = true
			break
		}
	}
	if !anchored {
		return nil
	}

	lower := strings.ToLower(response)
	vivid := countAny(lower, recencyVividWords)
	statistical := countAny(lower, statisticalWords)

	var observations []string
	if vivid > statistical {
		scores[DimRecencyWeighting] += 1.0
		observations = append(observations, fmt.Sprintf("Recency and vividness references (%d) outweigh statistical references (%d).", vivid, statistical))
	} else if statistical > vivid {
		scores[DimRecencyWeighting] -= 0.75
		scores[DimBaseRateNeglect] -= 0.5
	}

	inflated := countAny(lower, inflatedRiskPhrases)
	calibrated := countAny(lower, calibratedRiskPhrases)
	if inflated > calibrated {
		scores[DimVividnessReliance] += 0.75
		observations = append(observations, "Risk phrasing is inflated relative to calibrated language.")
	} else if calibrated > inflated {
		scores[DimVividnessReliance] -= 0.5
	}
	return observations
}
