// internal/variation/variation.go
// Package variation turns (scenario, iteration) pairs into concrete prompt
// text. Repeated trials need superficially distinct prompts so measured
// stability is not an artifact of verbatim repetition, while the
// bias-inducing content stays fixed. Generation is a pure function:
// identical inputs always produce identical text.
package variation

import (
	"strings"

	"github.com/mwiater/skew/internal/bias"
)

// substitution rewrites one pivot phrase into an equivalent wording. The
// zero value is the no-op entry every axis carries at index 0.
type substitution struct {
	From string
	To   string
}

// axisSet holds the ordered variation axes for one bias type. Index 0 of
// every axis is the no-op entry, so iteration 0 reproduces the scenario's
// original prompt verbatim. The emphasis axis is optional.
type axisSet struct {
	Intros    []string
	Phrasings []substitution
	Closings  []string
	Emphases  []string
}

// sizes returns the axis sizes in decomposition order.
func (a axisSet) sizes() []int {
	sizes := []int{len(a.Intros), len(a.Phrasings), len(a.Closings)}
	if len(a.Emphases) > 0 {
		sizes = append(sizes, len(a.Emphases))
	}
	return sizes
}

// CycleLength returns the number of distinct prompt variants for a bias
// type. Iteration CycleLength reproduces iteration 0.
func CycleLength(biasType bias.Type) int {
	product := 1
	for _, size := range axesFor(biasType).sizes() {
		product *= size
	}
	return product
}

var sharedClosings = []string{
	"",
	"\n\nExplain your reasoning.",
	"\n\nAnswer in a short paragraph.",
	"\n\nBe as specific as you can.",
}

// Axis tables per bias type. Intro and closing entries carry their own
// surrounding whitespace so application is plain concatenation. Phrasing
// substitutions target the pivot question phrase scenarios of that type are
// authored around; the validator warns when a scenario's prompt lacks its
// pivot.
var axisTables = map[bias.Type]axisSet{
	bias.Anchoring: {
		Intros: []string{
			"",
			"Consider the following situation. ",
			"You are advising a decision maker. ",
			"Take a moment to reason carefully before answering. ",
		},
		Phrasings: []substitution{
			{},
			{From: "What is your estimate", To: "What's your best estimate"},
			{From: "What is your estimate", To: "What figure would you put on it"},
		},
		Closings: sharedClosings,
		Emphases: []string{
			"",
			"\n\nGive a single number before any explanation.",
			"\n\nCommit to a concrete figure.",
		},
	},
	bias.LossAversion: {
		Intros: []string{
			"",
			"Consider the following situation. ",
			"You are advising a decision maker. ",
			"Weigh the options before answering. ",
		},
		Phrasings: []substitution{
			{},
			{From: "Which option would you choose", To: "Which option would you go with"},
			{From: "Which option would you choose", To: "What choice would you make"},
		},
		Closings: sharedClosings,
	},
	bias.SunkCost: {
		Intros: []string{
			"",
			"Consider the following situation. ",
			"You are advising a decision maker. ",
			"Evaluate the situation on its merits. ",
		},
		Phrasings: []substitution{
			{},
			{From: "What would you recommend", To: "What course of action would you advise"},
			{From: "What would you recommend", To: "What would you suggest"},
		},
		Closings: sharedClosings,
	},
	bias.ConfirmationBias: {
		Intros: []string{
			"",
			"Consider the following situation. ",
			"You are reviewing the evidence below. ",
			"Read the details carefully before answering. ",
		},
		Phrasings: []substitution{
			{},
			{From: "What is your assessment", To: "What conclusion do you draw"},
			{From: "What is your assessment", To: "What is your read on this"},
		},
		Closings: sharedClosings,
	},
	bias.AvailabilityHeuristic: {
		Intros: []string{
			"",
			"Consider the following situation. ",
			"You are advising a decision maker. ",
			"Think about the full population of cases. ",
		},
		Phrasings: []substitution{
			{},
			{From: "How likely", To: "How probable"},
			{From: "How likely", To: "How plausible"},
		},
		Closings: sharedClosings,
		Emphases: []string{
			"",
			"\n\nConsider how often this actually happens overall.",
			"\n\nDistinguish memorable cases from typical ones.",
		},
	},
}

// genericAxes covers scenarios with an unknown bias type: intro and closing
// variation only, so generation stays total.
var genericAxes = axisSet{
	Intros: []string{
		"",
		"Consider the following situation. ",
		"You are advising a decision maker. ",
	},
	Phrasings: []substitution{{}},
	Closings:  sharedClosings,
}

func axesFor(biasType bias.Type) axisSet {
	if set, ok := axisTables[biasType]; ok {
		return set
	}
	return genericAxes
}

// PivotPhrase returns the question phrase substitutions for a bias type
// rewrite, or "" when the type has no substitution axis.
func PivotPhrase(biasType bias.Type) string {
	set := axesFor(biasType)
	for _, sub := range set.Phrasings {
		if sub.From != "" {
			return sub.From
		}
	}
	return ""
}

// decompose maps an iteration number onto one index per axis using nested
// integer division and modulo. The axis order and division order are fixed:
// changing either changes which literal text a given iteration produces.
func decompose(iteration int, sizes []int) []int {
	if iteration < 0 {
		iteration = 0
	}
	indices := make([]int, len(sizes))
	rest := iteration
	for i, size := range sizes {
		if size <= 0 {
			indices[i] = 0
			continue
		}
		indices[i] = rest % size
		rest /= size
	}
	return indices
}

// Generate produces the concrete prompt for one iteration of a scenario.
// Iteration 0 reproduces the scenario's prompt and control prompt verbatim.
func Generate(scenario bias.Scenario, iteration int) bias.GeneratedPrompt {
	set := axesFor(scenario.BiasType)
	indices := decompose(iteration, set.sizes())

	introIdx, phraseIdx, closingIdx := indices[0], indices[1], indices[2]
	emphasisIdx := 0
	if len(indices) > 3 {
		emphasisIdx = indices[3]
	}

	// Transformations apply in a fixed order regardless of axis traversal:
	// phrase substitution, then prepend intro, then append emphasis and
	// closing.
	prompt := scenario.Prompt
	if sub := set.Phrasings[phraseIdx]; sub.From != "" {
		prompt = strings.Replace(prompt, sub.From, sub.To, 1)
	}
	prompt = set.Intros[introIdx] + prompt
	if len(set.Emphases) > 0 {
		prompt += set.Emphases[emphasisIdx]
	}
	prompt += set.Closings[closingIdx]

	// The control prompt shares intro, emphasis, and closing variation but
	// not phrase substitution: the pivot phrase is anchored to the biased
	// wording the control deliberately lacks.
	control := ""
	if scenario.ControlPrompt != "" {
		control = set.Intros[introIdx] + scenario.ControlPrompt
		if len(set.Emphases) > 0 {
			control += set.Emphases[emphasisIdx]
		}
		control += set.Closings[closingIdx]
	}

	return bias.GeneratedPrompt{
		ScenarioID:    scenario.ID,
		Iteration:     iteration,
		Prompt:        prompt,
		ControlPrompt: control,
		Metadata: map[string]string{
			"biasType":   string(scenario.BiasType),
			"difficulty": string(scenario.Difficulty),
			"category":   scenario.Category,
		},
		AppliedVariations: indices,
	}
}
