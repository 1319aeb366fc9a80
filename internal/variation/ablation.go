// internal/variation/ablation.go
package variation

import (
	"regexp"
	"strconv"
	"strings"
)

// Ablation transforms probe scoring sensitivity by perturbing a prompt along
// one dimension at a time. They are standalone pure text transforms, not
// part of the iteration cycle.

var recencyCues = regexp.MustCompile(`(?i)\b(just last week|last week|last month|yesterday|recently|in the news|this morning|only days ago)[,]?\s*`)

// StripRecencyCues removes recency markers so availability probes can be
// rerun without their temporal anchor.
func StripRecencyCues(prompt string) string {
	stripped := recencyCues.ReplaceAllString(prompt, "")
	return collapseSpaces(stripped)
}

// AmplifyVividness pushes the scenario toward concrete, emotional imagery.
func AmplifyVividness(prompt string) string {
	return "Vividly imagine this happening to someone you know. " + prompt
}

// StatisticsOnly reframes the prompt to demand base-rate reasoning.
func StatisticsOnly(prompt string) string {
	return prompt + "\n\nIgnore anecdotes and individual stories; rely only on the statistics and base rates provided."
}

// premisePairs are swapped bidirectionally by FlipPremise. Longer forms
// precede their prefixes so plurals swap whole.
var premisePairs = [][2]string{
	{"increase", "decrease"},
	{"gains", "losses"},
	{"gain", "loss"},
	{"success", "failure"},
	{"succeed", "fail"},
	{"above", "below"},
	{"more likely", "less likely"},
	{"positive", "negative"},
}

// FlipPremise inverts the polarity of the scenario's framing by swapping
// each direction word with its opposite. Swaps are simultaneous, so a word
// and its opposite never chain through each other.
func FlipPremise(prompt string) string {
	const sentinel = "\x00"
	flipped := prompt
	for i, pair := range premisePairs {
		flipped = strings.ReplaceAll(flipped, pair[0], sentinel+strconv.Itoa(i)+"a"+sentinel)
		flipped = strings.ReplaceAll(flipped, pair[1], sentinel+strconv.Itoa(i)+"b"+sentinel)
	}
	for i, pair := range premisePairs {
		flipped = strings.ReplaceAll(flipped, sentinel+strconv.Itoa(i)+"a"+sentinel, pair[1])
		flipped = strings.ReplaceAll(flipped, sentinel+strconv.Itoa(i)+"b"+sentinel, pair[0])
	}
	return flipped
}

// SwapEvidenceOrder reverses the order of the evidence paragraphs while
// keeping the final paragraph (the question) in place.
func SwapEvidenceOrder(prompt string) string {
	blocks := strings.Split(prompt, "\n\n")
	if len(blocks) < 3 {
		return prompt
	}
	evidence := blocks[:len(blocks)-1]
	for i, j := 0, len(evidence)-1; i < j; i, j = i+1, j-1 {
		evidence[i], evidence[j] = evidence[j], evidence[i]
	}
	return strings.Join(append(evidence, blocks[len(blocks)-1]), "\n\n")
}

func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

