package variation

import (
	"strings"
	"testing"

	"github.com/mwiater/skew/internal/bias"
)

func anchoringScenario() bias.Scenario {
	return bias.Scenario{
		ID:       "anchoring_001",
		BiasType: bias.Anchoring,
		Prompt:   "A house listed at $850,000 has been on the market for two months. What is your estimate of its fair value?",
		ControlPrompt: "A house has been on the market for two months. " +
			"What is a fair value for a typical house in this market?",
		Difficulty: bias.DifficultyMedium,
	}
}

func TestGenerateIterationZeroIsVerbatim(t *testing.T) {
	scenario := anchoringScenario()
	gen := Generate(scenario, 0)
	if gen.Prompt != scenario.Prompt {
		t.Fatalf("iteration 0 should reproduce the prompt verbatim:\ngot  %q\nwant %q", gen.Prompt, scenario.Prompt)
	}
	if gen.ControlPrompt != scenario.ControlPrompt {
		t.Fatalf("iteration 0 should reproduce the control prompt verbatim, got %q", gen.ControlPrompt)
	}
	for _, idx := range gen.AppliedVariations {
		if idx != 0 {
			t.Fatalf("iteration 0 should apply no variations, got %v", gen.AppliedVariations)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	scenario := anchoringScenario()
	for iteration := 0; iteration < 20; iteration++ {
		first := Generate(scenario, iteration)
		second := Generate(scenario, iteration)
		if first.Prompt != second.Prompt || first.ControlPrompt != second.ControlPrompt {
			t.Fatalf("generation not deterministic at iteration %d", iteration)
		}
	}
}

func TestGenerateCoversFullCycleBeforeRepeat(t *testing.T) {
	scenario := anchoringScenario()
	cycle := CycleLength(scenario.BiasType)
	seen := make(map[string]int, cycle)
	for iteration := 0; iteration < cycle; iteration++ {
		prompt := Generate(scenario, iteration).Prompt
		if prev, dup := seen[prompt]; dup {
			t.Fatalf("iterations %d and %d produced identical prompts within one cycle", prev, iteration)
		}
		seen[prompt] = iteration
	}
}

func TestGenerateCycleWrapsToIterationZero(t *testing.T) {
	scenario := anchoringScenario()
	cycle := CycleLength(scenario.BiasType)
	wrapped := Generate(scenario, cycle)
	base := Generate(scenario, 0)
	if wrapped.Prompt != base.Prompt {
		t.Fatalf("iteration %d should reproduce iteration 0:\ngot  %q\nwant %q", cycle, wrapped.Prompt, base.Prompt)
	}
}

func TestGenerateControlPromptSkipsPhraseSubstitution(t *testing.T) {
	scenario := anchoringScenario()
	cycle := CycleLength(scenario.BiasType)
	for iteration := 0; iteration < cycle; iteration++ {
		gen := Generate(scenario, iteration)
		if strings.Contains(gen.ControlPrompt, "What's your best estimate") ||
			strings.Contains(gen.ControlPrompt, "What figure would you put on it") {
			t.Fatalf("control prompt picked up phrase substitution at iteration %d: %q", iteration, gen.ControlPrompt)
		}
	}
}

func TestGenerateSubstitutionReplacesPivot(t *testing.T) {
	scenario := anchoringScenario()
	// Axis order is intro, phrasing, closing, emphasis; iteration equal to
	// the intro axis size lands on phrasing index 1.
	gen := Generate(scenario, len(axisTables[bias.Anchoring].Intros))
	if !strings.Contains(gen.Prompt, "What's your best estimate") {
		t.Fatalf("expected pivot rewrite in prompt, got %q", gen.Prompt)
	}
	if strings.Contains(gen.Prompt, "What is your estimate") {
		t.Fatalf("expected original pivot removed, got %q", gen.Prompt)
	}
}

func TestGenerateUnknownBiasTypeFallsBack(t *testing.T) {
	scenario := bias.Scenario{
		ID:       "mystery_001",
		BiasType: bias.Type("framing"),
		Prompt:   "Describe the tradeoffs of the two plans.",
	}
	gen := Generate(scenario, 1)
	if gen.Prompt == "" {
		t.Fatal("generation must stay total for unknown bias types")
	}
	if !strings.HasSuffix(gen.Prompt, scenario.Prompt) {
		t.Fatalf("generic variation should only prepend an intro at iteration 1, got %q", gen.Prompt)
	}
}

func TestCycleLengthMatchesAxisProduct(t *testing.T) {
	// Anchoring: 4 intros * 3 phrasings * 4 closings * 3 emphases.
	if got := CycleLength(bias.Anchoring); got != 144 {
		t.Fatalf("expected anchoring cycle length 144, got %d", got)
	}
	// Loss aversion has no emphasis axis: 4 * 3 * 4.
	if got := CycleLength(bias.LossAversion); got != 48 {
		t.Fatalf("expected loss_aversion cycle length 48, got %d", got)
	}
}

func TestPivotPhrasePerType(t *testing.T) {
	cases := []struct {
		biasType bias.Type
		want     string
	}{
		{bias.Anchoring, "What is your estimate"},
		{bias.LossAversion, "Which option would you choose"},
		{bias.SunkCost, "What would you recommend"},
		{bias.ConfirmationBias, "What is your assessment"},
		{bias.AvailabilityHeuristic, "How likely"},
	}
	for _, tc := range cases {
		if got := PivotPhrase(tc.biasType); got != tc.want {
			t.Fatalf("PivotPhrase(%s) = %q, want %q", tc.biasType, got, tc.want)
		}
	}
}

func TestDecomposeMixedRadix(t *testing.T) {
	sizes := []int{4, 3, 4}
	// 17 = 1 + 4*(1 + 3*1): indices [1, 1, 1].
	got := decompose(17, sizes)
	want := []int{1, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decompose(17, %v) = %v, want %v", sizes, got, want)
		}
	}
}

func TestDecomposeNegativeIterationClampsToZero(t *testing.T) {
	got := decompose(-5, []int{4, 3})
	for _, idx := range got {
		if idx != 0 {
			t.Fatalf("negative iteration should clamp to zero indices, got %v", got)
		}
	}
}
