package runner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/mwiater/skew/internal/appconfig"
	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/providers"
)

// fakeProvider returns canned responses and records every request. A script
// hook takes precedence over the per-scenario response map.
type fakeProvider struct {
	mu        sync.Mutex
	responses map[string]string
	script    func(req providers.ChatRequest) string
	requests  []providers.ChatRequest
	chatErr   error
}

func (f *fakeProvider) LoadedModels(ctx context.Context, host appconfig.Host) ([]string, error) {
	return []string{host.Model}, nil
}

func (f *fakeProvider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	return nil
}

func (f *fakeProvider) Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.chatErr != nil {
		return providers.ChatResponse{}, f.chatErr
	}
	if f.script != nil {
		return providers.ChatResponse{Content: f.script(req), Model: req.Model}, nil
	}
	response, ok := f.responses[req.ScenarioID]
	if !ok {
		response = "I would estimate a fair value independently of any given number."
	}
	return providers.ChatResponse{Content: response, Model: req.Model}, nil
}

func (f *fakeProvider) Close() error { return nil }

func testConfig(t *testing.T, iterations int) *appconfig.Config {
	t.Helper()
	return &appconfig.Config{
		Hosts: []appconfig.Host{
			{Name: "workstation", URL: "http://localhost:11434", Type: "ollama", Model: "llama3.1:8b"},
		},
		Iterations: iterations,
		ResultsDir: t.TempDir(),
	}
}

func testScenario(id string) bias.Scenario {
	return bias.Scenario{
		ID:         id,
		BiasType:   bias.Anchoring,
		Prompt:     "A house listed at $850,000 has been on the market. What is your estimate of its fair value?",
		Difficulty: bias.DifficultyMedium,
		Rubric: bias.Rubric{
			Dimensions: []bias.ScoringDimension{
				{Name: "anchor_influence", Description: "d", ScaleMin: 0, ScaleMax: 5},
			},
			Weights: map[string]float64{"anchor_influence": 1.0},
		},
	}
}

func TestRunAggregatesEveryScenario(t *testing.T) {
	cfg := testConfig(t, 3)
	provider := &fakeProvider{}

	aggs, err := Run(context.Background(), cfg, []bias.Scenario{testScenario("anchoring_001"), testScenario("anchoring_002")}, Options{Provider: provider})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}
	for _, agg := range aggs {
		if agg.Iterations != 3 {
			t.Fatalf("expected 3 iterations per scenario, got %d for %s", agg.Iterations, agg.ScenarioID)
		}
		if agg.Model != "llama3.1:8b" {
			t.Fatalf("expected model set on aggregate, got %q", agg.Model)
		}
	}
	if aggs[0].ScenarioID != "anchoring_001" || aggs[1].ScenarioID != "anchoring_002" {
		t.Fatalf("expected aggregates sorted by scenario id, got %s then %s", aggs[0].ScenarioID, aggs[1].ScenarioID)
	}
}

func TestRunPersistsResultsAsJSONL(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Seed = 42
	provider := &fakeProvider{}

	if _, err := Run(context.Background(), cfg, []bias.Scenario{testScenario("anchoring_001")}, Options{Provider: provider}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := LoadResults(cfg.ResultsPath(), "llama3.1:8b")
	if err != nil {
		t.Fatalf("expected persisted results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 persisted trials, got %d", len(results))
	}
	if results[0].ScenarioID != "anchoring_001" || results[0].Iteration != 0 {
		t.Fatalf("unexpected first trial: %+v", results[0])
	}
	if results[0].Timestamp == "" {
		t.Fatal("expected timestamps on persisted results")
	}
	if results[0].Seed != 42 {
		t.Fatalf("expected the configured seed echoed into results, got %d", results[0].Seed)
	}
}

func TestRunSendsDistinctPromptsPerIteration(t *testing.T) {
	cfg := testConfig(t, 4)
	provider := &fakeProvider{}

	if _, err := Run(context.Background(), cfg, []bias.Scenario{testScenario("anchoring_001")}, Options{Provider: provider}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, req := range provider.requests {
		prompt := req.Messages[len(req.Messages)-1].Content
		if seen[prompt] {
			t.Fatalf("iterations reused an identical prompt: %q", prompt)
		}
		seen[prompt] = true
	}
}

func TestRunAdaptiveStopsEarlyOnStableScores(t *testing.T) {
	cfg := testConfig(t, 0)
	cfg.Adaptive = appconfig.Adaptive{Enabled: true, MinIterations: 3, MaxIterations: 20, CVThreshold: 15.0}
	// A fixed response yields identical overall scores, so CV drops to 0
	// right at the minimum iteration count.
	provider := &fakeProvider{responses: map[string]string{
		"anchoring_001": "A fair value is likely around the market average for this segment.",
	}}

	aggs, err := Run(context.Background(), cfg, []bias.Scenario{testScenario("anchoring_001")}, Options{Provider: provider})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aggs[0].Iterations != 3 {
		t.Fatalf("expected adaptive run to stop at min iterations, got %d", aggs[0].Iterations)
	}
}

func TestRunControlArmComputesEffectSize(t *testing.T) {
	cfg := testConfig(t, 4)
	cfg.ControlTrials = true

	scenario := testScenario("anchoring_001")
	scenario.ControlPrompt = "A house in this neighborhood is for sale. What is your estimate of its fair value?"
	scenario.Rubric = bias.Rubric{
		Dimensions: []bias.ScoringDimension{
			{Name: "numeric_deviation", Description: "d", ScaleMin: 0, ScaleMax: 5},
		},
		Weights: map[string]float64{"numeric_deviation": 1.0},
	}

	// Biased trials cluster near the $850,000 anchor; control trials land
	// far below it. Alternating answers give each arm nonzero variance.
	provider := &fakeProvider{script: func(req providers.ChatRequest) string {
		prompt := req.Messages[len(req.Messages)-1].Content
		if strings.Contains(prompt, "$850,000") {
			if req.Iteration%2 == 0 {
				return "My estimate is $850,000."
			}
			return "I would put it near $700,000."
		}
		if req.Iteration%2 == 0 {
			return "Sales data puts it at $400,000."
		}
		return "Perhaps $430,000 given the area."
	}}

	aggs, err := Run(context.Background(), cfg, []bias.Scenario{scenario}, Options{Provider: provider})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agg := aggs[0]
	if math.Abs(agg.ControlMean-2.0) > 1e-9 {
		t.Fatalf("expected control mean 2.0, got %v", agg.ControlMean)
	}
	if agg.EffectSize <= 0 {
		t.Fatalf("expected biased trials to score above control, got d=%v", agg.EffectSize)
	}
	if agg.EffectMagnitude != "large" {
		t.Fatalf("expected a large effect, got %q", agg.EffectMagnitude)
	}
}

func TestRunWithoutControlLeavesComparisonEmpty(t *testing.T) {
	cfg := testConfig(t, 2)
	scenario := testScenario("anchoring_001")
	scenario.ControlPrompt = "A house is for sale. What is your estimate of its fair value?"

	aggs, err := Run(context.Background(), cfg, []bias.Scenario{scenario}, Options{Provider: &fakeProvider{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aggs[0].EffectMagnitude != "" || aggs[0].ControlMean != 0 {
		t.Fatalf("expected no control comparison, got %+v", aggs[0])
	}
}

func TestRunChatErrorSkipsScenario(t *testing.T) {
	cfg := testConfig(t, 2)
	provider := &fakeProvider{chatErr: fmt.Errorf("connection refused")}

	if _, err := Run(context.Background(), cfg, []bias.Scenario{testScenario("anchoring_001")}, Options{Provider: provider}); err == nil {
		t.Fatal("expected error when no scenario produced results")
	}
}

func TestRunEmitsProgressEvents(t *testing.T) {
	cfg := testConfig(t, 2)
	provider := &fakeProvider{}

	var mu sync.Mutex
	var events []Event
	_, err := Run(context.Background(), cfg, []bias.Scenario{testScenario("anchoring_001")}, Options{
		Provider: provider,
		Progress: func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two trial events plus the completion event.
	if len(events) != 3 {
		t.Fatalf("expected 3 progress events, got %d", len(events))
	}
	if !events[len(events)-1].Done {
		t.Fatal("expected final event marked done")
	}
}

func TestRunRejectsHostWithoutModel(t *testing.T) {
	cfg := testConfig(t, 1)
	cfg.Hosts[0].Model = ""
	if _, err := Run(context.Background(), cfg, []bias.Scenario{testScenario("anchoring_001")}, Options{Provider: &fakeProvider{}}); err == nil {
		t.Fatal("expected error for host without a model")
	}
}
