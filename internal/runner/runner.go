// internal/runner/runner.go

// Package runner orchestrates bias evaluation runs: it generates prompt
// variations, sends them to configured hosts, scores the responses, persists
// every trial as JSONL, and aggregates per-scenario statistics.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/skew/internal/appconfig"
	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/logging"
	"github.com/mwiater/skew/internal/providers"
	"github.com/mwiater/skew/internal/providers/ollama"
	"github.com/mwiater/skew/internal/scoring"
	"github.com/mwiater/skew/internal/stats"
	"github.com/mwiater/skew/internal/util"
	"github.com/mwiater/skew/internal/validate"
	"github.com/mwiater/skew/internal/variation"
)

// Event reports per-trial progress to an optional observer, e.g. the TUI.
type Event struct {
	Host       string
	Model      string
	ScenarioID string
	Iteration  int
	Total      int
	Overall    float64
	Err        error
	Done       bool
}

// Options tunes a run beyond what the config file carries. A nil Provider
// means each host gets a real HTTP provider; tests inject fakes here.
type Options struct {
	Provider providers.ChatProvider
	Progress func(Event)
}

// Run evaluates every scenario against every configured host and returns the
// per-scenario aggregates sorted by scenario ID.
func Run(ctx context.Context, cfg *appconfig.Config, scenarios []bias.Scenario, opts Options) ([]bias.AggregatedResults, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("bias runs require at least one host in the configuration")
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios selected")
	}
	for _, host := range cfg.Hosts {
		if strings.TrimSpace(host.Model) == "" {
			return nil, fmt.Errorf("host %s must name exactly one model", host.Name)
		}
	}

	resultsDir := cfg.ResultsPath()
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating results directory: %w", err)
	}

	type hostRunner struct {
		host     appconfig.Host
		model    string
		provider providers.ChatProvider
	}

	runners := make([]hostRunner, 0, len(cfg.Hosts))
	for _, host := range cfg.Hosts {
		log.Printf("Preparing bias evaluation for model %s on host %s...", host.Model, host.Name)

		provider := opts.Provider
		if provider == nil {
			provider = ollama.New(cfg)
		}

		log.Printf("Ensuring model %s is loaded on host %s...", host.Model, host.Name)
		if err := provider.EnsureModelReady(ctx, host, host.Model); err != nil {
			_ = provider.Close()
			return nil, fmt.Errorf("error ensuring model %s is ready on host %s: %w", host.Model, host.Name, err)
		}

		runners = append(runners, hostRunner{
			host:     host,
			model:    host.Model,
			provider: provider,
		})
	}
	defer func() {
		for _, runner := range runners {
			_ = runner.provider.Close()
		}
	}()

	var mu sync.Mutex
	var aggs []bias.AggregatedResults

	var wg sync.WaitGroup
	for _, runner := range runners {
		wg.Add(1)
		go func(r hostRunner) {
			defer wg.Done()
			sem := make(chan struct{}, cfg.ConcurrencyLimit())
			var scenarioWG sync.WaitGroup
			for _, scenario := range scenarios {
				scenarioWG.Add(1)
				sem <- struct{}{}
				go func(scenario bias.Scenario) {
					defer scenarioWG.Done()
					defer func() { <-sem }()

					results, controls, err := runScenario(ctx, cfg, r.provider, r.host, r.model, scenario, opts.Progress)
					if err != nil {
						log.Printf("error evaluating scenario %s on %s/%s: %v", scenario.ID, r.host.Name, r.model, err)
						return
					}
					if len(results) == 0 {
						return
					}
					agg := stats.Aggregate(scenario, results)
					if len(controls) > 0 {
						overalls := make([]float64, len(results))
						for i, res := range results {
							overalls[i] = res.Overall
						}
						agg.ControlMean = stats.Mean(controls)
						agg.EffectSize = stats.EffectSize(overalls, controls)
						agg.EffectMagnitude = stats.InterpretEffectSize(agg.EffectSize)
					}
					mu.Lock()
					aggs = append(aggs, agg)
					mu.Unlock()
				}(scenario)
			}
			scenarioWG.Wait()
		}(runner)
	}
	wg.Wait()

	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].ScenarioID != aggs[j].ScenarioID {
			return aggs[i].ScenarioID < aggs[j].ScenarioID
		}
		return aggs[i].Model < aggs[j].Model
	})

	if len(aggs) == 0 {
		return nil, fmt.Errorf("no scenarios produced results")
	}
	return aggs, nil
}

// runScenario evaluates one scenario against one host, honoring fixed or
// adaptive iteration counts. When control trials are enabled it also scores
// the control prompt each iteration and returns those overalls for the
// effect-size comparison.
func runScenario(ctx context.Context, cfg *appconfig.Config, provider providers.ChatProvider, host appconfig.Host, model string, scenario bias.Scenario, progress func(Event)) ([]bias.TestResult, []float64, error) {
	total := cfg.IterationCount()
	minIter, maxIter := cfg.IterationBounds()
	if cfg.Adaptive.Enabled {
		total = maxIter
	}

	var results []bias.TestResult
	var controls []float64
	var overalls []float64
	for iteration := 0; iteration < total; iteration++ {
		if err := ctx.Err(); err != nil {
			return results, controls, err
		}

		gen := variation.Generate(scenario, iteration)
		if check := validate.GeneratedPrompt(gen); !check.OK() {
			return results, controls, fmt.Errorf("generated prompt for %s iteration %d invalid: %s", scenario.ID, iteration, strings.Join(check.Errors, "; "))
		} else if len(check.Warnings) > 0 {
			logging.LogEvent("prompt warnings for %s iteration %d: %s", scenario.ID, iteration, strings.Join(check.Warnings, "; "))
		}

		resp, err := provider.Chat(ctx, providers.ChatRequest{
			Host:         host,
			Model:        model,
			Messages:     []providers.ChatMessage{{Role: "user", Content: gen.Prompt}},
			SystemPrompt: host.SystemPrompt,
			ScenarioID:   scenario.ID,
			Iteration:    iteration,
		})
		if err != nil {
			if isDeadlineExceeded(err) {
				logging.LogEvent("deadline exceeded for %s iteration %d on %s/%s", scenario.ID, iteration, host.Name, model)
				emit(progress, Event{Host: host.Name, Model: model, ScenarioID: scenario.ID, Iteration: iteration, Total: total, Err: err})
				return results, controls, nil
			}
			emit(progress, Event{Host: host.Name, Model: model, ScenarioID: scenario.ID, Iteration: iteration, Total: total, Err: err})
			return results, controls, err
		}

		score := scoring.Score(scenario, resp.Content)
		result := bias.TestResult{
			ScenarioID:      scenario.ID,
			BiasType:        scenario.BiasType,
			Iteration:       iteration,
			Model:           model,
			Host:            host.Name,
			Response:        resp.Content,
			DimensionScores: score.DimensionScores,
			Overall:         score.Overall,
			Confidence:      score.Confidence,
			Rationale:       score.Rationale,
			Seed:            cfg.Seed,
			Timestamp:       time.Now().Format(time.RFC3339),
		}
		if check := validate.TestResult(result); !check.OK() {
			return results, controls, fmt.Errorf("result for %s iteration %d invalid: %s", scenario.ID, iteration, strings.Join(check.Errors, "; "))
		}

		if err := appendResult(cfg.ResultsPath(), model, result); err != nil {
			log.Printf("error writing result for model %s: %v", model, err)
		}
		results = append(results, result)
		overalls = append(overalls, result.Overall)
		emit(progress, Event{Host: host.Name, Model: model, ScenarioID: scenario.ID, Iteration: iteration, Total: total, Overall: result.Overall})

		// A failed control trial drops that iteration from the comparison
		// but never aborts the scenario.
		if cfg.ControlTrials && gen.ControlPrompt != "" {
			controlResp, err := provider.Chat(ctx, providers.ChatRequest{
				Host:         host,
				Model:        model,
				Messages:     []providers.ChatMessage{{Role: "user", Content: gen.ControlPrompt}},
				SystemPrompt: host.SystemPrompt,
				ScenarioID:   scenario.ID,
				Iteration:    iteration,
			})
			if err != nil {
				logging.LogEvent("control trial failed for %s iteration %d on %s/%s: %v", scenario.ID, iteration, host.Name, model, err)
			} else {
				controls = append(controls, scoring.Score(scenario, controlResp.Content).Overall)
			}
		}

		if cfg.Adaptive.Enabled && len(overalls) >= minIter {
			if stats.CoefficientOfVariation(overalls) < cfg.CVThreshold() {
				break
			}
		}
	}

	emit(progress, Event{Host: host.Name, Model: model, ScenarioID: scenario.ID, Total: total, Done: true})
	return results, controls, nil
}

func emit(progress func(Event), ev Event) {
	if progress != nil {
		progress(ev)
	}
}

// appendResult appends one trial to the per-model JSONL results file.
func appendResult(resultsDir, modelName string, result bias.TestResult) error {
	fileName := fmt.Sprintf("%s.jsonl", util.Slugify(modelName))
	path := filepath.Join(resultsDir, fileName)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("error opening results file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}

	return nil
}

// LoadResults reads every trial previously persisted for a model.
func LoadResults(resultsDir, modelName string) ([]bias.TestResult, error) {
	fileName := fmt.Sprintf("%s.jsonl", util.Slugify(modelName))
	path := filepath.Join(resultsDir, fileName)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening results file: %w", err)
	}
	defer file.Close()

	var results []bias.TestResult
	decoder := json.NewDecoder(file)
	for {
		var result bias.TestResult
		if err := decoder.Decode(&result); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading results file %s: %w", path, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func isDeadlineExceeded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "context deadline exceeded")
}
