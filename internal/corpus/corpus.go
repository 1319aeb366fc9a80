// internal/corpus/corpus.go
// Package corpus loads the static scenario definitions that drive an
// evaluation run. Scenario files live one-per-bias-type under the configured
// scenarios directory and are schema-checked before decoding.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/validate"
)

// File is the on-disk shape of one scenario corpus file.
type File struct {
	BiasType  bias.Type       `json:"biasType"`
	Scenarios []bias.Scenario `json:"scenarios"`
}

// LoadDir reads every *.json scenario file in dir, validates each against
// the corpus schema and the structural validator, and returns the combined
// scenario set sorted by id. Validator warnings are returned alongside the
// scenarios; validator errors abort the load.
func LoadDir(dir string) ([]bias.Scenario, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading scenarios directory: %w", err)
	}

	var scenarios []bias.Scenario
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		loaded, err := loadFile(path)
		if err != nil {
			return nil, nil, err
		}
		scenarios = append(scenarios, loaded...)
	}

	if len(scenarios) == 0 {
		return nil, nil, fmt.Errorf("scenarios directory %s contains no scenarios", dir)
	}

	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID < scenarios[j].ID })

	result := validate.Collection(scenarios)
	if !result.OK() {
		return nil, result.Warnings, fmt.Errorf("scenario corpus failed validation: %s", strings.Join(result.Errors, "; "))
	}
	return scenarios, result.Warnings, nil
}

// loadFile reads and decodes one corpus file.
func loadFile(path string) ([]bias.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scenario file %s: %w", path, err)
	}

	if result := validate.ScenarioFileJSON(raw); !result.OK() {
		return nil, fmt.Errorf("scenario file %s: %s", path, strings.Join(result.Errors, "; "))
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("error parsing scenario file %s: %w", path, err)
	}

	for i := range file.Scenarios {
		if file.Scenarios[i].BiasType == "" {
			file.Scenarios[i].BiasType = file.BiasType
		}
	}
	return file.Scenarios, nil
}

// Filters narrows a scenario set for one run.
type Filters struct {
	BiasTypes  []bias.Type
	Difficulty bias.Difficulty
	Tags       []string
	Categories []string
}

// Filter returns the scenarios matching every populated filter field.
func Filter(scenarios []bias.Scenario, f Filters) []bias.Scenario {
	var out []bias.Scenario
	for _, s := range scenarios {
		if len(f.BiasTypes) > 0 && !containsType(f.BiasTypes, s.BiasType) {
			continue
		}
		if f.Difficulty != "" && s.Difficulty != f.Difficulty {
			continue
		}
		if len(f.Tags) > 0 && !containsAny(s.Tags, f.Tags) {
			continue
		}
		if len(f.Categories) > 0 && !containsString(f.Categories, s.Category) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsType(haystack []bias.Type, needle bias.Type) bool {
	for _, t := range haystack {
		if t == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsAny(haystack, needles []string) bool {
	for _, needle := range needles {
		if containsString(haystack, needle) {
			return true
		}
	}
	return false
}
