// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/skew/internal/bias"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for model HTTP requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultIterations is the fixed iteration count used when the config omits the value.
	defaultIterations = 10
	// defaultMinIterations bounds adaptive runs from below.
	defaultMinIterations = 5
	// defaultMaxIterations bounds adaptive runs from above.
	defaultMaxIterations = 50
	// defaultCVThreshold is the coefficient-of-variation percentage below which
	// an adaptive run is considered stable.
	defaultCVThreshold = 15.0
	// DefaultScenariosDir holds the shipped scenario corpus.
	DefaultScenariosDir = "config/scenarios"
	// DefaultResultsDir receives per-model JSONL result files.
	DefaultResultsDir = "skewData/biasResults"
)

// Config represents the top-level application configuration.
type Config struct {
	Hosts          []Host   `json:"hosts"`
	BiasTypes      []string `json:"biasTypes,omitempty"`
	Iterations     int      `json:"iterations,omitempty"`
	Adaptive       Adaptive `json:"adaptive"`
	ControlTrials  bool     `json:"controlTrials,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Seed           int64    `json:"seed,omitempty"`
	TimeoutSeconds int      `json:"timeout,omitempty"`
	ScenariosDir   string   `json:"scenariosDir,omitempty"`
	ResultsDir     string   `json:"resultsDir,omitempty"`
	ExportPath     string   `json:"export,omitempty"`
	LogFile        string   `json:"logFile,omitempty"`
	Debug          bool     `json:"debug"`
	Concurrency    int      `json:"concurrency,omitempty"`
	ConfigPath     string   `json:"-"`
}

// Host represents a single host that can serve language models.
type Host struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Type         string `json:"type"`
	Model        string `json:"model"`
	SystemPrompt string `json:"systemprompt,omitempty"`
}

// Adaptive controls coefficient-of-variation driven iteration counts. When
// enabled, the runner keeps iterating a scenario until the overall-score CV
// drops below CVThreshold, bounded by MinIterations and MaxIterations.
type Adaptive struct {
	Enabled       bool    `json:"enabled"`
	MinIterations int     `json:"minIterations,omitempty"`
	MaxIterations int     `json:"maxIterations,omitempty"`
	CVThreshold   float64 `json:"cvThreshold,omitempty"`
}

// RequestTimeout returns the timeout duration for model HTTP requests,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IterationCount returns the fixed per-scenario iteration count.
func (c Config) IterationCount() int {
	if c.Iterations <= 0 {
		return defaultIterations
	}
	return c.Iterations
}

// IterationBounds returns the (min, max) bounds for adaptive runs.
func (c Config) IterationBounds() (int, int) {
	minIter := c.Adaptive.MinIterations
	if minIter <= 0 {
		minIter = defaultMinIterations
	}
	maxIter := c.Adaptive.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	if maxIter < minIter {
		maxIter = minIter
	}
	return minIter, maxIter
}

// CVThreshold returns the adaptive stability threshold as a CV percentage.
func (c Config) CVThreshold() float64 {
	if c.Adaptive.CVThreshold <= 0 {
		return defaultCVThreshold
	}
	return c.Adaptive.CVThreshold
}

// SelectedBiasTypes resolves the configured bias type names, defaulting to
// every supported type when the config names none.
func (c Config) SelectedBiasTypes() []bias.Type {
	if len(c.BiasTypes) == 0 {
		return append([]bias.Type(nil), bias.AllTypes...)
	}
	types := make([]bias.Type, 0, len(c.BiasTypes))
	for _, name := range c.BiasTypes {
		types = append(types, bias.Type(strings.TrimSpace(name)))
	}
	return types
}

// ScenariosPath returns the scenario corpus directory, applying the default if not set.
func (c Config) ScenariosPath() string {
	if dir := strings.TrimSpace(c.ScenariosDir); dir != "" {
		return dir
	}
	return DefaultScenariosDir
}

// ResultsPath returns the JSONL results directory, applying the default if not set.
func (c Config) ResultsPath() string {
	if dir := strings.TrimSpace(c.ResultsDir); dir != "" {
		return dir
	}
	return DefaultResultsDir
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "skew.log"
}

// ConcurrencyLimit returns the maximum number of scenarios evaluated in
// parallel per host.
func (c Config) ConcurrencyLimit() int {
	if c.Concurrency <= 0 {
		return 1
	}
	return c.Concurrency
}

// Load reads the application configuration from the specified path, with
// fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if len(config.Hosts) == 0 {
			return Config{}, errors.New("config must contain at least one host")
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q): %w", DefaultConfigPath, legacyConfigPath, os.ErrNotExist)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, os.ErrNotExist)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
