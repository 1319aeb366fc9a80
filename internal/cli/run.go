// internal/cli/run.go
package skew

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/skew/internal/appconfig"
	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/corpus"
	"github.com/mwiater/skew/internal/logging"
	"github.com/mwiater/skew/internal/report"
	"github.com/mwiater/skew/internal/runner"
	"github.com/mwiater/skew/internal/tui"
	"github.com/mwiater/skew/internal/util"
	"github.com/mwiater/skew/internal/validate"
)

var (
	runBiasTypes  []string
	runDifficulty string
	runTags       []string
	runCategories []string
	runNoTUI      bool
	runControl    bool
)

// runCmd executes a full evaluation: load scenarios, probe each configured
// host, score and persist every trial, then print the aggregate summary.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run bias evaluations for models defined in the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		if cmd.Flags().Changed("control") {
			cfg.ControlTrials = runControl
		}

		if check := validate.Config(*cfg); !check.OK() {
			return fmt.Errorf("invalid configuration: %s", strings.Join(check.Errors, "; "))
		}

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("error initializing log file: %w", err)
		}
		defer logging.Close()

		scenarios, warnings, err := corpus.LoadDir(cfg.ScenariosPath())
		if err != nil {
			return err
		}
		for _, warning := range warnings {
			log.Printf("scenario warning: %s", warning)
		}

		scenarios = corpus.Filter(scenarios, selectionFilters(cfg))
		if len(scenarios) == 0 {
			return fmt.Errorf("no scenarios match the current selection")
		}
		log.Printf("Evaluating %d scenarios across %d hosts...", len(scenarios), len(cfg.Hosts))

		ctx := context.Background()
		var aggs []bias.AggregatedResults
		if runNoTUI {
			aggs, err = runner.Run(ctx, cfg, scenarios, runner.Options{})
		} else {
			aggs, err = tui.RunWithProgress(ctx, cfg, scenarios)
		}
		if err != nil {
			return err
		}

		history, err := report.LoadHistory(cfg.ResultsPath())
		if err != nil {
			return err
		}
		rpt := report.Build(aggs, report.Scores(history))
		if err := report.AppendHistory(cfg.ResultsPath(), report.HistoryEntry{
			Timestamp: rpt.GeneratedAt,
			Model:     rpt.Model,
			Score:     rpt.OverallScore,
		}); err != nil {
			log.Printf("error recording score history: %v", err)
		}

		printRunSummary(rpt)

		if cfg.ExportPath != "" {
			data, err := report.RenderJSON(rpt)
			if err != nil {
				return err
			}
			if err := util.WriteFile(cfg.ExportPath, data); err != nil {
				return fmt.Errorf("error exporting report: %w", err)
			}
			fmt.Printf("Report exported to %s\n", cfg.ExportPath)
		}
		return nil
	},
}

// selectionFilters merges config selectors with run flags; flags win.
func selectionFilters(cfg *appconfig.Config) corpus.Filters {
	filters := corpus.Filters{
		BiasTypes:  cfg.SelectedBiasTypes(),
		Difficulty: bias.Difficulty(cfg.Difficulty),
		Tags:       cfg.Tags,
		Categories: cfg.Categories,
	}
	if runDifficulty != "" {
		filters.Difficulty = bias.Difficulty(runDifficulty)
	}
	if len(runTags) > 0 {
		filters.Tags = runTags
	}
	if len(runCategories) > 0 {
		filters.Categories = runCategories
	}
	if len(runBiasTypes) > 0 {
		types := make([]bias.Type, 0, len(runBiasTypes))
		for _, name := range runBiasTypes {
			types = append(types, bias.Type(strings.TrimSpace(name)))
		}
		filters.BiasTypes = types
	}
	return filters
}

func printRunSummary(rpt report.Report) {
	fmt.Printf("\nOverall bias score: %.1f/100 (zone %s)\n", rpt.OverallScore, rpt.ZoneStatus)
	if rpt.DriftDetected {
		fmt.Println(rpt.DriftMessage)
	}
	for _, finding := range rpt.Findings {
		fmt.Printf("  %-22s mean %.2f/5  severity %s  confidence %.2f\n",
			finding.BiasType, finding.MeanScore, finding.SeverityLevel, finding.Confidence)
	}
	for _, agg := range rpt.Scenarios {
		if agg.EffectMagnitude != "" {
			fmt.Printf("  %-22s d=%.2f vs control (%s, control mean %.2f)\n",
				agg.ScenarioID, agg.EffectSize, agg.EffectMagnitude, agg.ControlMean)
		}
	}
}

func init() {
	runCmd.Flags().StringSliceVar(&runBiasTypes, "bias-types", nil, "bias types to evaluate (default: config, then all)")
	runCmd.Flags().StringVar(&runDifficulty, "difficulty", "", "only scenarios at this difficulty")
	runCmd.Flags().StringSliceVar(&runTags, "tags", nil, "only scenarios carrying any of these tags")
	runCmd.Flags().StringSliceVar(&runCategories, "categories", nil, "only scenarios in these categories")
	runCmd.Flags().BoolVar(&runNoTUI, "no-tui", false, "disable the live progress view")
	runCmd.Flags().BoolVar(&runControl, "control", false, "also run control prompts and report per-scenario effect size")
	rootCmd.AddCommand(runCmd)
}
