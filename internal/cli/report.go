// internal/cli/report.go
package skew

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/corpus"
	"github.com/mwiater/skew/internal/report"
	"github.com/mwiater/skew/internal/runner"
	"github.com/mwiater/skew/internal/stats"
	"github.com/mwiater/skew/internal/util"
)

var (
	reportFormat string
	reportOutput string
)

// reportCmd rebuilds a report from previously persisted trial results,
// without re-running any model.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from persisted trial results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}

		scenarios, warnings, err := corpus.LoadDir(cfg.ScenariosPath())
		if err != nil {
			return err
		}
		for _, warning := range warnings {
			log.Printf("scenario warning: %s", warning)
		}
		byID := make(map[string]bias.Scenario, len(scenarios))
		for _, scenario := range scenarios {
			byID[scenario.ID] = scenario
		}

		var aggs []bias.AggregatedResults
		for _, host := range cfg.Hosts {
			results, err := runner.LoadResults(cfg.ResultsPath(), host.Model)
			if err != nil {
				return fmt.Errorf("no persisted results for model %s: %w", host.Model, err)
			}
			grouped := make(map[string][]bias.TestResult)
			for _, result := range results {
				grouped[result.ScenarioID] = append(grouped[result.ScenarioID], result)
			}
			for scenarioID, scenarioResults := range grouped {
				scenario, ok := byID[scenarioID]
				if !ok {
					log.Printf("skipping results for unknown scenario %s", scenarioID)
					continue
				}
				aggs = append(aggs, stats.Aggregate(scenario, scenarioResults))
			}
		}
		if len(aggs) == 0 {
			return fmt.Errorf("no persisted results found in %s", cfg.ResultsPath())
		}
		sort.Slice(aggs, func(i, j int) bool {
			if aggs[i].ScenarioID != aggs[j].ScenarioID {
				return aggs[i].ScenarioID < aggs[j].ScenarioID
			}
			return aggs[i].Model < aggs[j].Model
		})

		history, err := report.LoadHistory(cfg.ResultsPath())
		if err != nil {
			return err
		}
		rpt := report.Build(aggs, report.Scores(history))

		var data []byte
		switch reportFormat {
		case "json":
			data, err = report.RenderJSON(rpt)
		case "csv":
			data, err = report.RenderCSV(rpt)
		case "html":
			data, err = report.RenderHTML(rpt)
		default:
			return fmt.Errorf("unknown report format %q (want json, csv, or html)", reportFormat)
		}
		if err != nil {
			return err
		}

		if reportOutput == "" {
			fmt.Print(string(data))
			return nil
		}
		if err := util.WriteFile(reportOutput, data); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
		fmt.Printf("Report written to %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "json", "report format: json, csv, or html")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to this file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
