// internal/cli/scenarios.go
package skew

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/skew/internal/corpus"
	"github.com/mwiater/skew/internal/util"
	"github.com/mwiater/skew/internal/variation"
)

var (
	scenarioHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	scenarioIDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	scenarioMetaStyle   = lipgloss.NewStyle().Faint(true)
)

// scenariosCmd lists the scenario corpus grouped by bias type.
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the scenario corpus grouped by bias type",
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
		scenarios = corpus.Filter(scenarios, selectionFilters(cfg))

		lastType := ""
		for _, scenario := range scenarios {
			if string(scenario.BiasType) != lastType {
				lastType = string(scenario.BiasType)
				cycle := variation.CycleLength(scenario.BiasType)
				fmt.Printf("\n%s %s\n", scenarioHeaderStyle.Render(lastType), scenarioMetaStyle.Render(fmt.Sprintf("(%d prompt variations per scenario)", cycle)))
			}
			meta := fmt.Sprintf("difficulty=%s", scenario.Difficulty)
			if scenario.Category != "" {
				meta += " category=" + scenario.Category
			}
			if len(scenario.Tags) > 0 {
				meta += " tags=" + strings.Join(scenario.Tags, ",")
			}
			fmt.Printf("  %s  %s\n", scenarioIDStyle.Render(scenario.ID), scenarioMetaStyle.Render(meta))
			fmt.Printf("    %s\n", util.TruncateToWidth(scenario.Prompt, 96))
		}
		fmt.Printf("\n%d scenarios.\n", len(scenarios))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
