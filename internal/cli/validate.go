// internal/cli/validate.go
package skew

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/skew/internal/corpus"
	"github.com/mwiater/skew/internal/validate"
)

var passLabel = color.New(color.FgGreen).SprintFunc()
var failLabel = color.New(color.FgRed).SprintFunc()
var warnLabel = color.New(color.FgYellow).SprintFunc()

// validateCmd checks the scenario corpus and the active configuration for
// structural problems without touching any host.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the scenario corpus and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}

		failed := false

		check := validate.Config(*cfg)
		printCheck("configuration", check)
		if !check.OK() {
			failed = true
		}

		scenarios, warnings, err := corpus.LoadDir(cfg.ScenariosPath())
		if err != nil {
			fmt.Printf("%s scenario corpus: %v\n", failLabel("FAIL"), err)
			return fmt.Errorf("scenario corpus is invalid")
		}
		for _, warning := range warnings {
			fmt.Printf("%s %s\n", warnLabel("WARN"), warning)
		}

		for _, scenario := range scenarios {
			result := validate.Scenario(scenario)
			printCheck("scenario "+scenario.ID, result)
			if !result.OK() {
				failed = true
			}
		}

		collection := validate.Collection(scenarios)
		printCheck("collection", collection)
		if !collection.OK() {
			failed = true
		}

		if failed {
			return fmt.Errorf("validation failed")
		}
		fmt.Printf("\n%s %d scenarios validated.\n", passLabel("OK"), len(scenarios))
		return nil
	},
}

func printCheck(name string, result validate.Result) {
	for _, warning := range result.Warnings {
		fmt.Printf("%s %s: %s\n", warnLabel("WARN"), name, warning)
	}
	for _, errMsg := range result.Errors {
		fmt.Printf("%s %s: %s\n", failLabel("FAIL"), name, errMsg)
	}
	if result.OK() && len(result.Warnings) == 0 {
		fmt.Printf("%s %s\n", passLabel("OK"), name)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
