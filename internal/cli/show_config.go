// internal/cli/show_config.go
package skew

import (
	"os"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/skew/internal/appconfig"
)

// showConfigCmd prints the merged configuration so flag and file precedence
// can be inspected.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		var file string
		if cfg := GetConfig(); cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(os.Stdout, file, GetConfig(), appconfig.Config{})
		if DebugEnabled() {
			pp.Println(GetConfig())
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
