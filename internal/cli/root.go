// internal/cli/root.go
package skew

import (
	"errors"
	"os"

	"github.com/mwiater/skew/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "skew",
	Short: "skew — cognitive bias evaluation for language models over Ollama hosts",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults). appconfig.Load decodes the
		//    documented json keys and applies the legacy-path fallback.
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// 2) Flags override the file when the user set them.
		if cmd.Flags().Changed("debug") {
			cfg.Debug, _ = cmd.Flags().GetBool("debug")
		}
		if cmd.Flags().Changed("iterations") {
			cfg.Iterations, _ = cmd.Flags().GetInt("iterations")
		}

		// 3) Reflect the merged values into viper so both pflags and viper
		//    report the same, final state, then publish the snapshot.
		viper.Set("debug", cfg.Debug)
		viper.Set("iterations", cfg.Iterations)
		currentConfig = &cfg

		return nil
	},
}

// loadConfig reads the configured file through appconfig.Load. A missing
// file is not an error; offline commands run on defaults.
func loadConfig() (appconfig.Config, error) {
	cfg, err := appconfig.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return appconfig.Config{}, nil
	}
	return appconfig.Config{}, err
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// --config (defaults to your existing path)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Int("iterations", 0, "per-scenario iteration count (0 uses the config value)")

	// Bind flags to Viper keys (flags override config)
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("iterations", rootCmd.PersistentFlags().Lookup("iterations"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled reflects the merged Viper state.
func DebugEnabled() bool { return viper.GetBool("debug") }
