package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	active := cfg
	if active == nil {
		active = &fallback
	}

	names := make([]string, 0, len(active.SelectedBiasTypes()))
	for _, t := range active.SelectedBiasTypes() {
		names = append(names, string(t))
	}

	fmt.Fprintf(out, "  Debug:           %v\n", active.Debug)
	fmt.Fprintf(out, "  Bias Types:      %s\n", strings.Join(names, ", "))
	fmt.Fprintf(out, "  Iterations:      %d\n", active.IterationCount())
	fmt.Fprintf(out, "  Adaptive Mode:   %v\n", active.Adaptive.Enabled)
	if active.Adaptive.Enabled {
		minIter, maxIter := active.IterationBounds()
		fmt.Fprintf(out, "  Iteration Bounds: %d-%d\n", minIter, maxIter)
		fmt.Fprintf(out, "  CV Threshold:    %.1f%%\n", active.CVThreshold())
	}
	if active.Difficulty != "" {
		fmt.Fprintf(out, "  Difficulty:      %s\n", active.Difficulty)
	}
	if len(active.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:            %v\n", active.Tags)
	}
	fmt.Fprintf(out, "  Scenarios Dir:   %s\n", active.ScenariosPath())
	fmt.Fprintf(out, "  Results Dir:     %s\n", active.ResultsPath())
	fmt.Fprintf(out, "  Request Timeout: %s\n", active.RequestTimeout())
	for _, host := range active.Hosts {
		fmt.Fprintf(out, "  Host:            %s (%s) model=%s\n", host.Name, host.URL, host.Model)
	}
}
