// Package cmd implements the ringlight command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ringlight-eda/ringlight/pkg/illum"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "ringlight",
	Short: "ringlight - circular LED board placement and routing",
	Long: `ringlight places and routes circular LED-driver boards: driver lines of
resistor + LEDs evenly spaced on a ring, arc-routed LED strips, offset ring
buses for power and ground, and a pin/transistor power switch on the diameter.

Examples:
  ringlight route board.kicad_pcb -o routed.kicad_pcb   # Place and route
  ringlight place board.kicad_pcb                        # Placement only
  ringlight nets board.kicad_pcb                         # Show inferred net roles
  ringlight sexp board.kicad_pcb                         # Dump raw s-expressions`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML options file")
}

// newLogger creates the run logger, debug-level when --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// loadOptions resolves the run options: defaults, then the --config file
// when given.
func loadOptions() (illum.Options, error) {
	if configPath == "" {
		return illum.Defaults(), nil
	}
	return illum.LoadOptions(configPath)
}
