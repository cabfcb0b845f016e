package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ringlight-eda/ringlight/pkg/illum"
	"github.com/ringlight-eda/ringlight/pkg/kicad/pcb"
)

var routeOutput string

var routeCmd = &cobra.Command{
	Use:   "route <board_file>",
	Short: "Place and route a circular LED board",
	Long: `Loads a KiCad board, places every ring component and the pin/transistor
pair, routes every classified net (arc, filled arc, or ring bus), connects
the pin/transistor pair, and writes the result back out.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

var placeCmd = &cobra.Command{
	Use:   "place <board_file>",
	Short: "Place ring components without routing",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlace,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(placeCmd)
	routeCmd.Flags().StringVarP(&routeOutput, "output", "o", "", "output file (default: in place)")
	placeCmd.Flags().StringVarP(&routeOutput, "output", "o", "", "output file (default: in place)")
}

func runRoute(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, args[0], true)
}

func runPlace(cmd *cobra.Command, args []string) error {
	return runPipeline(cmd, args[0], false)
}

func runPipeline(cmd *cobra.Command, filename string, route bool) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	m, err := pcb.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded board: %s (%d nets, %d footprints)\n",
		filename, len(m.Nets()), len(m.Footprints()))

	session := illum.NewSession(m, opts, newLogger(cmd))
	if route {
		if err := session.Run(); err != nil {
			return fmt.Errorf("routing failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Routed: %d segments, %d vias, %d fills\n",
			len(m.Segments()), len(m.Vias()), len(m.Fills()))
	} else {
		session.Place()
	}

	out := routeOutput
	if out == "" {
		out = filename
	}
	if err := pcb.WriteFile(out, m); err != nil {
		return fmt.Errorf("error writing board: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}
