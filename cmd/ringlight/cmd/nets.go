package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ringlight-eda/ringlight/pkg/board"
	"github.com/ringlight-eda/ringlight/pkg/illum"
	"github.com/ringlight-eda/ringlight/pkg/kicad/pcb"
)

var netsCmd = &cobra.Command{
	Use:   "nets <board_file>",
	Short: "Show board nets and their inferred roles",
	Long: `Lists every net touching a recognized ring component, the role the
classifier infers for it (led strip, power, ground, or ?), and the
components on it. Useful to check a board before routing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
}

func runNets(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	m, err := pcb.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	terminals := make(map[board.NetCode][]illum.Terminal)
	for _, fp := range m.Footprints() {
		role, ok := opts.RoleFor(fp.Reference())
		if !ok {
			continue
		}
		for _, pad := range fp.Pads() {
			if pad.Net() == board.NoNet {
				continue
			}
			terminals[pad.Net()] = append(terminals[pad.Net()], illum.Terminal{
				Component: fp.Reference(),
				Pad:       pad.Name(),
				Role:      role,
			})
		}
	}

	codes := make([]board.NetCode, 0, len(terminals))
	for code := range terminals {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Board: %d nets on ring components\n\n", len(codes))
	fmt.Fprintf(out, "%-20s %-10s %5s  %s\n", "Net Name", "Role", "Terms", "Components")
	fmt.Fprintln(out, "──────────────────────────────────────────────────────────")
	for _, code := range codes {
		terms := terminals[code]
		refs := make([]string, len(terms))
		for i, t := range terms {
			refs[i] = t.Component
		}
		fmt.Fprintf(out, "%-20s %-10s %5d  %s\n",
			m.NetName(code), illum.Classify(terms).String(), len(terms), strings.Join(refs, ", "))
	}
	return nil
}
