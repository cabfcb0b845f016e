package cmd

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"
)

var sexpDepth int

var sexpCmd = &cobra.Command{
	Use:   "sexp <file>",
	Short: "Dump the raw S-expression structure of a KiCad file",
	Long: `Parses the file with a generic S-expression parser and prints the node
tree, for debugging board files the KiCad reader refuses to load.`,
	Args: cobra.ExactArgs(1),
	RunE: runSexp,
}

func init() {
	rootCmd.AddCommand(sexpCmd)
	sexpCmd.Flags().IntVarP(&sexpDepth, "depth", "d", 3, "maximum tree depth to print")
}

func runSexp(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	sexps, err := sexp.Parse(file)
	if err != nil {
		return fmt.Errorf("error parsing s-expressions: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d top-level s-expression(s)\n", len(sexps))
	for _, s := range sexps {
		dumpSexp(cmd, s, 0)
	}
	return nil
}

func dumpSexp(cmd *cobra.Command, s sexp.Sexp, depth int) {
	if s == nil || depth > sexpDepth {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	out := cmd.OutOrStdout()
	if s.IsLeaf() {
		fmt.Fprintf(out, "%s%s\n", indent, s)
		return
	}
	fmt.Fprintf(out, "%s(%d elements)\n", indent, s.LeafCount())
	dumpSexp(cmd, s.Head(), depth+1)
	dumpSexp(cmd, s.Tail(), depth)
}
