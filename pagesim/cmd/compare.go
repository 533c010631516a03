package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/pagesim/analysis"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run FIFO, LRU and OPT on the same reference string.",
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addFramesFlag(compareCmd)
	addReferenceFlags(compareCmd)
	addBatchFlags(compareCmd)
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 0, "Number of parallel runs. 0 uses all CPUs.")
	cmd.Flags().Bool("csv", false, "Print CSV instead of a table.")
}

func newBatch(cmd *cobra.Command) (*analysis.Batch, func(), error) {
	workers, _ := cmd.Flags().GetInt("workers")

	memo, err := analysis.NewMemo(1 << 12)
	if err != nil {
		return nil, nil, err
	}

	b := analysis.MakeBuilder().
		WithWorkers(workers).
		WithMemo(memo).
		WithLogger(logger).
		Build()

	return b, memo.Close, nil
}

func runCompare(cmd *cobra.Command, _ []string) error {
	frames, refs, err := references(cmd)
	if err != nil {
		return err
	}

	batch, done, err := newBatch(cmd)
	if err != nil {
		return err
	}
	defer done()

	c, err := batch.Compare(cmd.Context(), frames, refs)
	if err != nil {
		return err
	}

	if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
		return analysis.WriteComparisonCSV(cmd.OutOrStdout(), c)
	}

	printComparison(cmd.OutOrStdout(), c)

	return nil
}

func printComparison(w io.Writer, c analysis.Comparison) {
	fmt.Fprintf(w, "Ref String: %s\n", c.Refs)
	fmt.Fprintf(w, "Frames: %d\n", c.Capacity)
	fmt.Fprintf(w, "%-6s %6s %6s %9s\n", "Policy", "Hits", "Faults", "HitRatio")

	for _, p := range replacement.Policies() {
		s := c.Stats[p]
		fmt.Fprintf(w, "%-6s %6d %6d %8.2f%%\n",
			p, s.Hits, s.Faults, 100*s.HitRatio())
	}

	if !c.OptimalIsMinimal() {
		fmt.Fprintln(w, "OPT is not minimal, this is a bug")
	}
}
