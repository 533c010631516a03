package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/pagesim/analysis"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Count the faults of a policy for every frame count.",
	Long: "`sweep --policy fifo --refs 1,2,3,4,1,2,5,1,2,3,4,5` runs the " +
		"policy with 1 to --max-frames frames and flags Belady's anomaly.",
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	addReferenceFlags(sweepCmd)
	addBatchFlags(sweepCmd)
	sweepCmd.Flags().String("policy", "fifo", "Replacement policy: fifo, lru or opt.")
	sweepCmd.Flags().Int("max-frames", 0,
		"Largest frame count to try. 0 uses the frame limit.")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	policy, err := policyFlag(cmd)
	if err != nil {
		return err
	}

	maxFrames, _ := cmd.Flags().GetInt("max-frames")
	if maxFrames == 0 {
		maxFrames = limits.MaxFrames
	}

	refs, err := referencesFor(cmd, maxFrames)
	if err != nil {
		return err
	}

	batch, done, err := newBatch(cmd)
	if err != nil {
		return err
	}
	defer done()

	s, err := batch.Sweep(cmd.Context(), policy, refs, 1, maxFrames)
	if err != nil {
		return err
	}

	if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
		return analysis.WriteSweepCSV(cmd.OutOrStdout(), s)
	}

	printSweep(cmd.OutOrStdout(), s)

	return nil
}

func printSweep(w io.Writer, s analysis.Sweep) {
	fmt.Fprintf(w, "Ref String: %s\n", s.Refs)
	fmt.Fprintf(w, "Policy: %s\n", s.Policy)

	anomalies := make(map[int]bool)
	for _, a := range s.Anomalies() {
		anomalies[a.Capacity] = true
	}

	for _, p := range s.Points {
		mark := ""
		if anomalies[p.Capacity] {
			mark = "  <- Belady's anomaly"
		}

		fmt.Fprintf(w, "%2d frames: %3d faults%s\n", p.Capacity, p.Faults, mark)
	}
}
