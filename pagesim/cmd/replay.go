package cmd

import (
	"errors"
	"fmt"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/player"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Print a run recorded with run --record.",
	Long: "`replay --db runs.sqlite3` lists the recorded runs. " +
		"`replay --db runs.sqlite3 --run ID` plays one of them again.",
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("db", "", "SQLite file written by run --record.")
	replayCmd.Flags().String("run", "", "ID of the run to replay.")
	replayCmd.Flags().Duration("delay", 0, "Pause between steps.")
	_ = replayCmd.MarkFlagRequired("db")
}

func runReplay(cmd *cobra.Command, _ []string) (err error) {
	db, _ := cmd.Flags().GetString("db")
	runID, _ := cmd.Flags().GetString("run")

	reader, err := datarecording.NewReader(db)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, reader.Close())
	}()

	histories := datarecording.NewHistoryReader(reader)

	if runID == "" {
		runs, err := histories.ListRuns(cmd.Context())
		if err != nil {
			return err
		}

		for _, r := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-4s %d frames  [%s]\n",
				r.RunID, r.Policy, r.Capacity, r.Refs)
		}

		return nil
	}

	entry, history, err := histories.LoadRun(cmd.Context(), runID)
	if err != nil {
		return err
	}

	policy, err := replacement.ParsePolicy(entry.Policy)
	if err != nil {
		return err
	}

	refs, err := entry.References()
	if err != nil {
		return err
	}

	delay, _ := cmd.Flags().GetDuration("delay")

	return player.MakeBuilder().
		WithWriter(cmd.OutOrStdout()).
		WithDelay(delay).
		Build().
		Replay(cmd.Context(), policy, refs, history)
}
