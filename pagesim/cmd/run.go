package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/player"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/tracing"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a run step by step.",
	Long: "`run --policy lru --frames 3 --length 10` generates a reference " +
		"string and plays it through the frames, one step per delay.",
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addFramesFlag(runCmd)
	addReferenceFlags(runCmd)
	runCmd.Flags().String("policy", "fifo", "Replacement policy: fifo, lru or opt.")
	runCmd.Flags().Duration("delay", player.DefaultDelay, "Pause between steps.")
	runCmd.Flags().String("record", "",
		"Record the run into this SQLite database (.sqlite3 is appended).")
	runCmd.Flags().String("export", "",
		"Export the run to a .json or .csv file, optionally .lz4 or .snappy.")
}

func runRun(cmd *cobra.Command, _ []string) (err error) {
	policy, err := policyFlag(cmd)
	if err != nil {
		return err
	}

	frames, refs, err := references(cmd)
	if err != nil {
		return err
	}

	run, err := replacement.NewRun(frames, policy, refs)
	if err != nil {
		return err
	}

	finish, err := attachRecorder(cmd, run)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, finish())
	}()

	tracer, err := attachTracer(cmd, run)
	if err != nil {
		return err
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	p := player.MakeBuilder().
		WithWriter(cmd.OutOrStdout()).
		WithDelay(delay).
		Build()

	_, err = p.Play(cmd.Context(), run)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	if err != nil {
		return err
	}

	if tracer != nil {
		return tracer.Err()
	}

	return nil
}

func attachTracer(cmd *cobra.Command, run *replacement.Run) (*tracing.Tracer, error) {
	path, _ := cmd.Flags().GetString("export")
	if path == "" {
		return nil, nil
	}

	tracer, err := tracing.NewTracer(path, logger)
	if err != nil {
		return nil, err
	}

	tracer.Attach(run)

	return tracer, nil
}

// attachRecorder records the run if asked to. The returned function must be
// called once the run is over.
func attachRecorder(
	cmd *cobra.Command,
	run *replacement.Run,
) (func() error, error) {
	path, _ := cmd.Flags().GetString("record")
	if path == "" {
		return func() error { return nil }, nil
	}

	recorder, err := datarecording.New(path)
	if err != nil {
		return nil, err
	}

	execRecorder, err := datarecording.NewExecRecorder(recorder)
	if err != nil {
		return nil, errors.Join(err, recorder.Close())
	}

	history, err := datarecording.NewHistoryRecorder(recorder)
	if err != nil {
		return nil, errors.Join(err, recorder.Close())
	}

	if err := history.Attach(run); err != nil {
		return nil, errors.Join(err, recorder.Close())
	}

	execRecorder.Start()

	finish := func() error {
		err := errors.Join(history.Err(), execRecorder.End(), recorder.Close())
		if err == nil {
			fmt.Fprintf(os.Stderr, "Run %s recorded in %s\n",
				run.Name(), datarecording.Filename(path))
		}

		return err
	}

	return finish, nil
}
