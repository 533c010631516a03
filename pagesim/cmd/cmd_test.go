package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/config"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/tracing"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)

	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())

	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

var _ = Describe("pagesim", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	AfterEach(func() {
		resetFlags(rootCmd)
	})

	It("should compare the policies", func() {
		out, err := execute("compare",
			"--frames", "3", "--refs", "7,0,1,2,0,3,0,4")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Ref String: [7 0 1 2 0 3 0 4]"))
		Expect(out).To(MatchRegexp(`FIFO\s+1\s+7\s`))
		Expect(out).To(MatchRegexp(`LRU\s+2\s+6\s`))
		Expect(out).To(MatchRegexp(`OPT\s+2\s+6\s`))
	})

	It("should print a comparison as csv", func() {
		out, err := execute("compare", "--csv",
			"--frames", "2", "--refs", "1,2,3,1,2")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("Policy,Frames,References,Hits,Faults,HitRatio"))
	})

	It("should flag Belady's anomaly in a sweep", func() {
		out, err := execute("sweep", "--policy", "fifo",
			"--refs", "1,2,3,4,1,2,5,1,2,3,4,5", "--max-frames", "5")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(" 3 frames:   9 faults\n"))
		Expect(out).To(ContainSubstring(" 4 frames:  10 faults  <- Belady's anomaly"))
		Expect(strings.Count(out, "anomaly")).To(Equal(1))
	})

	It("should reject inputs out of range", func() {
		_, err := execute("compare", "--frames", "10", "--length", "5")

		Expect(err).To(MatchError(config.ErrOutOfRange))
	})

	It("should reject an unknown policy", func() {
		_, err := execute("run", "--policy", "mru", "--delay", "0")

		Expect(err).To(MatchError(replacement.ErrInvalidConfiguration))
	})

	It("should play and export a run", func() {
		path := filepath.Join(dir, "run.json.lz4")

		out, err := execute("run", "--policy", "lru", "--frames", "1",
			"--refs", "5,5,5", "--delay", "0", "--export", path)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Ref String: [5, 5, 5]"))
		Expect(out).To(ContainSubstring("Simulation complete"))

		trace, err := tracing.Import(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(trace.Policy).To(Equal(replacement.LRU))
		Expect(trace.Stats().Faults).To(Equal(1))
	})

	It("should generate the same references for the same seed", func() {
		a, err := execute("compare", "--frames", "3", "--length", "20",
			"--seed", "42")
		Expect(err).NotTo(HaveOccurred())

		b, err := execute("compare", "--frames", "3", "--length", "20",
			"--seed", "42")
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	It("should record a run and replay it", func() {
		db := filepath.Join(dir, "runs")

		_, err := execute("run", "--policy", "opt", "--frames", "2",
			"--refs", "1,2,3,1,2", "--delay", "0", "--record", db)
		Expect(err).NotTo(HaveOccurred())

		list, err := execute("replay", "--db", db+".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(ContainSubstring("OPT  2 frames  [1 2 3 1 2]"))

		runID := strings.Fields(list)[0]

		out, err := execute("replay", "--db", db+".sqlite3", "--run", runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Processing 3 (OPT)"))
		Expect(out).To(ContainSubstring("5 references, 1 hits, 4 faults"))
	})
})
