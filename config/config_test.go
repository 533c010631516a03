package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/replacement"
)

var _ = Describe("Limits", func() {
	It("should accept the bounds of the default ranges", func() {
		l := DefaultLimits()

		Expect(l.Validate(1, 1)).To(Succeed())
		Expect(l.Validate(9, 30)).To(Succeed())
	})

	DescribeTable("out of range inputs",
		func(frames, length int) {
			err := DefaultLimits().Validate(frames, length)

			Expect(err).To(MatchError(ErrOutOfRange))
			Expect(err).To(MatchError(replacement.ErrInvalidConfiguration))
			Expect(err.Error()).To(ContainSubstring("frames 1-9, length 1-30"))
		},
		Entry("no frames", 0, 10),
		Entry("too many frames", 10, 10),
		Entry("empty reference string", 3, 0),
		Entry("reference string too long", 3, 31),
	)
})

func chdir(dir string) {
	wd, err := os.Getwd()
	Expect(err).NotTo(HaveOccurred())
	Expect(os.Chdir(dir)).To(Succeed())
	DeferCleanup(os.Chdir, wd)
}

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()

		for _, name := range []string{
			EnvMaxFrames, EnvMaxRefLength, EnvAlphabetSize, EnvLogLevel,
		} {
			GinkgoT().Setenv(name, "")
			Expect(os.Unsetenv(name)).To(Succeed())
		}
	})

	It("should use the defaults when nothing is set", func() {
		chdir(dir)

		l, err := Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(Equal(DefaultLimits()))
	})

	It("should read the environment", func() {
		GinkgoT().Setenv(EnvMaxFrames, "16")
		GinkgoT().Setenv(EnvLogLevel, "debug")
		chdir(dir)

		l, err := Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(l.MaxFrames).To(Equal(16))
		Expect(l.MaxRefLength).To(Equal(30))
		Expect(l.LogLevel).To(Equal("debug"))
	})

	It("should read an env file without overriding the environment", func() {
		file := filepath.Join(dir, "limits.env")
		Expect(os.WriteFile(file, []byte(
			EnvMaxRefLength+"=50\n"+EnvAlphabetSize+"=4\n"), 0o644)).To(Succeed())
		GinkgoT().Setenv(EnvAlphabetSize, "6")

		l, err := Load(file)

		Expect(err).NotTo(HaveOccurred())
		Expect(l.MaxRefLength).To(Equal(50))
		Expect(l.AlphabetSize).To(Equal(6))
	})

	It("should fail on a missing named env file", func() {
		_, err := Load(filepath.Join(dir, "missing.env"))

		Expect(err).To(HaveOccurred())
	})

	It("should reject non-integer values", func() {
		GinkgoT().Setenv(EnvMaxFrames, "many")
		chdir(dir)

		_, err := Load()

		Expect(err).To(MatchError(replacement.ErrInvalidConfiguration))
	})

	It("should reject non-positive limits", func() {
		GinkgoT().Setenv(EnvAlphabetSize, "0")
		chdir(dir)

		_, err := Load()

		Expect(err).To(MatchError(replacement.ErrInvalidConfiguration))
	})
})

var _ = Describe("NewLogger", func() {
	It("should filter below the level", func() {
		buf := new(bytes.Buffer)
		logger := NewLogger(buf, "warn")

		logger.Info("hidden")
		logger.Warn("shown", "frames", 3)

		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("shown"))
		Expect(buf.String()).To(ContainSubstring("frames=3"))
	})

	It("should default unknown levels to info", func() {
		Expect(ParseLevel("loud")).To(Equal(slog.LevelInfo))
		Expect(ParseLevel("DEBUG")).To(Equal(slog.LevelDebug))
	})
})
