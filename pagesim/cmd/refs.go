package cmd

import (
	"github.com/sarchlab/pagesim/refgen"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/spf13/cobra"
)

func addFramesFlag(cmd *cobra.Command) {
	cmd.Flags().Int("frames", 3, "Number of frames.")
}

func addReferenceFlags(cmd *cobra.Command) {
	cmd.Flags().Int("length", 10, "Length of the generated reference string.")
	cmd.Flags().String("refs", "",
		"Reference string to use instead of a generated one, e.g. 7,0,1,2.")
	cmd.Flags().Int64("seed", 0,
		"Seed of the generated reference string. Random if not set.")
}

// references returns the frame count and the reference string the flags
// ask for, after checking them against the limits.
func references(cmd *cobra.Command) (int, replacement.ReferenceSequence, error) {
	frames, _ := cmd.Flags().GetInt("frames")

	refs, err := referencesFor(cmd, frames)
	if err != nil {
		return 0, nil, err
	}

	return frames, refs, nil
}

func referencesFor(
	cmd *cobra.Command,
	frames int,
) (replacement.ReferenceSequence, error) {
	length, _ := cmd.Flags().GetInt("length")
	text, _ := cmd.Flags().GetString("refs")

	if text != "" {
		refs, err := refgen.Parse(text)
		if err != nil {
			return nil, err
		}

		if err := limits.Validate(frames, len(refs)); err != nil {
			return nil, err
		}

		return refs, nil
	}

	if err := limits.Validate(frames, length); err != nil {
		return nil, err
	}

	builder := refgen.MakeBuilder().
		WithMaxLength(limits.MaxRefLength).
		WithAlphabetSize(limits.AlphabetSize)

	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		builder = builder.WithSeed(seed)
	}

	refs, err := builder.Build().Generate(length)
	if err != nil {
		return nil, err
	}

	return refs, nil
}

func policyFlag(cmd *cobra.Command) (replacement.Policy, error) {
	name, _ := cmd.Flags().GetString("policy")
	return replacement.ParsePolicy(name)
}
