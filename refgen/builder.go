package refgen

import "math/rand"

// Builder can build generators.
type Builder struct {
	maxLength    int
	alphabetSize int
	src          rand.Source
}

// MakeBuilder creates a builder with the default maximum length and
// alphabet.
func MakeBuilder() Builder {
	return Builder{
		maxLength:    DefaultMaxLength,
		alphabetSize: DefaultAlphabetSize,
	}
}

// WithMaxLength sets the longest reference string the generator accepts to
// produce.
func (b Builder) WithMaxLength(n int) Builder {
	b.maxLength = n
	return b
}

// WithAlphabetSize sets the number of distinct pages.
func (b Builder) WithAlphabetSize(n int) Builder {
	b.alphabetSize = n
	return b
}

// WithSource sets the source of randomness, for reproducible runs.
func (b Builder) WithSource(src rand.Source) Builder {
	b.src = src
	return b
}

// WithSeed seeds a new deterministic source.
func (b Builder) WithSeed(seed int64) Builder {
	b.src = rand.NewSource(seed)
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.maxLength < 1 {
		panic("max length must be at least 1")
	}

	if b.alphabetSize < 1 {
		panic("alphabet size must be at least 1")
	}
}

// Build creates the generator.
func (b Builder) Build() *Generator {
	b.parametersMustBeValid()

	return &Generator{
		maxLength:    b.maxLength,
		alphabetSize: b.alphabetSize,
		rng:          newRand(b.src),
	}
}
