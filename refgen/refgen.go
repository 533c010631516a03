// Package refgen produces reference strings for page-replacement runs.
package refgen

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/sarchlab/pagesim/replacement"
)

// DefaultMaxLength is the longest reference string generated unless a
// generator is configured otherwise.
const DefaultMaxLength = 30

// DefaultAlphabetSize draws pages from 0 to 9.
const DefaultAlphabetSize = 10

var (
	// ErrInvalidLength is returned for lengths below one or above the
	// configured maximum.
	ErrInvalidLength = fmt.Errorf("%w: invalid length",
		replacement.ErrInvalidConfiguration)

	// ErrInvalidAlphabet is returned when there are no pages to draw from.
	ErrInvalidAlphabet = fmt.Errorf("%w: invalid alphabet",
		replacement.ErrInvalidConfiguration)

	errInvalidPage = errors.New("invalid page")
)

// Generate draws length pages uniformly and independently from
// {0, ..., alphabetSize-1}. If src is nil, a time-seeded source is used.
func Generate(
	length, alphabetSize int,
	src rand.Source,
) (replacement.ReferenceSequence, error) {
	return generate(length, DefaultMaxLength, alphabetSize, newRand(src))
}

func newRand(src rand.Source) *rand.Rand {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}

	return rand.New(src)
}

func generate(
	length, maxLength, alphabetSize int,
	rng *rand.Rand,
) (replacement.ReferenceSequence, error) {
	if length < 1 || length > maxLength {
		return nil, fmt.Errorf("%w: %d is not in 1-%d",
			ErrInvalidLength, length, maxLength)
	}

	if alphabetSize < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidAlphabet, alphabetSize)
	}

	refs := make(replacement.ReferenceSequence, length)
	for i := range refs {
		refs[i] = replacement.Page(rng.Intn(alphabetSize))
	}

	return refs, nil
}

// A Generator produces reference strings with a fixed alphabet and maximum
// length. A Generator is not safe for concurrent use.
type Generator struct {
	maxLength    int
	alphabetSize int
	rng          *rand.Rand
}

// Generate draws a reference string of the given length.
func (g *Generator) Generate(length int) (replacement.ReferenceSequence, error) {
	return generate(length, g.maxLength, g.alphabetSize, g.rng)
}

// MaxLength returns the longest reference string the generator produces.
func (g *Generator) MaxLength() int {
	return g.maxLength
}

// AlphabetSize returns the number of distinct pages the generator draws from.
func (g *Generator) AlphabetSize() int {
	return g.alphabetSize
}

// Parse reads a reference string supplied by a user, such as "7,0,1 2".
// Pages are separated by commas or white space and must be non-negative
// integers.
func Parse(text string) (replacement.ReferenceSequence, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no pages in %q", ErrInvalidLength, text)
	}

	refs := make(replacement.ReferenceSequence, len(fields))

	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %w %q",
				replacement.ErrInvalidConfiguration, errInvalidPage, f)
		}

		refs[i] = replacement.Page(n)
	}

	return refs, nil
}
