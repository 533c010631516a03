// Package config holds the limits a user's input must respect before a run
// is built, and loads them from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/pagesim/replacement"
)

// Environment variables that override the defaults.
const (
	EnvMaxFrames    = "PAGESIM_MAX_FRAMES"
	EnvMaxRefLength = "PAGESIM_MAX_REF_LENGTH"
	EnvAlphabetSize = "PAGESIM_ALPHABET_SIZE"
	EnvLogLevel     = "PAGESIM_LOG_LEVEL"
)

// DefaultEnvFile is read by Load when no file is named.
const DefaultEnvFile = ".env"

// ErrOutOfRange is returned when a frame count or reference length is
// outside the limits.
var ErrOutOfRange = fmt.Errorf("%w: inputs out of range",
	replacement.ErrInvalidConfiguration)

// Limits bounds what users may ask for.
type Limits struct {
	MaxFrames    int
	MaxRefLength int
	AlphabetSize int
	LogLevel     string
}

// DefaultLimits allows 1-9 frames and 1-30 references drawn from 10 pages.
func DefaultLimits() Limits {
	return Limits{
		MaxFrames:    9,
		MaxRefLength: 30,
		AlphabetSize: 10,
		LogLevel:     "info",
	}
}

// Load starts from the defaults and applies the environment. Variables in
// the env files are added to the environment first, without overriding what
// is already set. A missing default .env file is not an error.
func Load(envFiles ...string) (Limits, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return Limits{}, err
	}

	l := DefaultLimits()

	if err := overrideInt(&l.MaxFrames, EnvMaxFrames); err != nil {
		return Limits{}, err
	}

	if err := overrideInt(&l.MaxRefLength, EnvMaxRefLength); err != nil {
		return Limits{}, err
	}

	if err := overrideInt(&l.AlphabetSize, EnvAlphabetSize); err != nil {
		return Limits{}, err
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		l.LogLevel = v
	}

	if err := l.mustBeSane(); err != nil {
		return Limits{}, err
	}

	return l, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
		}

		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}

	return nil
}

func overrideInt(field *int, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer",
			replacement.ErrInvalidConfiguration, name, v)
	}

	*field = n

	return nil
}

func (l Limits) mustBeSane() error {
	if l.MaxFrames < 1 || l.MaxRefLength < 1 || l.AlphabetSize < 1 {
		return fmt.Errorf("%w: limits must be positive, got %+v",
			replacement.ErrInvalidConfiguration, l)
	}

	return nil
}

// Validate checks a frame count and a reference length against the limits.
// The error message is meant to be shown to users as is.
func (l Limits) Validate(frames, length int) error {
	if frames < 1 || frames > l.MaxFrames ||
		length < 1 || length > l.MaxRefLength {
		return fmt.Errorf("%w: frames 1-%d, length 1-%d",
			ErrOutOfRange, l.MaxFrames, l.MaxRefLength)
	}

	return nil
}
