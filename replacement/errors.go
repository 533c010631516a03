package replacement

import "errors"

var (
	// ErrInvalidConfiguration is returned when a run cannot be built from the
	// given capacity, policy or references.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRunNotStarted is returned when stepping a run that was not created
	// by NewRun.
	ErrRunNotStarted = errors.New("run not started")

	// ErrRunCompleted is returned when stepping a run that has consumed all
	// its references.
	ErrRunCompleted = errors.New("run completed")
)
