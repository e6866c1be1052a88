package elo

import "errors"

// Sentinel error kinds for rating computations. Callers match them with errors.Is.
var (
	ErrOutOfRange      = errors.New("out of range")
	ErrUnknownCategory = errors.New("unknown game category")
)
