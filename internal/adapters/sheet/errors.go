package sheet

import "errors"

// Sentinel kinds for tournament sheet errors.
var (
	ErrReadSheet    = errors.New("read tournament sheet failed")
	ErrInvalidSheet = errors.New("invalid tournament sheet")
)
