package stub

import "errors"

// Sentinel kinds for stub errors.
var (
	ErrNoToken = errors.New("stub token must not be empty")
)
