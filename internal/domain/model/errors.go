package model

import "errors"

// Sentinel kinds for payload-shape failures.
var (
	ErrNotObject   = errors.New("payload is not a JSON object")
	ErrEndpoint    = errors.New("endpoint returned an error")
	ErrRowsMissing = errors.New("rows missing")
	ErrRowsInvalid = errors.New("rows invalid")
)
