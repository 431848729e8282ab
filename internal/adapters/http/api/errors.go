package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrUpstream = errors.New("dashboard cycle failed")
	ErrRender   = errors.New("dashboard render failed")
)
