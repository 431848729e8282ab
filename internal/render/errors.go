package render

import "errors"

// ErrTemplate reports a template that failed to parse or execute.
var ErrTemplate = errors.New("render template")
