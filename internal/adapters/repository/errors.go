package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrClosed       = errors.New("history store closed")
	ErrInvalidLimit = errors.New("invalid history limit")
)
