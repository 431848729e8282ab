package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoFetcher  = errors.New("service has no fetcher")
)

// Failure kinds of a refresh cycle, also used as metric labels.
const (
	KindHTTP      = "http_error"
	KindTransport = "transport_error"
	KindPayload   = "payload"
	KindRender    = "render"
)

// CycleError is a cycle that ended on the error screen. Message is shown to
// viewers; Err keeps the cause for logs and errors.Is.
type CycleError struct {
	Kind    string
	Message string
	Err     error
}

func (e *CycleError) Error() string { return e.Message }

func (e *CycleError) Unwrap() error { return e.Err }
