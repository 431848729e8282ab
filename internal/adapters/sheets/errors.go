package sheets

import (
	"errors"
	"fmt"
)

// Sentinel kinds for fetch failures.
var (
	ErrBuildRequest = errors.New("build sheet request")
	ErrTransport    = errors.New("sheet transport failure")
	ErrHTTPStatus   = errors.New("sheet endpoint returned non-2xx status")
)

// HTTPError carries a non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %s", ErrHTTPStatus, e.Status)
}

// Unwrap lets errors.Is match ErrHTTPStatus.
func (e *HTTPError) Unwrap() error { return ErrHTTPStatus }
