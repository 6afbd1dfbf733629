package apiclient

import (
	"errors"
	"fmt"
)

var ErrClosed = errors.New("api client closed")

// HTTPError is returned for every response whose status is not 200.
type HTTPError struct {
	Method string
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s request to %s failed - %d", e.Method, e.URL, e.Status)
}
