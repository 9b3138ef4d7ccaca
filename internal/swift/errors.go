package swift

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrResourceNotFound is matched (via errors.Is) by a StatusError carrying 404.
var ErrResourceNotFound = errors.New("resource not found")

var (
	errMissingField = errors.New("missing field in auth response")
	errEmptyCatalog = errors.New("empty service catalog")
)

// ConnectionError wraps any failure to reach or authenticate against the
// object store, and every non-404 failure of Delete, Download and List.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return "swift: connection error"
	}
	return "swift: connection error: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NotFoundError is returned when the server answered 404 for the object.
type NotFoundError struct {
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return "swift: not found"
	}
	return "swift: not found: " + e.Err.Error()
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// StatusError is returned by the transport for any response with status >= 400.
// The response is still returned alongside it.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrResourceNotFound && e.StatusCode == http.StatusNotFound
}

// wrapFailure maps a transport error onto the two-kind taxonomy.
func wrapFailure(err error) error {
	if errors.Is(err, ErrResourceNotFound) {
		return &NotFoundError{Err: err}
	}
	return &ConnectionError{Err: err}
}
