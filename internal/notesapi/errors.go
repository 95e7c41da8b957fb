package notesapi

import "fmt"

// TransportError is returned for any failed request: network errors,
// non-2xx responses and undecodable bodies. StatusCode is set only for
// non-2xx responses.
type TransportError struct {
	Op         string // list, create, remove
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s: status %d", e.Op, e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
