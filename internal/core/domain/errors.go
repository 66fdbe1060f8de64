package domain

import (
	"errors"
	"fmt"
)

var ErrNoCredential = errors.New("no credential persisted")
var ErrNotAuthenticated = errors.New("not authenticated")

// RemoteError is a structured failure from the accounts backend: the
// request completed with a non-2xx status, possibly carrying a detail
// message. Transport failures (no response at all) stay untyped so
// callers can tell the two apart.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}
