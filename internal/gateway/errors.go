package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError means the remote service could not be reached or did
// not answer meaningfully
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Rejection is a structured failure answered by the remote service
type Rejection struct {
	Op      string
	Status  int
	Message string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("gateway %s: rejected (%d): %s", e.Op, e.Status, e.Message)
}

// Unauthorized reports whether the server refused the credentials or token
func (e *Rejection) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsTransport reports whether err is or wraps a *TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsRejection returns the *Rejection carried by err, if any
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
