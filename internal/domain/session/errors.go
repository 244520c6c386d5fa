package session

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/GymSync/internal/gateway"
)

var (
	// ErrNotAuthenticated is returned by operations that need a token
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionChanged is returned when a logout or new login happened
	// while the operation was waiting on the remote service
	ErrSessionChanged = errors.New("session changed during operation")
)

// AuthErrorKind classifies authentication failures
type AuthErrorKind string

const (
	AuthInvalidCredentials   AuthErrorKind = "invalid_credentials"
	AuthRegistrationRejected AuthErrorKind = "registration_rejected"
	AuthUnavailable          AuthErrorKind = "unavailable"
)

// unavailableMessage replaces transport details, which are never shown.
const unavailableMessage = "service unavailable, try again later"

// AuthError is a terminal login or registration failure. Message is the
// remote service's message, unchanged.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// WorkspaceError is a failed switch or workspace/profile/account mutation.
// The session state is unchanged when it is returned.
type WorkspaceError struct {
	Op          string
	WorkspaceID string
	Message     string
	Cause       error
}

func (e *WorkspaceError) Error() string {
	if e.WorkspaceID != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.WorkspaceID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *WorkspaceError) Unwrap() error {
	return e.Cause
}

func authFailure(kind AuthErrorKind, err error) *AuthError {
	if rej, ok := gateway.AsRejection(err); ok {
		return &AuthError{Kind: kind, Message: rej.Message, Cause: err}
	}
	return &AuthError{Kind: AuthUnavailable, Message: unavailableMessage, Cause: err}
}

func workspaceFailure(op, workspaceID string, err error) *WorkspaceError {
	msg := unavailableMessage
	if rej, ok := gateway.AsRejection(err); ok {
		msg = rej.Message
	}
	return &WorkspaceError{Op: op, WorkspaceID: workspaceID, Message: msg, Cause: err}
}

// recoverable reports whether a failed fetch should be retried rather
// than treated as a defect
func recoverable(err error) bool {
	if gateway.IsTransport(err) {
		return true
	}
	_, ok := gateway.AsRejection(err)
	return ok
}
