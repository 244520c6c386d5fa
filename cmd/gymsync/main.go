package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/GriffinCanCode/GymSync/internal/domain/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

// describe turns lifecycle errors into the message a user should see.
func describe(err error) string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	var wsErr *session.WorkspaceError
	if errors.As(err, &wsErr) {
		return wsErr.Message
	}
	if errors.Is(err, session.ErrNotAuthenticated) {
		return "not logged in, run 'gymsync login' first"
	}
	return err.Error()
}
