package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/GymSync/internal/domain/session"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
	"github.com/GriffinCanCode/GymSync/internal/shared/utils"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long: `Log in and load your gyms.

The password is prompted for when --password is not given.

Examples:
  gymsync login --email ana@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				var err error
				password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
			}
			if err := utils.ValidateCredentials(email, password); err != nil {
				return err
			}
			if err := a.lifecycle.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			return a.printState()
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var reg types.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create an account. You are logged in afterwards and asked to create a gym.

Examples:
  gymsync register --name Ana --lastname Lee --username analee --email ana@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if reg.Name == "" || reg.Lastname == "" || reg.Username == "" || reg.Email == "" {
				return errors.New("--name, --lastname, --username and --email are required")
			}
			if reg.Password == "" {
				password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				reg.Password = password
			}
			if err := utils.ValidateRegistration(reg); err != nil {
				return err
			}
			if err := a.lifecycle.Register(cmd.Context(), reg); err != nil {
				return err
			}
			return a.printState()
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "first name")
	cmd.Flags().StringVar(&reg.Lastname, "lastname", "", "last name")
	cmd.Flags().StringVar(&reg.Username, "username", "", "username")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "password (prompted when empty)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			a.lifecycle.Logout(cmd.Context())
			return a.printState()
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFrom(cmd).printState()
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the profile and gyms from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			switch status := a.lifecycle.Reconcile(cmd.Context()); status {
			case session.StatusApplied:
			case session.StatusNoSession:
				return session.ErrNotAuthenticated
			default:
				fmt.Fprintf(cmd.ErrOrStderr(), "Refresh did not complete (%s), showing saved state.\n", status)
			}
			return a.printState()
		},
	}
}
