package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/GymSync/internal/shared/types"
	"github.com/GriffinCanCode/GymSync/internal/shared/utils"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var update types.ProfileUpdate
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change name, username, or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if update.Empty() {
				return errors.New("nothing to update")
			}
			if err := utils.ValidateProfileUpdate(update); err != nil {
				return err
			}
			if err := a.lifecycle.UpdateProfile(cmd.Context(), update); err != nil {
				return err
			}
			return a.printState()
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "first name")
	updateCmd.Flags().StringVar(&update.Lastname, "lastname", "", "last name")
	updateCmd.Flags().StringVar(&update.Username, "username", "", "username")
	updateCmd.Flags().StringVar(&update.Email, "email", "", "email")

	cmd.AddCommand(updateCmd)
	return cmd
}

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}

	var confirmed bool
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and every gym you own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if !confirmed {
				return errors.New("refusing to delete the account without --yes")
			}
			if err := a.lifecycle.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Account deleted.")
			return a.printState()
		},
	}
	deleteCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")

	cmd.AddCommand(deleteCmd)
	return cmd
}
