package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/GymSync/internal/shared/types"
	"github.com/GriffinCanCode/GymSync/internal/shared/utils"
)

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <workspace-id>",
		Short: "Make a gym the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.lifecycle.SwitchActiveWorkspace(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printState()
		},
	}
}

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"gym"},
		Short:   "Create, edit, and delete gyms",
	}
	cmd.AddCommand(newWorkspaceCreateCmd(), newWorkspaceUpdateCmd(), newWorkspaceDeleteCmd())
	return cmd
}

func draftFlags(cmd *cobra.Command, draft *types.WorkspaceDraft) {
	cmd.Flags().StringVar(&draft.Name, "name", "", "gym name")
	cmd.Flags().StringVar(&draft.Country, "country", "", "country")
	cmd.Flags().StringVar(&draft.City, "city", "", "city")
	cmd.Flags().StringVar(&draft.Address, "address", "", "street address")
	cmd.Flags().StringVar(&draft.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&draft.OpeningTime, "opens", "", "opening time, e.g. 06:00")
	cmd.Flags().StringVar(&draft.ClosingTime, "closes", "", "closing time, e.g. 22:00")
}

func newWorkspaceCreateCmd() *cobra.Command {
	var draft types.WorkspaceDraft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a gym and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := utils.ValidateWorkspaceDraft(draft, true); err != nil {
				return err
			}
			ws, err := a.lifecycle.CreateWorkspace(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Created %s (%s)\n", ws.Name, ws.ID)
			return a.printState()
		},
	}
	draftFlags(cmd, &draft)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWorkspaceUpdateCmd() *cobra.Command {
	var draft types.WorkspaceDraft

	cmd := &cobra.Command{
		Use:   "update <workspace-id>",
		Short: "Edit a gym",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := utils.ValidateWorkspaceDraft(draft, false); err != nil {
				return err
			}
			if _, err := a.lifecycle.UpdateWorkspace(cmd.Context(), args[0], draft); err != nil {
				return err
			}
			return a.printState()
		},
	}
	draftFlags(cmd, &draft)
	return cmd
}

func newWorkspaceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workspace-id>",
		Short: "Delete a gym",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.lifecycle.DeleteWorkspace(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.printState()
		},
	}
}
