package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/GymSync/internal/domain/session"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// stateView is the printable session, without the token.
type stateView struct {
	Phase           string            `json:"phase"`
	Authenticated   bool              `json:"authenticated"`
	NeedsWorkspace  bool              `json:"needs_workspace"`
	Profile         *types.Profile    `json:"profile,omitempty"`
	ActiveWorkspace *types.Workspace  `json:"active_workspace,omitempty"`
	Workspaces      []types.Workspace `json:"workspaces"`
}

func viewOf(st session.State) stateView {
	list := st.Workspaces
	if list == nil {
		list = []types.Workspace{}
	}
	return stateView{
		Phase:           st.Phase.String(),
		Authenticated:   st.Authenticated(),
		NeedsWorkspace:  st.NeedsWorkspace,
		Profile:         st.Profile,
		ActiveWorkspace: st.ActiveWorkspace,
		Workspaces:      list,
	}
}

func (a *app) printState() error {
	return printState(a.out, a.lifecycle.State(), a.json)
}

func printState(out io.Writer, st session.State, asJSON bool) error {
	view := viewOf(st)
	if asJSON {
		data, err := sonic.ConfigStd.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	if !view.Authenticated {
		_, err := fmt.Fprintln(out, "Not logged in.")
		return err
	}

	p := view.Profile
	fmt.Fprintf(out, "Logged in as %s %s (%s, %s)\n", p.Name, p.Lastname, p.Username, p.Email)
	if view.NeedsWorkspace {
		fmt.Fprintln(out, "No gym yet. Create one with 'gymsync workspace create'.")
	}
	if len(view.Workspaces) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tCITY\tHOURS\tCREATED")
	for _, ws := range view.Workspaces {
		marker := ""
		if view.ActiveWorkspace != nil && view.ActiveWorkspace.ID == ws.ID {
			marker = "*"
		}
		created := ""
		if !ws.CreatedAt.IsZero() {
			created = ws.CreatedAt.Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s-%s\t%s\n",
			marker, ws.ID, ws.Name, ws.City, ws.OpeningTime, ws.ClosingTime, created)
	}
	return w.Flush()
}
