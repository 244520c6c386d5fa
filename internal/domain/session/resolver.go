package session

import "github.com/GriffinCanCode/GymSync/internal/shared/types"

// ResolveNeedsWorkspace decides whether the user must be sent to create a
// workspace. A prior hint that the user owns one always wins; otherwise a
// successful fetch decides; with neither, the user needs one.
func ResolveNeedsWorkspace(priorHint bool, fetched []types.Workspace, fetchedOK bool) bool {
	if priorHint {
		return false
	}
	if fetchedOK {
		return len(fetched) == 0
	}
	return true
}

// ChooseActiveWorkspace picks the active workspace from a fetched list.
// The current choice is kept when still listed (with the fetched data);
// otherwise the first workspace is chosen. An empty list yields nil.
func ChooseActiveWorkspace(current *types.Workspace, fetched []types.Workspace) *types.Workspace {
	if len(fetched) == 0 {
		return nil
	}
	if current != nil {
		if i := types.FindWorkspace(fetched, current.ID); i >= 0 {
			w := fetched[i]
			return &w
		}
	}
	w := fetched[0]
	return &w
}
