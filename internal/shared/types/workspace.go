package types

import "time"

// Workspace is one independently managed gym owned by the user
type Workspace struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Clone returns a copy of w, or nil for a nil workspace
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	cp := *w
	return &cp
}

// WorkspaceDraft holds the editable workspace fields
type WorkspaceDraft struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}

// CloneWorkspaces copies a workspace list. A nil list stays nil.
func CloneWorkspaces(list []Workspace) []Workspace {
	if list == nil {
		return nil
	}
	out := make([]Workspace, len(list))
	copy(out, list)
	return out
}

// FindWorkspace returns the index of the workspace with id, or -1
func FindWorkspace(list []Workspace, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
