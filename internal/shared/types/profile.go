package types

// Profile is the signed-in user as the engine knows it. It is persisted
// locally together with the workspace hint and the active workspace id.
type Profile struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// HasWorkspaceHint records that the user was last known to own at
	// least one workspace.
	HasWorkspaceHint  bool   `json:"has_workspace_hint"`
	ActiveWorkspaceID string `json:"active_workspace_id,omitempty"`
}

// Clone returns a copy of p, or nil for a nil profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Registration carries the fields needed to create an account
type Registration struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is a partial profile edit. Empty fields are left unchanged.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Lastname string `json:"lastname,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Empty reports whether the update changes nothing
func (u ProfileUpdate) Empty() bool {
	return u == ProfileUpdate{}
}
