package gateway

import "github.com/GriffinCanCode/GymSync/internal/shared/types"

// User is the account as the remote service returns it
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile converts the wire user into an engine profile. Hint and active
// workspace fields are left for the caller to decide.
func (u User) Profile() types.Profile {
	return types.Profile{
		ID:       u.ID,
		Name:     u.Name,
		Lastname: u.Lastname,
		Username: u.Username,
		Email:    u.Email,
	}
}

// LoginRequest is the body of POST /api/user/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is a successful login
type LoginResponse struct {
	Token        string           `json:"token"`
	User         User             `json:"user"`
	HasWorkspace bool             `json:"hasGym"`
	Workspace    *types.Workspace `json:"gym,omitempty"`
}

// RegisterResponse is a successful registration
type RegisterResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ProfileResponse is the server-authoritative account state
type ProfileResponse struct {
	User            User              `json:"user"`
	Workspaces      []types.Workspace `json:"gyms"`
	ActiveWorkspace *types.Workspace  `json:"activeGym,omitempty"`
}

// SwitchRequest is the body of PUT /api/user/active-gym
type SwitchRequest struct {
	WorkspaceID string `json:"gymId"`
}

// SwitchResponse carries the workspace the server made active
type SwitchResponse struct {
	ActiveWorkspace *types.Workspace `json:"activeGym"`
}

// WorkspaceResponse wraps a created or updated workspace
type WorkspaceResponse struct {
	Workspace types.Workspace `json:"gym"`
}

// UserResponse wraps an updated user
type UserResponse struct {
	User User `json:"user"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Message string `json:"message"`
}

// Routes of the remote service
const (
	PathLogin         = "/api/user/login"
	PathRegister      = "/api/user/register"
	PathProfile       = "/api/user/profile"
	PathActiveGym     = "/api/user/active-gym"
	PathUpdateProfile = "/api/user/update-profile"
	PathUser          = "/api/user"
	PathCreateGym     = "/api/gym/crear"
	PathGym           = "/api/gym/{id}"
)
