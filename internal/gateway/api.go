package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// Operation names used in errors, logs and metrics
const (
	OpLogin           = "login"
	OpRegister        = "register"
	OpFetchProfile    = "fetch_profile"
	OpSwitchWorkspace = "switch_workspace"
	OpCreateWorkspace = "create_workspace"
	OpUpdateWorkspace = "update_workspace"
	OpDeleteWorkspace = "delete_workspace"
	OpUpdateProfile   = "update_profile"
	OpDeleteAccount   = "delete_account"
)

var errMissingToken = errors.New("response carried no token")

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	out := &LoginResponse{}
	err := c.do(ctx, call{
		op:     OpLogin,
		method: http.MethodPost,
		path:   PathLogin,
		body:   LoginRequest{Email: email, Password: password},
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &TransportError{Op: OpLogin, Err: errMissingToken}
	}
	return out, nil
}

// Register creates an account and returns its first token
func (c *Client) Register(ctx context.Context, reg types.Registration) (*RegisterResponse, error) {
	out := &RegisterResponse{}
	err := c.do(ctx, call{
		op:     OpRegister,
		method: http.MethodPost,
		path:   PathRegister,
		body:   reg,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &TransportError{Op: OpRegister, Err: errMissingToken}
	}
	return out, nil
}

// FetchProfile returns the user, their workspaces, and the active one
func (c *Client) FetchProfile(ctx context.Context, token string) (*ProfileResponse, error) {
	out := &ProfileResponse{}
	err := c.do(ctx, call{
		op:     OpFetchProfile,
		method: http.MethodGet,
		path:   PathProfile,
		token:  token,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	if out.Workspaces == nil {
		out.Workspaces = []types.Workspace{}
	}
	return out, nil
}

// SwitchActiveWorkspace makes workspaceID the user's active workspace
func (c *Client) SwitchActiveWorkspace(ctx context.Context, token, workspaceID string) (*types.Workspace, error) {
	out := &SwitchResponse{}
	err := c.do(ctx, call{
		op:     OpSwitchWorkspace,
		method: http.MethodPut,
		path:   PathActiveGym,
		token:  token,
		body:   SwitchRequest{WorkspaceID: workspaceID},
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	if out.ActiveWorkspace == nil {
		return nil, &TransportError{Op: OpSwitchWorkspace, Err: errors.New("response carried no workspace")}
	}
	return out.ActiveWorkspace, nil
}

// CreateWorkspace creates a workspace owned by the user
func (c *Client) CreateWorkspace(ctx context.Context, token string, draft types.WorkspaceDraft) (*types.Workspace, error) {
	out := &WorkspaceResponse{}
	err := c.do(ctx, call{
		op:     OpCreateWorkspace,
		method: http.MethodPost,
		path:   PathCreateGym,
		token:  token,
		body:   draft,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	return &out.Workspace, nil
}

// UpdateWorkspace replaces the editable fields of a workspace
func (c *Client) UpdateWorkspace(ctx context.Context, token, workspaceID string, draft types.WorkspaceDraft) (*types.Workspace, error) {
	out := &WorkspaceResponse{}
	err := c.do(ctx, call{
		op:     OpUpdateWorkspace,
		method: http.MethodPut,
		path:   PathGym,
		token:  token,
		params: map[string]string{"id": workspaceID},
		body:   draft,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	return &out.Workspace, nil
}

// DeleteWorkspace deletes a workspace owned by the user
func (c *Client) DeleteWorkspace(ctx context.Context, token, workspaceID string) error {
	return c.do(ctx, call{
		op:     OpDeleteWorkspace,
		method: http.MethodDelete,
		path:   PathGym,
		token:  token,
		params: map[string]string{"id": workspaceID},
	})
}

// UpdateProfile applies a partial profile edit
func (c *Client) UpdateProfile(ctx context.Context, token string, update types.ProfileUpdate) (*User, error) {
	out := &UserResponse{}
	err := c.do(ctx, call{
		op:     OpUpdateProfile,
		method: http.MethodPut,
		path:   PathUpdateProfile,
		token:  token,
		body:   update,
		out:    out,
	})
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// DeleteAccount deletes the user and everything they own
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, call{
		op:     OpDeleteAccount,
		method: http.MethodDelete,
		path:   PathUser,
		token:  token,
	})
}
