// Package types provides the data structures shared by the engine, the
// gateway, and the stub server.
//
// Core Types:
//   - Profile: Signed-in user with the workspace hint and active workspace id
//   - Workspace: A gym owned by the user, identified by ID
//   - WorkspaceDraft: Editable workspace fields for create and update
//   - Registration, ProfileUpdate: Account creation and edits
//
// JSON tags follow the remote service's wire names (_id, opening_time,
// createdAt) so the same values can be sent, received, and persisted.
package types
