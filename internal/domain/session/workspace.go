package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// SwitchActiveWorkspace asks the server to make the workspace active and,
// on success, updates the active workspace and the profile's reference to
// it. A failure is a *WorkspaceError and changes nothing.
func (l *Lifecycle) SwitchActiveWorkspace(ctx context.Context, workspaceID string) (err error) {
	span, ctx := tracing.Start(ctx, l.logger, "switch_workspace")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("switch_workspace", err)
	}()

	g, _, err := l.guard()
	if err != nil {
		return err
	}

	active, err := l.gateway.SwitchActiveWorkspace(ctx, g.token, workspaceID)
	if err != nil {
		return workspaceFailure(gateway.OpSwitchWorkspace, workspaceID, err)
	}

	err = l.commit(ctx, g, "switch_workspace", func(s *State) {
		s.ActiveWorkspace = active
		if i := types.FindWorkspace(s.Workspaces, active.ID); i >= 0 {
			s.Workspaces[i] = *active.Clone()
		}
		s.Profile.ActiveWorkspaceID = active.ID
		s.Profile.HasWorkspaceHint = true
		s.NeedsWorkspace = false
	})
	if err != nil {
		return err
	}

	l.logger.Info("switched active workspace",
		zap.String("workspace_id", active.ID),
		tracing.Field(ctx))
	return nil
}

// CreateWorkspace creates a workspace, makes it active, and reconciles.
func (l *Lifecycle) CreateWorkspace(ctx context.Context, draft types.WorkspaceDraft) (ws *types.Workspace, err error) {
	span, ctx := tracing.Start(ctx, l.logger, "create_workspace")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("create_workspace", err)
	}()

	g, _, err := l.guard()
	if err != nil {
		return nil, err
	}

	created, err := l.gateway.CreateWorkspace(ctx, g.token, draft)
	if err != nil {
		return nil, workspaceFailure(gateway.OpCreateWorkspace, "", err)
	}

	err = l.commit(ctx, g, "create_workspace", func(s *State) {
		if types.FindWorkspace(s.Workspaces, created.ID) < 0 {
			s.Workspaces = append(s.Workspaces, *created.Clone())
		}
		s.ActiveWorkspace = created.Clone()
		s.Profile.ActiveWorkspaceID = created.ID
		s.Profile.HasWorkspaceHint = true
		s.NeedsWorkspace = false
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("created workspace", zap.String("workspace_id", created.ID), tracing.Field(ctx))
	l.Reconcile(ctx)
	return created.Clone(), nil
}

// UpdateWorkspace edits a workspace on the server, then reconciles.
func (l *Lifecycle) UpdateWorkspace(ctx context.Context, workspaceID string, draft types.WorkspaceDraft) (ws *types.Workspace, err error) {
	span, ctx := tracing.Start(ctx, l.logger, "update_workspace")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("update_workspace", err)
	}()

	g, _, err := l.guard()
	if err != nil {
		return nil, err
	}

	updated, err := l.gateway.UpdateWorkspace(ctx, g.token, workspaceID, draft)
	if err != nil {
		return nil, workspaceFailure(gateway.OpUpdateWorkspace, workspaceID, err)
	}
	if !l.current(g) {
		return nil, ErrSessionChanged
	}

	l.Reconcile(ctx)
	return updated, nil
}

// UpdateProfile edits the account details, then reconciles.
func (l *Lifecycle) UpdateProfile(ctx context.Context, update types.ProfileUpdate) (err error) {
	span, ctx := tracing.Start(ctx, l.logger, "update_profile")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("update_profile", err)
	}()

	g, _, err := l.guard()
	if err != nil {
		return err
	}
	if update.Empty() {
		return nil
	}

	if _, err := l.gateway.UpdateProfile(ctx, g.token, update); err != nil {
		return workspaceFailure(gateway.OpUpdateProfile, "", err)
	}
	if !l.current(g) {
		return ErrSessionChanged
	}

	l.Reconcile(ctx)
	return nil
}

// DeleteWorkspace deletes a workspace. It is removed from the list and,
// if it was active, the active workspace is cleared. An emptied list
// clears the ownership hint. The session is then reconciled, and when a
// different workspace became active the server is told about it.
func (l *Lifecycle) DeleteWorkspace(ctx context.Context, workspaceID string) (err error) {
	span, ctx := tracing.Start(ctx, l.logger, "delete_workspace")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("delete_workspace", err)
	}()

	g, _, err := l.guard()
	if err != nil {
		return err
	}

	if err := l.gateway.DeleteWorkspace(ctx, g.token, workspaceID); err != nil {
		return workspaceFailure(gateway.OpDeleteWorkspace, workspaceID, err)
	}

	wasActive := false
	err = l.commit(ctx, g, "delete_workspace", func(s *State) {
		if i := types.FindWorkspace(s.Workspaces, workspaceID); i >= 0 {
			s.Workspaces = append(s.Workspaces[:i], s.Workspaces[i+1:]...)
		}
		if s.ActiveWorkspace != nil && s.ActiveWorkspace.ID == workspaceID {
			wasActive = true
			s.ActiveWorkspace = nil
		}
		if s.Profile.ActiveWorkspaceID == workspaceID {
			s.Profile.ActiveWorkspaceID = ""
		}
		if len(s.Workspaces) == 0 {
			s.Profile.HasWorkspaceHint = false
			s.NeedsWorkspace = ResolveNeedsWorkspace(false, s.Workspaces, true)
		}
	})
	if err != nil {
		return err
	}

	l.logger.Info("deleted workspace",
		zap.String("workspace_id", workspaceID),
		zap.Bool("was_active", wasActive),
		tracing.Field(ctx))

	if l.Reconcile(ctx) != StatusApplied || !wasActive {
		return nil
	}
	if next := l.store.State().ActiveWorkspace; next != nil {
		if _, err := l.gateway.SwitchActiveWorkspace(ctx, g.token, next.ID); err != nil {
			l.logger.Warn("could not tell the server about the new active workspace",
				zap.String("workspace_id", next.ID),
				zap.Error(err),
				tracing.Field(ctx))
		}
	}
	return nil
}

// DeleteAccount deletes the account on the server and logs out.
func (l *Lifecycle) DeleteAccount(ctx context.Context) (err error) {
	span, ctx := tracing.Start(ctx, l.logger, "delete_account")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("delete_account", err)
	}()

	g, _, err := l.guard()
	if err != nil {
		return err
	}

	if err := l.gateway.DeleteAccount(ctx, g.token); err != nil {
		return workspaceFailure(gateway.OpDeleteAccount, "", err)
	}
	if !l.current(g) {
		return ErrSessionChanged
	}

	l.Logout(ctx)
	return nil
}

// commit applies a local change for the session g was taken under and
// persists the resulting profile. In-flight reconciles started before it
// are discarded.
func (l *Lifecycle) commit(ctx context.Context, g commitGuard, op string, fn func(*State)) error {
	l.commitMu.Lock()
	defer l.commitMu.Unlock()

	if _, ok := l.validLocked(g); !ok {
		l.metrics.IncStaleDiscard(op)
		l.logger.Info("discarding result, session changed", zap.String("op", op), tracing.Field(ctx))
		return ErrSessionChanged
	}

	l.appliedSeq = l.seq.Add(1)
	l.store.Update(func(s *State) {
		if s.Profile == nil {
			s.Profile = &types.Profile{}
		}
		fn(s)
	})
	l.persistProfile(ctx, l.store.State().Profile)
	return nil
}

func (l *Lifecycle) current(g commitGuard) bool {
	l.commitMu.Lock()
	defer l.commitMu.Unlock()
	_, ok := l.validLocked(g)
	return ok
}
