package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/GymSync/internal/shared/id"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// Reconcile replaces the local profile, workspace list, active workspace,
// and routing flag with the server's view. It fetches with the configured
// retry policy and applies the result only if the session it started under
// is still current and no newer change has been applied. It never returns
// an error; the status says what happened.
func (l *Lifecycle) Reconcile(ctx context.Context) ReconcileStatus {
	span, ctx := tracing.Start(ctx, l.logger, "reconcile")
	logger := l.logger.With(zap.String("run_id", id.NewRunID().String()), tracing.Field(ctx))

	status, err := l.reconcile(ctx, logger)
	l.metrics.RecordReconcile(status.String())
	if status == StatusStale {
		l.metrics.IncStaleDiscard("reconcile")
	}
	span.End(err)
	return status
}

func (l *Lifecycle) reconcile(ctx context.Context, logger *logging.Logger) (ReconcileStatus, error) {
	g, start, err := l.guard()
	if err != nil {
		return StatusNoSession, nil
	}
	seq := l.seq.Add(1)
	priorHint := start.Profile != nil && start.Profile.HasWorkspaceHint

	var fetched *gateway.ProfileResponse
	policy := l.retry
	hook := policy.OnAttempt
	policy.OnAttempt = func(attempt int, ok bool, err error) {
		l.metrics.RecordReconcileAttempt(ok)
		if !ok {
			logger.Debug("reconcile attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", policy.MaxAttempts),
				zap.Error(err))
		}
		if hook != nil {
			hook(attempt, ok, err)
		}
	}

	ok, err := resilience.Retry(ctx, policy, func(ctx context.Context) (bool, error) {
		resp, err := l.gateway.FetchProfile(ctx, g.token)
		if err != nil {
			if recoverable(err) {
				logger.Debug("profile fetch failed", zap.Error(err))
				return false, nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false, err
			}
			return false, fmt.Errorf("fetch profile: %w", err)
		}
		fetched = resp
		return true, nil
	})
	if err != nil {
		logger.Warn("reconcile stopped", zap.Error(err))
		return StatusFailed, err
	}
	if !ok {
		logger.Warn("reconcile exhausted, keeping local state",
			zap.Int("attempts", policy.MaxAttempts))
		return StatusExhausted, nil
	}

	l.commitMu.Lock()
	defer l.commitMu.Unlock()

	current, valid := l.validLocked(g)
	if !valid || seq < l.appliedSeq {
		logger.Info("discarding stale reconcile result")
		return StatusStale, nil
	}
	l.appliedSeq = seq
	l.applyFetched(ctx, logger, current, fetched, priorHint)
	return StatusApplied, nil
}

// applyFetched commits a successful fetch in order: profile, workspace
// list, active workspace, routing flag, then persistence. Must be called
// with commitMu held.
func (l *Lifecycle) applyFetched(ctx context.Context, logger *logging.Logger, current State, resp *gateway.ProfileResponse, priorHint bool) {
	list := resp.Workspaces
	if list == nil {
		list = []types.Workspace{}
	}

	selected := current.ActiveWorkspace
	if selected == nil {
		selected = resp.ActiveWorkspace
	}
	if selected == nil && current.Profile != nil && current.Profile.ActiveWorkspaceID != "" {
		selected = &types.Workspace{ID: current.Profile.ActiveWorkspaceID}
	}
	active := ChooseActiveWorkspace(selected, list)

	profile := resp.User.Profile()
	profile.HasWorkspaceHint = len(list) > 0
	if active != nil {
		profile.ActiveWorkspaceID = active.ID
	}

	l.store.SetProfile(&profile)
	l.store.SetWorkspaces(list)
	l.store.SetActiveWorkspace(active)
	l.store.SetNeedsWorkspace(ResolveNeedsWorkspace(priorHint, list, true))
	l.persistProfile(ctx, &profile)

	fields := []zap.Field{
		zap.Int("workspaces", len(list)),
		zap.Bool("needs_workspace", l.store.State().NeedsWorkspace),
	}
	if active != nil {
		fields = append(fields, zap.String("active_workspace", active.ID))
	}
	logger.Info("reconciled", fields...)
}
