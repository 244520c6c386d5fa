package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// Gateway is the remote service as the lifecycle uses it
type Gateway interface {
	Login(ctx context.Context, email, password string) (*gateway.LoginResponse, error)
	Register(ctx context.Context, reg types.Registration) (*gateway.RegisterResponse, error)
	FetchProfile(ctx context.Context, token string) (*gateway.ProfileResponse, error)
	SwitchActiveWorkspace(ctx context.Context, token, workspaceID string) (*types.Workspace, error)
	CreateWorkspace(ctx context.Context, token string, draft types.WorkspaceDraft) (*types.Workspace, error)
	UpdateWorkspace(ctx context.Context, token, workspaceID string, draft types.WorkspaceDraft) (*types.Workspace, error)
	DeleteWorkspace(ctx context.Context, token, workspaceID string) error
	UpdateProfile(ctx context.Context, token string, update types.ProfileUpdate) (*gateway.User, error)
	DeleteAccount(ctx context.Context, token string) error
}

// Persistence is an opaque string key/value store
type Persistence interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Options configures a Lifecycle
type Options struct {
	Gateway     Gateway
	Persistence Persistence

	// Store defaults to a fresh NewStore().
	Store   *Store
	Logger  *logging.Logger
	Metrics *monitoring.Metrics

	// Retry is the reconciliation policy. Zero MaxAttempts selects
	// resilience.DefaultRetryPolicy().
	Retry resilience.RetryPolicy
}

// Lifecycle runs the public session operations. All methods are safe for
// concurrent use; operations may interleave and results that arrive after
// a logout or a newer login are discarded.
type Lifecycle struct {
	gateway Gateway
	persist Persistence
	store   *Store
	logger  *logging.Logger
	metrics *monitoring.Metrics
	retry   resilience.RetryPolicy

	// epoch changes on every login, register, logout, and restore commit.
	epoch atomic.Uint64
	// commitMu serializes applying results to memory and the local store.
	commitMu sync.Mutex
	// seq orders commits; appliedSeq is the newest one applied.
	seq        atomic.Uint64
	appliedSeq uint64

	restoreOnce sync.Once

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
}

// New creates a lifecycle
func New(opts Options) (*Lifecycle, error) {
	if opts.Gateway == nil {
		return nil, errors.New("session: gateway is required")
	}
	if opts.Persistence == nil {
		return nil, errors.New("session: persistence is required")
	}
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Retry.MaxAttempts == 0 {
		clk := opts.Retry.Clock
		opts.Retry = resilience.DefaultRetryPolicy()
		opts.Retry.Clock = clk
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Lifecycle{
		gateway:  opts.Gateway,
		persist:  opts.Persistence,
		store:    opts.Store,
		logger:   opts.Logger.Component("session"),
		metrics:  opts.Metrics,
		retry:    opts.Retry,
		bgCtx:    ctx,
		bgCancel: cancel,
	}, nil
}

// Store returns the state owner, for snapshots and subscriptions
func (l *Lifecycle) Store() *Store {
	return l.store
}

// State returns a snapshot of the current state
func (l *Lifecycle) State() State {
	return l.store.State()
}

// Subscribe registers a listener on the store
func (l *Lifecycle) Subscribe(fn Listener) func() {
	return l.store.Subscribe(fn)
}

// Login authenticates with email and password. On success the session is
// committed and, when the user owns a workspace, reconciled before
// returning. Failures are *AuthError and leave the state untouched.
func (l *Lifecycle) Login(ctx context.Context, email, password string) (err error) {
	span, ctx := tracing.Start(ctx, l.logger, "login")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("login", err)
	}()

	resp, err := l.gateway.Login(ctx, email, password)
	if err != nil {
		return authFailure(AuthInvalidCredentials, err)
	}

	profile := resp.User.Profile()
	profile.HasWorkspaceHint = resp.HasWorkspace
	if resp.Workspace != nil {
		profile.ActiveWorkspaceID = resp.Workspace.ID
	}

	l.commitMu.Lock()
	l.epoch.Add(1)
	l.appliedSeq = l.seq.Add(1)
	l.store.Update(func(s *State) {
		s.Token = resp.Token
		s.Profile = &profile
		s.Workspaces = nil
		s.ActiveWorkspace = nil
		s.NeedsWorkspace = !resp.HasWorkspace
		s.Phase = PhaseAuthenticated
	})
	l.saveSession(ctx, resp.Token, &profile)
	l.commitMu.Unlock()

	l.metrics.SetAuthenticated(true)
	l.logger.Info("logged in",
		zap.String("user_id", profile.ID),
		zap.Bool("has_workspace", resp.HasWorkspace),
		logging.Secret("token", resp.Token),
		tracing.Field(ctx))

	if resp.HasWorkspace {
		l.Reconcile(ctx)
	}
	return nil
}

// Register creates an account and starts a session for it. The new user
// owns no workspace yet. Failures are *AuthError.
func (l *Lifecycle) Register(ctx context.Context, reg types.Registration) (err error) {
	span, ctx := tracing.Start(ctx, l.logger, "register")
	defer func() {
		span.End(err)
		l.metrics.RecordSessionOp("register", err)
	}()

	resp, err := l.gateway.Register(ctx, reg)
	if err != nil {
		return authFailure(AuthRegistrationRejected, err)
	}

	profile := resp.User.Profile()

	l.commitMu.Lock()
	l.epoch.Add(1)
	l.appliedSeq = l.seq.Add(1)
	l.store.Update(func(s *State) {
		s.Token = resp.Token
		s.Profile = &profile
		s.Workspaces = nil
		s.ActiveWorkspace = nil
		s.NeedsWorkspace = true
		s.Phase = PhaseAuthenticated
	})
	l.saveSession(ctx, resp.Token, &profile)
	l.commitMu.Unlock()

	l.metrics.SetAuthenticated(true)
	l.logger.Info("registered",
		zap.String("user_id", profile.ID),
		logging.Secret("token", resp.Token),
		tracing.Field(ctx))
	return nil
}

// Logout clears the session in memory and in the local store. It never
// fails; storage errors are logged.
func (l *Lifecycle) Logout(ctx context.Context) {
	span, ctx := tracing.Start(ctx, l.logger, "logout")
	defer span.End(nil)

	// Bump before waiting on the lock so in-flight commits already see it.
	l.epoch.Add(1)

	l.commitMu.Lock()
	defer l.commitMu.Unlock()

	l.appliedSeq = l.seq.Add(1)
	l.store.Clear()
	l.clearPersisted(ctx)

	l.metrics.SetAuthenticated(false)
	l.metrics.RecordSessionOp("logout", nil)
	l.logger.Info("logged out", tracing.Field(ctx))
}

// Restore loads persisted credentials once. With both a token and a
// profile the session is restored optimistically and reconciled in the
// background; otherwise the state is Unauthenticated. Ready is true when
// Restore returns. Later calls do nothing.
func (l *Lifecycle) Restore(ctx context.Context) {
	l.restoreOnce.Do(func() {
		l.restore(ctx)
	})
}

func (l *Lifecycle) restore(ctx context.Context) {
	span, ctx := tracing.Start(ctx, l.logger, "restore")
	defer span.End(nil)

	epoch := l.epoch.Load()
	token, profile, found := l.loadPersisted(ctx)

	restored := false
	if found {
		l.commitMu.Lock()
		if l.epoch.Load() == epoch && !l.store.State().Authenticated() {
			l.epoch.Add(1)
			l.appliedSeq = l.seq.Add(1)
			l.store.Update(func(s *State) {
				s.Token = token
				s.Profile = profile
				s.Workspaces = nil
				s.ActiveWorkspace = nil
				s.NeedsWorkspace = ResolveNeedsWorkspace(profile.HasWorkspaceHint, nil, false)
			})
			restored = true
		} else {
			l.metrics.IncStaleDiscard("restore")
			l.logger.Info("discarding restored session, a newer session exists", tracing.Field(ctx))
		}
		l.commitMu.Unlock()
	}

	l.store.Update(func(s *State) {
		s.Ready = true
		if s.Token != "" {
			s.Phase = PhaseAuthenticated
		} else {
			s.Phase = PhaseUnauthenticated
		}
	})
	l.metrics.RecordSessionOp("restore", nil)

	if !restored {
		l.logger.Debug("no session to restore", tracing.Field(ctx))
		return
	}

	l.metrics.SetAuthenticated(true)
	l.logger.Info("session restored",
		zap.String("user_id", profile.ID),
		zap.Bool("has_workspace_hint", profile.HasWorkspaceHint),
		tracing.Field(ctx))

	opID := tracing.OperationID(ctx)
	l.background(func(bg context.Context) {
		l.Reconcile(tracing.WithOperationID(bg, opID))
	})
}

// Wait blocks until background work started by Restore has finished
func (l *Lifecycle) Wait() {
	l.bg.Wait()
}

// Close cancels background work and waits for it
func (l *Lifecycle) Close() {
	l.bgCancel()
	l.bg.Wait()
}

func (l *Lifecycle) background(fn func(ctx context.Context)) {
	l.bg.Add(1)
	go func() {
		defer l.bg.Done()
		fn(l.bgCtx)
	}()
}

// commitGuard is captured before a network call and checked under
// commitMu before its result is applied.
type commitGuard struct {
	epoch uint64
	token string
}

func (l *Lifecycle) guard() (commitGuard, State, error) {
	st := l.store.State()
	if st.Token == "" {
		return commitGuard{}, st, ErrNotAuthenticated
	}
	return commitGuard{epoch: l.epoch.Load(), token: st.Token}, st, nil
}

// validLocked reports whether the session the guard was taken under is
// still current. Must be called with commitMu held.
func (l *Lifecycle) validLocked(g commitGuard) (State, bool) {
	if l.epoch.Load() != g.epoch {
		return State{}, false
	}
	st := l.store.State()
	if st.Token == "" || st.Token != g.token {
		return State{}, false
	}
	return st, true
}
