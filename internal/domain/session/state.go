package session

import "github.com/GriffinCanCode/GymSync/internal/shared/types"

// Phase is the lifecycle state
type Phase int

const (
	PhaseRestoring Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseRestoring:
		return "restoring"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. Snapshots are copies and may be
// kept or modified freely.
type State struct {
	Token           string
	Profile         *types.Profile
	Workspaces      []types.Workspace
	ActiveWorkspace *types.Workspace
	NeedsWorkspace  bool
	Ready           bool
	Phase           Phase

	// Version increases with every mutation.
	Version uint64
}

// Authenticated reports whether a token is held
func (s State) Authenticated() bool {
	return s.Token != ""
}

func (s State) clone() State {
	cp := s
	cp.Profile = s.Profile.Clone()
	cp.Workspaces = types.CloneWorkspaces(s.Workspaces)
	cp.ActiveWorkspace = s.ActiveWorkspace.Clone()
	return cp
}

// normalize enforces the coupling between token, profile, and active
// workspace. Ready is never touched.
func (s *State) normalize() {
	if s.Token == "" {
		s.Profile = nil
		s.Workspaces = nil
		s.ActiveWorkspace = nil
		s.NeedsWorkspace = false
		if s.Phase == PhaseAuthenticated {
			s.Phase = PhaseUnauthenticated
		}
	}
	if s.Profile == nil {
		s.ActiveWorkspace = nil
	}
}

// ReconcileStatus is the outcome of one reconciliation
type ReconcileStatus int

const (
	// StatusApplied means the fetched state replaced the local one
	StatusApplied ReconcileStatus = iota
	// StatusNoSession means there was no token to reconcile
	StatusNoSession
	// StatusExhausted means every attempt failed; prior state is intact
	StatusExhausted
	// StatusStale means the session changed while fetching; the result
	// was discarded
	StatusStale
	// StatusFailed means an unexpected defect stopped the run
	StatusFailed
)

func (s ReconcileStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusNoSession:
		return "no_session"
	case StatusExhausted:
		return "exhausted"
	case StatusStale:
		return "stale"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OK reports whether the reconciliation applied fresh state
func (s ReconcileStatus) OK() bool {
	return s == StatusApplied
}
