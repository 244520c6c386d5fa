package session

import (
	"sort"
	"sync"

	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// Listener receives a snapshot after every mutation. Listeners run
// synchronously on the mutating goroutine and must not call Store setters.
type Listener func(State)

// Store is the single owner of in-memory session state. Each setter is an
// atomic mutation; persistence is the caller's job.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[uint64]Listener
	nextID    uint64

	// notifyMu orders deliveries so listeners never see versions go back.
	notifyMu  sync.Mutex
	delivered uint64
}

// NewStore creates a store in the Restoring phase
func NewStore() *Store {
	return &Store{
		state:     State{Phase: PhaseRestoring},
		listeners: make(map[uint64]Listener),
	}
}

// State returns a snapshot of the current state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// SetToken sets the session token. An empty token clears everything
// except Ready.
func (s *Store) SetToken(token string) {
	s.mutate(func(st *State) { st.Token = token })
}

// SetProfile sets the profile
func (s *Store) SetProfile(profile *types.Profile) {
	s.mutate(func(st *State) { st.Profile = profile.Clone() })
}

// SetWorkspaces replaces the workspace list
func (s *Store) SetWorkspaces(list []types.Workspace) {
	s.mutate(func(st *State) { st.Workspaces = types.CloneWorkspaces(list) })
}

// SetActiveWorkspace sets or clears the active workspace
func (s *Store) SetActiveWorkspace(w *types.Workspace) {
	s.mutate(func(st *State) { st.ActiveWorkspace = w.Clone() })
}

// SetNeedsWorkspace sets the create-workspace routing flag
func (s *Store) SetNeedsWorkspace(needs bool) {
	s.mutate(func(st *State) { st.NeedsWorkspace = needs })
}

// SetReady marks whether the initial restore has finished
func (s *Store) SetReady(ready bool) {
	s.mutate(func(st *State) { st.Ready = ready })
}

// SetPhase sets the lifecycle phase
func (s *Store) SetPhase(phase Phase) {
	s.mutate(func(st *State) { st.Phase = phase })
}

// Update applies several changes as one mutation
func (s *Store) Update(fn func(*State)) {
	s.mutate(fn)
}

// Clear drops the session. Ready is kept.
func (s *Store) Clear() {
	s.mutate(func(st *State) {
		st.Token = ""
		st.Phase = PhaseUnauthenticated
	})
}

// Subscribe registers l and returns a function removing it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) mutate(fn func(*State)) {
	s.mu.Lock()
	version := s.state.Version
	fn(&s.state)
	s.state.normalize()
	s.state.Version = version + 1
	snapshot := s.state.clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.notify(snapshot, listeners)
}

func (s *Store) listenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}

func (s *Store) notify(snapshot State, listeners []Listener) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if snapshot.Version <= s.delivered {
		return
	}
	s.delivered = snapshot.Version
	for _, l := range listeners {
		l(snapshot.clone())
	}
}
