package devserver

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// Failure is an error the stub answers with a status and message
type Failure struct {
	Status  int
	Message string
}

func (f *Failure) Error() string { return f.Message }

func fail(status int, message string) *Failure {
	return &Failure{Status: status, Message: message}
}

var (
	errInvalidCredentials = fail(http.StatusUnauthorized, "Invalid email or password")
	errUnauthorized       = fail(http.StatusUnauthorized, "Invalid or expired token")
	errEmailTaken         = fail(http.StatusBadRequest, "Email is already registered")
	errUsernameTaken      = fail(http.StatusBadRequest, "Username is already taken")
	errGymNotFound        = fail(http.StatusNotFound, "Gym not found")
	errGymNameRequired    = fail(http.StatusBadRequest, "Gym name is required")
	errProfileUnavailable = fail(http.StatusServiceUnavailable, "Profile temporarily unavailable")
)

type account struct {
	user      gateway.User
	hash      []byte
	gyms      []string
	activeGym string
}

// Store is the stub's in-memory state. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	accounts   map[string]*account
	byEmail    map[string]string
	byUsername map[string]string
	tokens     map[string]string
	gyms       map[string]types.Workspace

	failProfiles int
	bcryptCost   int
	now          func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]*account),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		tokens:     make(map[string]string),
		gyms:       make(map[string]types.Workspace),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// SetBcryptCost changes the cost of newly hashed passwords
func (s *Store) SetBcryptCost(cost int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bcryptCost = cost
}

// FailProfileFetches makes the next n profile fetches answer 503
func (s *Store) FailProfileFetches(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failProfiles = n
}

// Register creates an account and returns a fresh token
func (s *Store) Register(reg types.Registration) (string, gateway.User, error) {
	if strings.TrimSpace(reg.Email) == "" || reg.Password == "" || strings.TrimSpace(reg.Username) == "" {
		return "", gateway.User{}, fail(http.StatusBadRequest, "All fields are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost())
	if err != nil {
		return "", gateway.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(reg.Email)
	if _, taken := s.byEmail[email]; taken {
		return "", gateway.User{}, errEmailTaken
	}
	if _, taken := s.byUsername[reg.Username]; taken {
		return "", gateway.User{}, errUsernameTaken
	}

	acct := &account{
		user: gateway.User{
			ID:       uuid.NewString(),
			Name:     reg.Name,
			Lastname: reg.Lastname,
			Username: reg.Username,
			Email:    email,
		},
		hash: hash,
	}
	s.accounts[acct.user.ID] = acct
	s.byEmail[email] = acct.user.ID
	s.byUsername[reg.Username] = acct.user.ID
	return s.issueLocked(acct.user.ID), acct.user, nil
}

// Login checks credentials and reports whether the user owns a gym
func (s *Store) Login(email, password string) (*gateway.LoginResponse, error) {
	s.mu.Lock()
	userID, ok := s.byEmail[normalizeEmail(email)]
	var hash []byte
	if ok {
		hash = s.accounts[userID].hash
	}
	s.mu.Unlock()

	if !ok {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return nil, errInvalidCredentials
	}
	resp := &gateway.LoginResponse{
		Token:        s.issueLocked(userID),
		User:         acct.user,
		HasWorkspace: len(acct.gyms) > 0,
	}
	if gym, ok := s.activeLocked(acct); ok {
		resp.Workspace = &gym
	} else if len(acct.gyms) > 0 {
		first := s.gyms[acct.gyms[0]]
		resp.Workspace = &first
	}
	return resp, nil
}

// Authenticate resolves a token to its user id
func (s *Store) Authenticate(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return "", errUnauthorized
	}
	return userID, nil
}

// Profile returns the user's authoritative state
func (s *Store) Profile(userID string) (*gateway.ProfileResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failProfiles > 0 {
		s.failProfiles--
		return nil, errProfileUnavailable
	}
	acct, err := s.accountLocked(userID)
	if err != nil {
		return nil, err
	}

	resp := &gateway.ProfileResponse{
		User:       acct.user,
		Workspaces: s.gymsLocked(acct),
	}
	if gym, ok := s.activeLocked(acct); ok {
		resp.ActiveWorkspace = &gym
	}
	return resp, nil
}

// SwitchActive makes gymID the user's active gym
func (s *Store) SwitchActive(userID, gymID string) (types.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accountLocked(userID)
	if err != nil {
		return types.Workspace{}, err
	}
	if !owns(acct, gymID) {
		return types.Workspace{}, errGymNotFound
	}
	acct.activeGym = gymID
	return s.gyms[gymID], nil
}

// CreateGym adds a gym. The first gym becomes active.
func (s *Store) CreateGym(userID string, draft types.WorkspaceDraft) (types.Workspace, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return types.Workspace{}, errGymNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accountLocked(userID)
	if err != nil {
		return types.Workspace{}, err
	}
	gym := fromDraft(uuid.NewString(), draft)
	gym.CreatedAt = s.now().UTC().Truncate(time.Second)
	s.gyms[gym.ID] = gym
	acct.gyms = append(acct.gyms, gym.ID)
	if acct.activeGym == "" {
		acct.activeGym = gym.ID
	}
	return gym, nil
}

// UpdateGym replaces a gym's editable fields
func (s *Store) UpdateGym(userID, gymID string, draft types.WorkspaceDraft) (types.Workspace, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return types.Workspace{}, errGymNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accountLocked(userID)
	if err != nil {
		return types.Workspace{}, err
	}
	if !owns(acct, gymID) {
		return types.Workspace{}, errGymNotFound
	}
	gym := fromDraft(gymID, draft)
	gym.CreatedAt = s.gyms[gymID].CreatedAt
	s.gyms[gymID] = gym
	return gym, nil
}

// DeleteGym removes a gym, clearing it as active if needed
func (s *Store) DeleteGym(userID, gymID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accountLocked(userID)
	if err != nil {
		return err
	}
	if !owns(acct, gymID) {
		return errGymNotFound
	}
	kept := acct.gyms[:0]
	for _, id := range acct.gyms {
		if id != gymID {
			kept = append(kept, id)
		}
	}
	acct.gyms = kept
	delete(s.gyms, gymID)
	if acct.activeGym == gymID {
		acct.activeGym = ""
	}
	return nil
}

// UpdateProfile applies a partial edit
func (s *Store) UpdateProfile(userID string, update types.ProfileUpdate) (gateway.User, error) {
	var hash []byte
	if update.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(update.Password), s.cost())
		if err != nil {
			return gateway.User{}, err
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accountLocked(userID)
	if err != nil {
		return gateway.User{}, err
	}

	if update.Email != "" {
		email := normalizeEmail(update.Email)
		if owner, taken := s.byEmail[email]; taken && owner != userID {
			return gateway.User{}, errEmailTaken
		}
		delete(s.byEmail, acct.user.Email)
		s.byEmail[email] = userID
		acct.user.Email = email
	}
	if update.Username != "" {
		if owner, taken := s.byUsername[update.Username]; taken && owner != userID {
			return gateway.User{}, errUsernameTaken
		}
		delete(s.byUsername, acct.user.Username)
		s.byUsername[update.Username] = userID
		acct.user.Username = update.Username
	}
	if update.Name != "" {
		acct.user.Name = update.Name
	}
	if update.Lastname != "" {
		acct.user.Lastname = update.Lastname
	}
	if hash != nil {
		acct.hash = hash
	}
	return acct.user, nil
}

// DeleteAccount removes the user, their gyms, and their tokens
func (s *Store) DeleteAccount(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accountLocked(userID)
	if err != nil {
		return err
	}
	for _, id := range acct.gyms {
		delete(s.gyms, id)
	}
	for token, owner := range s.tokens {
		if owner == userID {
			delete(s.tokens, token)
		}
	}
	delete(s.byEmail, acct.user.Email)
	delete(s.byUsername, acct.user.Username)
	delete(s.accounts, userID)
	return nil
}

// Seed registers a user with gyms and returns the user and gyms created
func (s *Store) Seed(reg types.Registration, drafts ...types.WorkspaceDraft) (gateway.User, []types.Workspace, error) {
	_, user, err := s.Register(reg)
	if err != nil {
		return gateway.User{}, nil, err
	}
	gyms := make([]types.Workspace, 0, len(drafts))
	for _, draft := range drafts {
		gym, err := s.CreateGym(user.ID, draft)
		if err != nil {
			return gateway.User{}, nil, err
		}
		gyms = append(gyms, gym)
	}
	return user, gyms, nil
}

// Sessions returns the number of issued tokens still valid
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *Store) cost() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bcryptCost
}

func (s *Store) issueLocked(userID string) string {
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func (s *Store) accountLocked(userID string) (*account, error) {
	acct, ok := s.accounts[userID]
	if !ok {
		return nil, errUnauthorized
	}
	return acct, nil
}

func (s *Store) gymsLocked(acct *account) []types.Workspace {
	out := make([]types.Workspace, 0, len(acct.gyms))
	for _, id := range acct.gyms {
		out = append(out, s.gyms[id])
	}
	return out
}

func (s *Store) activeLocked(acct *account) (types.Workspace, bool) {
	if acct.activeGym == "" || !owns(acct, acct.activeGym) {
		return types.Workspace{}, false
	}
	return s.gyms[acct.activeGym], true
}

func owns(acct *account, gymID string) bool {
	for _, id := range acct.gyms {
		if id == gymID {
			return true
		}
	}
	return false
}

func fromDraft(id string, draft types.WorkspaceDraft) types.Workspace {
	return types.Workspace{
		ID:          id,
		Name:        strings.TrimSpace(draft.Name),
		Country:     draft.Country,
		City:        draft.City,
		Address:     draft.Address,
		Phone:       draft.Phone,
		OpeningTime: draft.OpeningTime,
		ClosingTime: draft.ClosingTime,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// asFailure maps any error to the status and message the stub answers with
func asFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return fail(http.StatusInternalServerError, "Internal server error")
}
