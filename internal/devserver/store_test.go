package devserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

func testRegistration(username string) types.Registration {
	return types.Registration{
		Name:     "Test",
		Lastname: "User",
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	s.SetBcryptCost(bcrypt.MinCost)
	return s
}

func requireFailure(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, asFailure(err).Status)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestStore(t)

	token, user, err := s.Register(testRegistration("ana"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@example.com", user.Email)

	_, _, err = s.Register(testRegistration("ana"))
	requireFailure(t, err, http.StatusBadRequest)

	resp, err := s.Login("ANA@example.com ", "secret123")
	require.NoError(t, err)
	assert.False(t, resp.HasWorkspace)
	assert.Nil(t, resp.Workspace)
	assert.NotEqual(t, token, resp.Token)

	_, err = s.Login("ana@example.com", "wrong")
	requireFailure(t, err, http.StatusUnauthorized)
	_, err = s.Login("nobody@example.com", "secret123")
	requireFailure(t, err, http.StatusUnauthorized)
}

func TestGymLifecycle(t *testing.T) {
	s := newTestStore(t)
	user, gyms, err := s.Seed(testRegistration("bea"),
		types.WorkspaceDraft{Name: "North"},
		types.WorkspaceDraft{Name: "South"},
	)
	require.NoError(t, err)
	require.Len(t, gyms, 2)

	// First gym becomes active
	profile, err := s.Profile(user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.ActiveWorkspace)
	assert.Equal(t, gyms[0].ID, profile.ActiveWorkspace.ID)
	assert.Len(t, profile.Workspaces, 2)

	login, err := s.Login("bea@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, login.HasWorkspace)
	assert.Equal(t, gyms[0].ID, login.Workspace.ID)

	active, err := s.SwitchActive(user.ID, gyms[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "South", active.Name)

	_, err = s.SwitchActive(user.ID, "missing")
	requireFailure(t, err, http.StatusNotFound)

	updated, err := s.UpdateGym(user.ID, gyms[1].ID, types.WorkspaceDraft{Name: "South Side", City: "Lima"})
	require.NoError(t, err)
	assert.Equal(t, "Lima", updated.City)
	assert.Equal(t, gyms[1].CreatedAt, updated.CreatedAt)

	require.NoError(t, s.DeleteGym(user.ID, gyms[1].ID))
	profile, err = s.Profile(user.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.ActiveWorkspace)
	assert.Len(t, profile.Workspaces, 1)

	requireFailure(t, s.DeleteGym(user.ID, gyms[1].ID), http.StatusNotFound)

	_, err = s.CreateGym(user.ID, types.WorkspaceDraft{Name: "  "})
	requireFailure(t, err, http.StatusBadRequest)
}

func TestFailProfileFetches(t *testing.T) {
	s := newTestStore(t)
	_, user, err := s.Register(testRegistration("cam"))
	require.NoError(t, err)

	s.FailProfileFetches(2)
	_, err = s.Profile(user.ID)
	requireFailure(t, err, http.StatusServiceUnavailable)
	_, err = s.Profile(user.ID)
	requireFailure(t, err, http.StatusServiceUnavailable)
	_, err = s.Profile(user.ID)
	assert.NoError(t, err)
}

func TestUpdateProfileAndDeleteAccount(t *testing.T) {
	s := newTestStore(t)
	token, user, err := s.Register(testRegistration("dan"))
	require.NoError(t, err)
	_, _, err = s.Register(testRegistration("eva"))
	require.NoError(t, err)

	_, err = s.UpdateProfile(user.ID, types.ProfileUpdate{Email: "eva@example.com"})
	requireFailure(t, err, http.StatusBadRequest)

	updated, err := s.UpdateProfile(user.ID, types.ProfileUpdate{Name: "Daniel", Password: "newpass1"})
	require.NoError(t, err)
	assert.Equal(t, "Daniel", updated.Name)
	_, err = s.Login("dan@example.com", "newpass1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(user.ID))
	_, err = s.Authenticate(token)
	requireFailure(t, err, http.StatusUnauthorized)
	_, err = s.Login("dan@example.com", "newpass1")
	requireFailure(t, err, http.StatusUnauthorized)
	assert.Equal(t, 1, s.Sessions(), "the other account keeps its token")
}
