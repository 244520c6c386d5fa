package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/GymSync/internal/devserver"
	"github.com/GriffinCanCode/GymSync/internal/domain/session"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

func setupEnv(t *testing.T) *devserver.Store {
	t.Helper()
	srv := devserver.NewServer(config.DevServerConfig{}, nil, nil)
	srv.Store().SetBcryptCost(bcrypt.MinCost)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	t.Setenv("GYMSYNC_GATEWAY_URL", ts.URL)
	t.Setenv("GYMSYNC_STORAGE_DIR", t.TempDir())
	t.Setenv("GYMSYNC_RECONCILE_DELAY", "0s")
	t.Setenv("GYMSYNC_LOGGING_LEVEL", "error")
	return srv.Store()
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLISessionFlow(t *testing.T) {
	store := setupEnv(t)
	_, gyms, err := store.Seed(
		types.Registration{Name: "Ana", Lastname: "Lee", Username: "analee", Email: "a@x.com", Password: "secret1"},
		types.WorkspaceDraft{Name: "PowerGym", City: "Lima"},
		types.WorkspaceDraft{Name: "IronGym", City: "Cusco"},
	)
	require.NoError(t, err)

	out, err := run(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "gymsync")

	out, err = run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	out, err = run(t, "secret1\n", "login", "--email", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ana Lee")
	assert.Contains(t, out, "PowerGym")

	out, err = run(t, "", "switch", gyms[1].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "*  "+gyms[1].ID)

	out, err = run(t, "", "--json", "status")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": true`)
	assert.NotContains(t, out, "token")

	_, err = run(t, "", "logout")
	require.NoError(t, err)

	out, err = run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestCLIRegisterAndCreateWorkspace(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "register", "--name", "Ana", "--lastname", "Lee",
		"--username", "analee", "--email", "a@x.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "No gym yet.")

	out, err = run(t, "", "workspace", "create", "--name", "PowerGym", "--city", "Lima")
	require.NoError(t, err)
	assert.Contains(t, out, "PowerGym")
	assert.NotContains(t, out, "No gym yet.")
}

func TestCLIErrors(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "wrong\n", "login", "--email", "nobody@x.com")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", describe(err))

	_, err = run(t, "", "switch", "g1")
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Contains(t, describe(err), "not logged in")

	_, err = run(t, "", "account", "delete")
	assert.Error(t, err)
}

func TestCLIValidatesBeforeCallingServer(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "register", "--name", "Ana", "--lastname", "Lee",
		"--username", "analee", "--email", "not-an-email", "--password", "secret1")
	assert.EqualError(t, err, "invalid email format")

	_, err = run(t, "", "register", "--name", "Ana", "--lastname", "Lee",
		"--username", "analee", "--email", "a@x.com", "--password", "123")
	assert.ErrorContains(t, err, "at least 6")
}
