package session_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/GymSync/internal/devserver"
	"github.com/GriffinCanCode/GymSync/internal/domain/session"
	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
	"github.com/GriffinCanCode/GymSync/internal/storage"
)

type e2e struct {
	t      *testing.T
	server *devserver.Server
	client *gateway.Client
	dir    string
}

func newE2E(t *testing.T) *e2e {
	t.Helper()
	srv := devserver.NewServer(config.DevServerConfig{}, nil, nil)
	srv.Store().SetBcryptCost(bcrypt.MinCost)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := gateway.NewClient(config.GatewayConfig{URL: ts.URL, Timeout: 5 * time.Second},
		gateway.WithoutRateLimit())
	return &e2e{t: t, server: srv, client: client, dir: t.TempDir()}
}

// start builds a lifecycle over the shared on-disk store, as a fresh
// process would.
func (e *e2e) start() *session.Lifecycle {
	e.t.Helper()
	persist, err := storage.NewFile(e.dir)
	require.NoError(e.t, err)

	lc, err := session.New(session.Options{
		Gateway:     e.client,
		Persistence: persist,
		Logger:      logging.Wrap(zaptest.NewLogger(e.t)),
		Retry:       resilience.DefaultRetryPolicy().Immediate(),
	})
	require.NoError(e.t, err)
	e.t.Cleanup(lc.Close)

	lc.Restore(context.Background())
	lc.Wait()
	return lc
}

func TestEndToEndSessionAcrossRestarts(t *testing.T) {
	e := newE2E(t)
	ctx := context.Background()

	lc := e.start()
	require.False(t, lc.State().Authenticated())

	require.NoError(t, lc.Register(ctx, types.Registration{
		Name: "Ana", Lastname: "Lee", Username: "analee", Email: "a@x.com", Password: "secret1",
	}))
	assert.True(t, lc.State().NeedsWorkspace)

	first, err := lc.CreateWorkspace(ctx, types.WorkspaceDraft{Name: "PowerGym", City: "Lima"})
	require.NoError(t, err)
	second, err := lc.CreateWorkspace(ctx, types.WorkspaceDraft{Name: "IronGym", City: "Cusco"})
	require.NoError(t, err)

	st := lc.State()
	assert.False(t, st.NeedsWorkspace)
	assert.Len(t, st.Workspaces, 2)
	assert.Equal(t, second.ID, st.ActiveWorkspace.ID)

	require.NoError(t, lc.SwitchActiveWorkspace(ctx, first.ID))
	assert.Equal(t, first.ID, lc.State().ActiveWorkspace.ID)

	restarted := e.start()
	st = restarted.State()
	require.True(t, st.Authenticated())
	assert.True(t, st.Ready)
	assert.Len(t, st.Workspaces, 2)
	assert.Equal(t, first.ID, st.ActiveWorkspace.ID)
	assert.False(t, st.NeedsWorkspace)
}

func TestEndToEndReconcileRetriesOverHTTP(t *testing.T) {
	e := newE2E(t)
	ctx := context.Background()
	_, _, err := e.server.Store().Seed(
		types.Registration{Name: "Ana", Lastname: "Lee", Username: "analee", Email: "a@x.com", Password: "secret1"},
		types.WorkspaceDraft{Name: "PowerGym"},
	)
	require.NoError(t, err)

	lc := e.start()
	e.server.Store().FailProfileFetches(2)
	require.NoError(t, lc.Login(ctx, "a@x.com", "secret1"))

	st := lc.State()
	require.NotNil(t, st.ActiveWorkspace)
	assert.Equal(t, "PowerGym", st.ActiveWorkspace.Name)

	e.server.Store().FailProfileFetches(3)
	assert.Equal(t, session.StatusExhausted, lc.Reconcile(ctx))
	assert.Equal(t, st.ActiveWorkspace, lc.State().ActiveWorkspace)
}

func TestEndToEndLoginRejectedAndLogout(t *testing.T) {
	e := newE2E(t)
	ctx := context.Background()
	_, _, err := e.server.Store().Seed(
		types.Registration{Name: "Ana", Lastname: "Lee", Username: "analee", Email: "a@x.com", Password: "secret1"},
	)
	require.NoError(t, err)

	lc := e.start()
	err = lc.Login(ctx, "a@x.com", "wrong")
	var authErr *session.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, session.AuthInvalidCredentials, authErr.Kind)

	require.NoError(t, lc.Login(ctx, "a@x.com", "secret1"))
	assert.True(t, lc.State().NeedsWorkspace)

	lc.Logout(ctx)
	restarted := e.start()
	assert.False(t, restarted.State().Authenticated())
	assert.Equal(t, session.PhaseUnauthenticated, restarted.State().Phase)
}
