// Package devserver is an in-memory stand-in for the remote gym service.
//
// It answers every route the gateway calls with the same wire format as
// the real service, so the engine can be exercised end to end over HTTP
// without a database. Passwords are bcrypt hashes, tokens and ids are
// UUIDs, and FailProfileFetches injects transient 503s.
//
// Routes:
//   - POST   /api/user/login, /api/user/register
//   - GET    /api/user/profile
//   - PUT    /api/user/active-gym, /api/user/update-profile
//   - DELETE /api/user
//   - POST   /api/gym/crear
//   - PUT    /api/gym/:id, DELETE /api/gym/:id
//   - GET    /health, /metrics
//
// Example Usage:
//
//	srv := devserver.NewServer(cfg.DevServer, logger, metrics)
//	ts := httptest.NewServer(srv.Handler())
//	defer ts.Close()
package devserver
