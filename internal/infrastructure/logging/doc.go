// Package logging provides structured logging using uber/zap.
//
// Two output modes are supported:
//   - Production: JSON lines on stderr
//   - Development: colored console output
//
// Library packages accept a *Logger and fall back to NewNop when given nil,
// so the engine can be embedded without configuring logging at all.
//
// Credentials are never logged. Use Secret to record that a token was
// present without writing it:
//
//	logger.Info("session restored", logging.Secret("token", token))
package logging
