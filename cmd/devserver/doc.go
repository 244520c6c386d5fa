// Package main runs the in-memory gym service used for local development.
//
// Usage:
//
//	devserver --port 3000 --dev
//	devserver --demo   # seeds demo@gymsync.local / demo1234 with one gym
//
// Configuration comes from --config and GYMSYNC_DEVSERVER_* variables;
// flags override both.
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
