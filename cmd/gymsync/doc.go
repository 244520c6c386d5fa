// Package main is the gymsync command line client.
//
// Every command restores the saved session, waits for the background
// reconcile it starts, runs, and prints the resulting session state.
//
// Usage:
//
//	gymsync login --email ana@example.com
//	gymsync status
//	gymsync workspace create --name PowerGym --city Lima
//	gymsync switch <workspace-id>
//	gymsync logout
//
// Configuration:
//   - --config path to a TOML or YAML file (or GYMSYNC_CONFIG)
//   - GYMSYNC_* environment variables, e.g. GYMSYNC_GATEWAY_URL
package main
