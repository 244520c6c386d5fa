/*
Package config loads engine and stub server configuration.

Values are layered: built-in defaults, then an optional TOML or YAML file
(chosen by extension), then GYMSYNC_* environment variables.

	GYMSYNC_GATEWAY_URL=https://api.example.com
	GYMSYNC_RECONCILE_MAX_ATTEMPTS=5
	GYMSYNC_STORAGE_ENCRYPT=true
*/
package config
