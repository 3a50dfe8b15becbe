// Package config provides configuration management for the footprint server.
//
// Configuration is read from a YAML file and then overridden by
// environment variables. Every attribute remembers where its value came
// from so that `footprintctl configuration show` can report it.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - $FOOTPRINT_CONFIG_PATH/footprint.yml (default /etc/footprint)
//   - FOOTPRINT_* environment variables
//
// Secrets (FOOTPRINT_TOKEN_SECRET, FOOTPRINT_AI_API_KEY) are only read from
// the environment and are masked when displayed.
//
// # Key Configuration Options
//
//   - FOOTPRINT_DATABASE_URL / DATABASE_URL: sqlite path or postgres URL
//   - FOOTPRINT_REMOTE_DATABASE_URL: optional postgres replica for entries
//   - FOOTPRINT_AUTHENTICATORS: enabled authenticators (authn, guest)
//   - FOOTPRINT_LOG_LEVEL: logging verbosity
//   - FOOTPRINT_ELECTRICITY_FACTOR, FOOTPRINT_LPG_FACTOR: factor overrides
//
// The global configuration is accessed with Get and replaced with Reload,
// which the server calls when the config file changes.
package config
