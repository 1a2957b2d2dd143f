// Package config loads runtime configuration for the gatekeeper binaries.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   path of the credential database file
//	-l int      pause before the session ends after lockout (seconds)
//	-s string   secret scheme: plain | argon2id
//	-v string   log level: debug | info | warn | error
//	-b string   log backend: slog | zap
//
// # JSON schema
//
//	{
//	  "database_path": "auth.db",
//	  "lockout_delay": "2s",
//	  "secret_scheme": "plain",
//	  "log_level": "info",
//	  "log_backend": "slog"
//	}
//
// lockout_delay accepts duration strings or integer nanoseconds
// (see timex.Duration).
package config
