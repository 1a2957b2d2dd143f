package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	SchemePlain    = "plain"
	SchemeArgon2id = "argon2id"

	BackendSlog = "slog"
	BackendZap  = "zap"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings shared by the login screen and the seeder.
type Config struct {
	DatabasePath string
	LockoutDelay time.Duration
	SecretScheme string
	LogLevel     string
	LogBackend   string
}

// LoadDefaults populates c with the defaults the login screen ships with.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "auth.db"
	c.LockoutDelay = 2 * time.Second
	c.SecretScheme = SchemePlain
	c.LogLevel = "info"
	c.LogBackend = BackendSlog
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: empty database path", ErrInvalidConfig)
	}
	if c.LockoutDelay < 0 {
		return fmt.Errorf("%w: negative lockout delay", ErrInvalidConfig)
	}
	switch c.SecretScheme {
	case SchemePlain, SchemeArgon2id:
	default:
		return fmt.Errorf("%w: unknown secret scheme %q", ErrInvalidConfig, c.SecretScheme)
	}
	switch c.LogBackend {
	case BackendSlog, BackendZap:
	default:
		return fmt.Errorf("%w: unknown log backend %q", ErrInvalidConfig, c.LogBackend)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file named in
// args (if any), then the flags in args. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
