package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields let a
// file override only the keys it mentions.
type JsonConfig struct {
	DatabasePath *string         `json:"database_path"`
	LockoutDelay *timex.Duration `json:"lockout_delay"`
	SecretScheme *string         `json:"secret_scheme"`
	LogLevel     *string         `json:"log_level"`
	LogBackend   *string         `json:"log_backend"`
}

// parseJson overlays cfg with the file given by -c / -config. Without
// either flag it is a no-op.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.LockoutDelay != nil {
		cfg.LockoutDelay = jc.LockoutDelay.Duration
	}
	if jc.SecretScheme != nil {
		cfg.SecretScheme = *jc.SecretScheme
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogBackend != nil {
		cfg.LogBackend = *jc.LogBackend
	}
	return nil
}
