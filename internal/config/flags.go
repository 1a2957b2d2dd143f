package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
)

var ownFlags = []string{"-d", "-l", "-s", "-v", "-b"}

// parseFlags overlays cfg with the short flags documented in doc.go. Flags
// owned by other loaders (-c, -config) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("gatekeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "credential database path")
	lockoutDelay := fs.Int("l", int(cfg.LockoutDelay.Seconds()), "lockout delay (in seconds)")
	fs.StringVar(&cfg.SecretScheme, "s", cfg.SecretScheme, "secret scheme: plain or argon2id")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "b", cfg.LogBackend, "log backend: slog or zap")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "l" {
			cfg.LockoutDelay = time.Duration(*lockoutDelay) * time.Second
		}
	})
	return nil
}
