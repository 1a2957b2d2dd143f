// Command seed writes credential records into the store the login screen
// reads. It shares the login screen's flags (-d, -s, -v, -b, -c) and adds:
//
//	-f path   read identifier:secret lines from path ("-" for stdin)
//	-u email  seed one identifier, prompting for its password
//
// The directory holding the database is created when missing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/config"
	"github.com/dmitrijs2005/gatekeeper/internal/credstore"
	"github.com/dmitrijs2005/gatekeeper/internal/filex"
	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/policy"
	"github.com/dmitrijs2005/gatekeeper/internal/seeding"
	"github.com/dmitrijs2005/gatekeeper/internal/shell"
)

var errNoInput = errors.New("nothing to seed: pass -f or -u")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, stderr)
	if err != nil {
		return err
	}

	var file, identifier string
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&file, "f", "", "file with identifier:secret lines, - for stdin")
	fs.StringVar(&identifier, "u", "", "identifier to seed, the password is prompted")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-f", "-u"})); err != nil {
		return err
	}

	records, err := collect(file, identifier, stdin, stdout)
	if err != nil {
		return err
	}

	for _, r := range records {
		if v := policy.Violations(r.Secret); len(v) > 0 {
			fmt.Fprintf(stderr, "warning: %s can never log in: %s\n", r.Identifier, policy.Message(v))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return err
	}

	store, err := credstore.Open(ctx, cfg.DatabasePath, credstore.WithLogger(logger))
	if err != nil {
		return err
	}
	defer store.Close()

	seeder := seeding.NewSeeder(store.Conn(), cfg.SecretScheme == config.SchemeArgon2id)
	n, err := seeder.Upsert(ctx, records)
	if err != nil {
		return fmt.Errorf("error seeding %s: %w", cfg.DatabasePath, err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Seeded %d record(s) into %s (%d total)\n", n, cfg.DatabasePath, total)
	return nil
}

func collect(file, identifier string, stdin io.Reader, stdout io.Writer) ([]seeding.Record, error) {
	switch {
	case file != "":
		r := stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		return seeding.ParseRecords(r)

	case identifier != "":
		pw, err := shell.GetPassword(stdout)
		if err != nil {
			return nil, err
		}
		defer common.WipeByteArray(pw)
		return []seeding.Record{{Identifier: identifier, Secret: string(pw)}}, nil

	default:
		return nil, errNoInput
	}
}
