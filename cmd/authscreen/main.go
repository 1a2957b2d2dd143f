package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gatekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/gatekeeper/internal/config"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/session"
	"github.com/dmitrijs2005/gatekeeper/internal/shell"
)

const (
	exitOK = iota
	exitFailed
	exitUsage
	exitLocked
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	buildinfo.PrintBuildData(stdout)

	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := shell.NewApp(ctx, cfg, logger, stdin, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "cannot open credential store: %v\n", err)
		return exitFailed
	}
	defer app.Close()

	st, err := app.Run(ctx)
	if err != nil && ctx.Err() == nil {
		logger.Error(ctx, "login screen stopped", "error", err)
		return exitFailed
	}

	switch st.Phase {
	case session.Authenticated:
		return exitOK
	case session.Locked:
		return exitLocked
	default:
		return exitFailed
	}
}
