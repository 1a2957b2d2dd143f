package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/config"
	"github.com/dmitrijs2005/gatekeeper/internal/credstore"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/session"
	"golang.org/x/term"
)

const (
	commandRecover = "recover"
	commandExit    = "exit"
)

// RecoveryMessage is shown after a recovery request for identifier.
func RecoveryMessage(identifier string) string {
	return "Password recovery requested via email: " + identifier
}

// App is the login screen. It owns the credential store for its lifetime.
type App struct {
	config     *config.Config
	logger     logging.Logger
	store      *credstore.Store
	controller *session.Controller
	state      session.State

	in  io.Reader
	out io.Writer
	raw bool
}

// NewApp opens the configured credential store and prepares a fresh session.
// A store that cannot be opened is reported as *credstore.StoreError.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	matcher, err := credstore.MatcherFor(c.SecretScheme)
	if err != nil {
		return nil, err
	}

	store, err := credstore.Open(ctx, c.DatabasePath,
		credstore.WithLogger(logger),
		credstore.WithSecretMatcher(matcher))
	if err != nil {
		logger.Error(ctx, "error opening credential store", "error", err)
		return nil, err
	}

	controller := session.New(store, logger)

	return &App{
		config:     c,
		logger:     logger,
		store:      store,
		controller: controller,
		state:      controller.Start(),
		in:         in,
		out:        out,
	}, nil
}

// State is the current session state.
func (a *App) State() session.State {
	return a.state
}

// Close releases the credential store.
func (a *App) Close() error {
	return a.store.Close()
}

// Run drives the login screen until the user authenticates, the session
// locks, the input ends or ctx is cancelled. It returns the final state.
func (a *App) Run(ctx context.Context) (session.State, error) {
	if fd, ok := terminalFd(a.in); ok {
		return a.runRaw(ctx, fd)
	}
	return a.runLines(ctx)
}

func (a *App) runRaw(ctx context.Context, fd int) (session.State, error) {
	old, err := term.MakeRaw(fd)
	if err != nil {
		return a.state, fmt.Errorf("error switching terminal to raw mode: %w", err)
	}
	defer term.Restore(fd, old)
	a.raw = true
	defer func() { a.raw = false }()

	a.println("Tab switches fields, Enter submits, Ctrl-R requests password recovery, Ctrl-C quits.")

	reader := bufio.NewReader(a.in)
	form := NewForm()
	a.render(form)

	for {
		key, err := await(ctx, reader.ReadByte)
		if err != nil {
			a.println("")
			return a.endOfInput(ctx, err)
		}

		var action Action
		form, action = Apply(form, key)

		switch action {
		case ActionQuit:
			a.println("")
			return a.state, nil
		case ActionRecover:
			a.println("")
			a.recover(ctx, form.Identifier())
		case ActionSubmit:
			a.println("")
			var done bool
			form, done = a.submit(ctx, form)
			if done {
				return a.state, nil
			}
		}
		a.render(form)
	}
}

func (a *App) runLines(ctx context.Context) (session.State, error) {
	reader := bufio.NewReader(a.in)
	ask := func(prompt string, read func(*bufio.Reader, string, io.Writer) (string, error)) (string, error) {
		return await(ctx, func() (string, error) { return read(reader, prompt, a.out) })
	}

	for {
		identifier, err := ask(fmt.Sprintf("Email (or '%s', '%s'):", commandRecover, commandExit), GetSimpleText)
		if err != nil {
			return a.endOfInput(ctx, err)
		}

		switch identifier {
		case commandExit:
			return a.state, nil
		case commandRecover:
			id, err := ask("Email for recovery:", GetSimpleText)
			if err != nil {
				return a.endOfInput(ctx, err)
			}
			a.recover(ctx, id)
			continue
		}

		secret, err := ask("Password:", GetSecretLine)
		if err != nil {
			return a.endOfInput(ctx, err)
		}

		if _, done := a.submit(ctx, formFromLines(identifier, secret)); done {
			return a.state, nil
		}
	}
}

// endOfInput maps a failed read to Run's result: cancellation wins, EOF ends
// the session quietly.
func (a *App) endOfInput(ctx context.Context, err error) (session.State, error) {
	if ctx.Err() != nil {
		return a.state, ctx.Err()
	}
	if errors.Is(err, io.EOF) {
		return a.state, nil
	}
	return a.state, err
}

// await runs read on its own goroutine and returns when it finishes or ctx
// is cancelled, whichever comes first. A read abandoned on cancellation
// keeps blocking until its input yields.
func await[T any](ctx context.Context, read func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := read()
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}

// submit hands the form to the controller and renders the outcome. It
// reports whether the session is over.
func (a *App) submit(ctx context.Context, form Form) (Form, bool) {
	st, res, err := a.controller.Submit(ctx, a.state, form.Identifier(), form.Secret())
	if err != nil {
		a.println(err.Error())
		return form, true
	}
	a.state = st
	a.println(res.Message())

	switch res.Kind {
	case session.ResultAuthenticated:
		return form, true
	case session.ResultLocked:
		a.waitLockout(ctx)
		return form, true
	default:
		return form.ClearSecret().Focus(FieldSecret), false
	}
}

func (a *App) recover(ctx context.Context, identifier string) {
	a.controller.RequestRecovery(ctx, identifier)
	a.println(RecoveryMessage(identifier))
}

// waitLockout holds the lockout message on screen for the configured delay.
func (a *App) waitLockout(ctx context.Context) {
	if a.config.LockoutDelay <= 0 {
		return
	}
	t := time.NewTimer(a.config.LockoutDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (a *App) render(form Form) {
	idMark, secretMark := ">", " "
	if form.Active() == FieldSecret {
		idMark, secretMark = " ", ">"
	}
	fmt.Fprintf(a.out, "\r\x1b[K%s Email: %s  %s Password: %s", idMark, form.Identifier(), secretMark, form.Masked())
}

func (a *App) println(s string) {
	if a.raw {
		fmt.Fprint(a.out, "\r\x1b[K"+s+"\r\n")
		return
	}
	fmt.Fprintln(a.out, s)
}
