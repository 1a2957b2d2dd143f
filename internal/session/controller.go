// Package session drives one login session: policy check, store lookup,
// failed-attempt counting and lockout.
//
// The controller is stateless; everything a session needs to remember lives
// in the State value passed into and returned from Submit.
package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/policy"
	"github.com/google/uuid"
)

// MaxAttempts is the number of failed store checks that locks a session.
const MaxAttempts = 5

// ErrSessionEnded is returned for submissions after the session reached
// Authenticated or Locked.
var ErrSessionEnded = errors.New("session ended")

// Authenticator answers credential checks. *credstore.Store satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) bool
}

type Controller struct {
	auth   Authenticator
	logger logging.Logger
	id     string
}

type Option func(*Controller)

// WithSessionID overrides the generated session id used in log records.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.id = id }
}

func New(auth Authenticator, logger logging.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Controller{auth: auth, id: uuid.NewString()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.With("session", c.id)
	return c
}

func (c *Controller) ID() string {
	return c.id
}

// Start returns the state of a fresh session.
func (c *Controller) Start() State {
	return State{Phase: AwaitingInput}
}

// Submit processes one (identifier, secret) submission against st.
//
// A secret failing the password policy is rejected without consulting the
// store and without counting an attempt. A store mismatch counts one
// attempt; the MaxAttempts-th mismatch locks the session. Terminal states
// accept no further submissions.
func (c *Controller) Submit(ctx context.Context, st State, identifier, secret string) (State, Result, error) {
	if st.Phase.Terminal() {
		c.logger.Warn(ctx, "submission after session end", "phase", st.Phase.String())
		return st, Result{}, ErrSessionEnded
	}

	if violations := policy.Violations(secret); len(violations) > 0 {
		c.logger.Info(ctx, "secret rejected by policy",
			"identifier", identifier, "violations", len(violations), "attempts", st.Attempts)
		next := State{Phase: AwaitingInput, Attempts: st.Attempts}
		return next, Result{Kind: ResultPolicyRejected, Violations: violations}, nil
	}

	if c.auth.Authenticate(ctx, identifier, secret) {
		c.logger.Info(ctx, "authenticated", "identifier", identifier, "attempts", st.Attempts)
		return State{Phase: Authenticated, Attempts: st.Attempts}, Result{Kind: ResultAuthenticated}, nil
	}

	attempts := st.Attempts + 1
	res := Result{AttemptsUsed: attempts, AttemptsMax: MaxAttempts}

	if attempts >= MaxAttempts {
		c.logger.Warn(ctx, "session locked", "identifier", identifier, "attempts", attempts)
		res.Kind = ResultLocked
		return State{Phase: Locked, Attempts: attempts}, res, nil
	}

	c.logger.Info(ctx, "invalid credentials", "identifier", identifier, "attempts", attempts)
	res.Kind = ResultStoreRejected
	return State{Phase: AwaitingInput, Attempts: attempts}, res, nil
}

// RequestRecovery records a password recovery request for identifier.
// Nothing is delivered anywhere.
func (c *Controller) RequestRecovery(ctx context.Context, identifier string) {
	c.logger.Info(ctx, "password recovery requested", "identifier", identifier)
}
