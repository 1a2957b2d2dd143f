package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/config"
	"github.com/dmitrijs2005/gatekeeper/internal/credstore"
	"github.com/dmitrijs2005/gatekeeper/internal/policy"
	"github.com/dmitrijs2005/gatekeeper/internal/seeding"
	"github.com/dmitrijs2005/gatekeeper/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededConfig(t *testing.T, records ...seeding.Record) *config.Config {
	t.Helper()
	ctx := context.Background()

	c := &config.Config{}
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(t.TempDir(), "auth.db")
	c.LockoutDelay = 0

	store, err := credstore.Open(ctx, c.DatabasePath)
	require.NoError(t, err)
	_, err = seeding.NewSeeder(store.Conn(), false).Upsert(ctx, records)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	return c
}

func newTestApp(t *testing.T, c *config.Config, input string) (*App, *bytes.Buffer) {
	t.Helper()
	return newTestAppFrom(t, c, strings.NewReader(input))
}

func newTestAppFrom(t *testing.T, c *config.Config, in io.Reader) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := NewApp(context.Background(), c, nil, in, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, &out
}

var alice = seeding.Record{Identifier: "alice@example.com", Secret: "Ab@12"}

func TestRun_Authenticates(t *testing.T) {
	app, out := newTestApp(t, seededConfig(t, alice), "alice@example.com\nAb@12\n")

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, st.Phase)
	assert.Equal(t, 0, st.Attempts)
	assert.Contains(t, out.String(), session.MessageAuthenticated)
}

func TestRun_PolicyRejectionDoesNotCount(t *testing.T) {
	input := "alice@example.com\nabc\n" +
		"alice@example.com\nAb@12\n"
	app, out := newTestApp(t, seededConfig(t, alice), input)

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, st.Phase)
	assert.Equal(t, 0, st.Attempts)
	assert.Contains(t, out.String(), policy.GenericMessage)
}

func TestRun_LocksAfterFiveFailures(t *testing.T) {
	input := strings.Repeat("alice@example.com\nZz@99\n", 5) + "alice@example.com\nAb@12\n"
	app, out := newTestApp(t, seededConfig(t, alice), input)

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.Locked, st.Phase)
	assert.Equal(t, session.MaxAttempts, st.Attempts)

	text := out.String()
	for _, n := range []string{"1/5", "2/5", "3/5", "4/5"} {
		assert.Contains(t, text, "Invalid credentials. Attempts: "+n)
	}
	assert.NotContains(t, text, "Attempts: 5/5")
	assert.Contains(t, text, session.MessageLocked)
	assert.NotContains(t, text, session.MessageAuthenticated)
}

func TestRun_LockoutWaitIsCancellable(t *testing.T) {
	c := seededConfig(t, alice)
	c.LockoutDelay = time.Hour
	app, out := newTestApp(t, c, strings.Repeat("alice@example.com\nZz@99\n", 5))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan session.State, 1)
	go func() {
		st, _ := app.Run(ctx)
		done <- st
	}()

	select {
	case st := <-done:
		assert.Equal(t, session.Locked, st.Phase)
		assert.Contains(t, out.String(), session.MessageLocked)
	case <-time.After(5 * time.Second):
		t.Fatal("lockout wait ignored context cancellation")
	}
}

func TestRun_Recover(t *testing.T) {
	app, out := newTestApp(t, seededConfig(t, alice), "recover\nbob@example.com\nexit\n")

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.AwaitingInput, st.Phase)
	assert.Contains(t, out.String(), RecoveryMessage("bob@example.com"))
}

func TestRun_SecretCappedAtInput(t *testing.T) {
	rec := seeding.Record{Identifier: "carol@example.com", Secret: "Ab@1234567"}
	app, out := newTestApp(t, seededConfig(t, rec), "carol@example.com\nAb@12345678901\n")

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, st.Phase)
	assert.Contains(t, out.String(), session.MessageAuthenticated)
}

func TestRun_EndOfInputAtPasswordPrompt(t *testing.T) {
	app, out := newTestApp(t, seededConfig(t, alice), "alice@example.com\n")

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.AwaitingInput, st.Phase)
	assert.Equal(t, 0, st.Attempts)
	assert.NotContains(t, out.String(), policy.GenericMessage)
}

func TestRun_EndOfInputAtRecoveryPrompt(t *testing.T) {
	app, out := newTestApp(t, seededConfig(t, alice), "recover\n")

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.AwaitingInput, st.Phase)
	assert.NotContains(t, out.String(), RecoveryMessage(""))
}

func TestRun_CancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	app, _ := newTestAppFrom(t, seededConfig(t, alice), pr)

	ctx, cancel := context.WithCancel(context.Background())
	type outcome struct {
		st  session.State
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		st, err := app.Run(ctx)
		done <- outcome{st, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case o := <-done:
		assert.ErrorIs(t, o.err, context.Canceled)
		assert.Equal(t, session.AwaitingInput, o.st.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after cancellation")
	}
}

func TestRun_CancelBetweenSubmissions(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	app, _ := newTestAppFrom(t, seededConfig(t, alice), pr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan session.State, 1)
	go func() {
		st, _ := app.Run(ctx)
		done <- st
	}()

	_, err := io.WriteString(pw, "alice@example.com\nZz@99\n")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case st := <-done:
		assert.Equal(t, 1, st.Attempts)
		assert.Equal(t, session.AwaitingInput, st.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after cancellation")
	}
}

func TestAwait(t *testing.T) {
	v, err := await(context.Background(), func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	block := make(chan struct{})
	defer close(block)
	_, err = await(ctx, func() (int, error) {
		<-block
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_InjectionPayloadRejected(t *testing.T) {
	app, out := newTestApp(t, seededConfig(t, alice), "' OR '1'='1\nAb@12' --\n")

	st, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Attempts)
	assert.Contains(t, out.String(), "Invalid credentials. Attempts: 1/5")
}

func TestNewApp_StoreError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a database\n", 100)), 0o600))

	c := &config.Config{}
	c.LoadDefaults()
	c.DatabasePath = path

	var out bytes.Buffer
	app, err := NewApp(context.Background(), c, nil, strings.NewReader(""), &out)
	require.Error(t, err)
	assert.Nil(t, app)

	var se *credstore.StoreError
	assert.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, credstore.ErrStore)
}

func TestNewApp_UnknownScheme(t *testing.T) {
	c := seededConfig(t, alice)
	c.SecretScheme = "rot13"

	_, err := NewApp(context.Background(), c, nil, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	app, _ := newTestApp(t, seededConfig(t, alice), "")
	require.NoError(t, app.Close())
	assert.NoError(t, app.Close())
}
