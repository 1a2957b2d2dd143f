package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gatekeeper/internal/credstore"
	"github.com/dmitrijs2005/gatekeeper/internal/seeding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "auth.db")

	store, err := credstore.Open(ctx, path)
	require.NoError(t, err)
	_, err = seeding.NewSeeder(store.Conn(), false).Upsert(ctx, []seeding.Record{
		{Identifier: "alice@example.com", Secret: "Ab@12"},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	return path
}

func TestRun_ExitCodes(t *testing.T) {
	notDB := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notDB, []byte(strings.Repeat("not a database\n", 100)), 0o600))

	tests := []struct {
		name  string
		args  func(db string) []string
		input string
		want  int
	}{
		{
			name:  "authenticated",
			args:  func(db string) []string { return []string{"-d", db} },
			input: "alice@example.com\nAb@12\n",
			want:  exitOK,
		},
		{
			name:  "locked",
			args:  func(db string) []string { return []string{"-d", db, "-l", "0"} },
			input: strings.Repeat("alice@example.com\nZz@99\n", 5),
			want:  exitLocked,
		},
		{
			name:  "input ends before success",
			args:  func(db string) []string { return []string{"-d", db} },
			input: "alice@example.com\nZz@99\n",
			want:  exitFailed,
		},
		{
			name:  "user exits",
			args:  func(db string) []string { return []string{"-d", db} },
			input: "exit\n",
			want:  exitFailed,
		},
		{
			name: "unknown secret scheme",
			args: func(db string) []string { return []string{"-d", db, "-s", "rot13"} },
			want: exitUsage,
		},
		{
			name: "unknown log backend",
			args: func(db string) []string { return []string{"-d", db, "-b", "zerolog"} },
			want: exitUsage,
		},
		{
			name: "store cannot be opened",
			args: func(string) []string { return []string{"-d", notDB} },
			want: exitFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			got := run(tt.args(seededDatabase(t)), strings.NewReader(tt.input), &stdout, &stderr)
			assert.Equal(t, tt.want, got, "stderr: %s", stderr.String())
			assert.Contains(t, stdout.String(), "Build version:")
		})
	}
}

func TestRun_LockedPrintsMessages(t *testing.T) {
	var stdout, stderr bytes.Buffer
	input := strings.Repeat("alice@example.com\nZz@99\n", 5)

	code := run([]string{"-d", seededDatabase(t), "-l", "0", "-b", "zap"}, strings.NewReader(input), &stdout, &stderr)
	require.Equal(t, exitLocked, code)
	assert.Contains(t, stdout.String(), "Invalid credentials. Attempts: 4/5")
	assert.Contains(t, stdout.String(), "Maximum attempts reached.")
	assert.Contains(t, stderr.String(), "session locked")
}
