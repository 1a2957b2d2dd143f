package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/credstore/migrations"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"

	// Applied by the driver to every connection it opens.
	connPragmas = "_pragma=busy_timeout(5000)"

	selectSecret      = `SELECT secret FROM credentials WHERE identifier = ?`
	countRecords      = `SELECT COUNT(*) FROM credentials`
	probeFormat       = `SELECT COUNT(*) FROM sqlite_master`
	credentialColumns = `SELECT name FROM pragma_table_info('credentials')`
)

// requiredColumns must be present in an existing credentials table.
var requiredColumns = []string{"identifier", "secret"}

// Store is an open credential store. It is meant for one session at a time
// and holds a single connection.
type Store struct {
	db       *sql.DB
	location string
	matcher  SecretMatcher
	logger   logging.Logger
	closed   bool
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithSecretMatcher(m SecretMatcher) Option {
	return func(s *Store) { s.matcher = m }
}

// Open opens the store at location, creating the file and schema if needed.
func Open(ctx context.Context, location string, opts ...Option) (*Store, error) {
	s := &Store{
		location: location,
		matcher:  PlainMatcher{},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if location == "" {
		return nil, &StoreError{Op: "open", Location: location, Err: errors.New("empty location")}
	}

	db, err := sql.Open(driverName, dsn(location))
	if err != nil {
		return nil, &StoreError{Op: "open", Location: location, Err: err}
	}
	db.SetMaxOpenConns(1)

	if op, err := initialize(ctx, db); err != nil {
		_ = db.Close()
		return nil, &StoreError{Op: op, Location: location, Err: err}
	}

	s.db = db
	s.logger.Debug(ctx, "credential store opened", "location", location)
	return s, nil
}

func dsn(location string) string {
	if strings.Contains(location, "?") {
		return location + "&" + connPragmas
	}
	return location + "?" + connPragmas
}

// initialize verifies the file format and any existing schema, then
// migrates. Nothing is written unless both checks pass. The returned op
// names the failing step.
func initialize(ctx context.Context, db *sql.DB) (string, error) {
	if err := db.PingContext(ctx); err != nil {
		return "open", err
	}

	var n int
	if err := db.QueryRowContext(ctx, probeFormat).Scan(&n); err != nil {
		return "verify", err
	}
	if err := verifySchema(ctx, db); err != nil {
		return "verify", err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return "migrate", err
	}
	return "", nil
}

// verifySchema accepts a database without a credentials table, or one whose
// credentials table has the required columns.
func verifySchema(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, credentialColumns)
	if err != nil {
		return err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(columns) == 0 {
		return nil
	}
	for _, c := range requiredColumns {
		if !slices.Contains(columns, c) {
			return fmt.Errorf("unexpected credentials schema: missing column %q", c)
		}
	}
	return nil
}

// RunMigrations applies the embedded schema migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Authenticate reports whether a record for identifier exists and its secret
// matches. Every failure, including storage errors, yields false.
func (s *Store) Authenticate(ctx context.Context, identifier, secret string) bool {
	if identifier == "" || secret == "" {
		return false
	}

	var stored string
	err := s.db.QueryRowContext(ctx, selectSecret, identifier).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		s.logger.Warn(ctx, "credential lookup failed", "location", s.location, "error", err)
		return false
	}

	ok, err := s.matcher.Match(stored, secret)
	if err != nil {
		s.logger.Warn(ctx, "stored secret cannot be matched", "location", s.location, "error", err)
		return false
	}
	return ok
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countRecords).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count credentials: %w", err)
	}
	return n, nil
}

// Conn exposes the underlying handle for out-of-band seeding.
func (s *Store) Conn() *sql.DB {
	return s.db
}

func (s *Store) Location() string {
	return s.location
}

// Close releases the connection. Calling it again is a no-op.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
