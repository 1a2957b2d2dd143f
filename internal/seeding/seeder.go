// Package seeding writes credential records into a store out of band. The
// login flow itself never creates records.
package seeding

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/cryptox"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
)

var (
	ErrEmptyIdentifier = errors.New("empty identifier")
	ErrMalformedLine   = errors.New("malformed record line")
)

const upsertRecord = `
	INSERT INTO credentials (identifier, secret) VALUES (?, ?)
	ON CONFLICT(identifier) DO UPDATE SET secret = excluded.secret
`

// Record is one identifier/secret pair to seed.
type Record struct {
	Identifier string
	Secret     string
}

// Seeder upserts records. When hash is set, secrets are stored as argon2id
// hashes instead of cleartext; secrets that already are such hashes are
// stored as given.
type Seeder struct {
	db   *sql.DB
	hash bool
}

func NewSeeder(db *sql.DB, hash bool) *Seeder {
	return &Seeder{db: db, hash: hash}
}

// Upsert writes records in one transaction and returns how many were
// written. Nothing is written if any record is invalid.
func (s *Seeder) Upsert(ctx context.Context, records []Record) (int, error) {
	for i, r := range records {
		if r.Identifier == "" {
			return 0, fmt.Errorf("record %d: %w", i+1, ErrEmptyIdentifier)
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, r := range records {
			secret := r.Secret
			if s.hash && !cryptox.IsHash(secret) {
				secret = cryptox.HashSecret([]byte(r.Secret))
			}
			if _, err := tx.ExecContext(ctx, upsertRecord, r.Identifier, secret); err != nil {
				return fmt.Errorf("failed to upsert %q: %w", r.Identifier, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ParseRecords reads "identifier:secret" lines. Blank lines and lines
// starting with '#' are skipped. The identifier ends at the first ':', so
// secrets may contain colons.
func ParseRecords(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}

		identifier, secret, found := strings.Cut(text, ":")
		if !found {
			return nil, fmt.Errorf("line %d: %w", line, ErrMalformedLine)
		}
		identifier = strings.TrimSpace(identifier)
		if identifier == "" {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyIdentifier)
		}
		records = append(records, Record{Identifier: identifier, Secret: secret})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}
