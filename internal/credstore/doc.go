// Package credstore is the local credential store: a single SQLite table of
// (identifier, secret) pairs answering point-lookup authentication queries.
//
// # Overview
//
// Open creates or opens the database file, checks that it really is a
// SQLite database of the expected shape and applies the embedded goose
// migrations. Reopening an initialized file is a no-op for its rows.
// Failures come back as *StoreError and leave nothing open behind, so Open
// can simply be called again.
//
// Authenticate never returns an error. A missing identifier, a wrong
// secret, a malformed or oversized input and a storage failure all produce
// false; storage failures are logged.
//
// # Secrets
//
// By default secrets are stored and compared in cleartext (PlainMatcher).
// Argon2Matcher compares against argon2id PHC hashes instead; the seeder
// writes such hashes when configured with the argon2id scheme.
//
// The store exposes no API for creating records. Rows are seeded out of
// band (see internal/seeding).
package credstore
