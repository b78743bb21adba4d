// Package sqlite provides a SQLite-backed credential store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/aussiebroadwan/lyftrides/pkg/credstore"
	"github.com/aussiebroadwan/lyftrides/pkg/ridesdk"
)

// Store persists credential records in a SQLite database. Unlike the file
// store, writes are row-scoped, so multiple credentials can be managed
// without rewriting the whole store.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at the given DSN. Call
// ApplyMigrations before first use.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load returns the stored record for a client ID, or credstore.ErrNotFound.
func (s *Store) Load(ctx context.Context, clientID string) (*ridesdk.CredentialRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT client_id, client_secret, access_token, expires_in_seconds,
		       scopes, grant_type, refresh_token
		FROM credentials
		WHERE client_id = ?`, clientID)

	var (
		rec             ridesdk.CredentialRecord
		secret, refresh sql.NullString
		scopes, grant   string
	)
	if err := row.Scan(
		&rec.ClientID,
		&secret,
		&rec.AccessToken,
		&rec.ExpiresInSeconds,
		&scopes,
		&grant,
		&refresh,
	); err != nil {
		return nil, mapNotFound(err)
	}

	rec.ClientSecret = mapNullString(secret)
	rec.RefreshToken = mapNullString(refresh)
	rec.Scopes = strings.Fields(scopes)
	rec.GrantType = ridesdk.GrantType(grant)

	return &rec, nil
}

// Save upserts a record keyed by client ID.
func (s *Store) Save(ctx context.Context, rec *ridesdk.CredentialRecord) error {
	if rec == nil || rec.ClientID == "" {
		return errors.New("credstore: record must have a client id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (
			client_id, client_secret, access_token, expires_in_seconds,
			scopes, grant_type, refresh_token
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			client_secret      = excluded.client_secret,
			access_token       = excluded.access_token,
			expires_in_seconds = excluded.expires_in_seconds,
			scopes             = excluded.scopes,
			grant_type         = excluded.grant_type,
			refresh_token      = excluded.refresh_token,
			updated_at         = CURRENT_TIMESTAMP`,
		rec.ClientID,
		mapStringNull(rec.ClientSecret),
		rec.AccessToken,
		rec.ExpiresInSeconds,
		strings.Join(rec.Scopes, " "),
		string(rec.GrantType),
		mapStringNull(rec.RefreshToken),
	)
	return err
}

// Delete removes the stored record for a client ID.
func (s *Store) Delete(ctx context.Context, clientID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE client_id = ?`, clientID)
	return err
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return credstore.ErrNotFound
	}
	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
