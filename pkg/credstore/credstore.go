// Package credstore persists OAuth2 credential records between runs.
//
// Records are keyed by client ID. Two drivers are provided: a YAML file
// store (optionally sealed with a passphrase) and a SQLite store in the
// sqlite subpackage.
package credstore

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/lyftrides/pkg/ridesdk"
)

// ErrNotFound is returned when no record exists for the requested client ID.
var ErrNotFound = errors.New("credstore: record not found")

// Store persists credential records keyed by client ID.
type Store interface {
	// Load returns the stored record for a client ID, or ErrNotFound.
	Load(ctx context.Context, clientID string) (*ridesdk.CredentialRecord, error)

	// Save stores a record, replacing any existing one for the same client ID.
	Save(ctx context.Context, rec *ridesdk.CredentialRecord) error

	// Delete removes the stored record. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, clientID string) error
}
