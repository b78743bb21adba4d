package credstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/lyftrides/pkg/cryptox"
	"github.com/aussiebroadwan/lyftrides/pkg/ridesdk"
)

// FileStore keeps credential records in a single YAML file, keyed by client
// ID. With a Passphrase set, the file is sealed with AES-256-GCM at rest.
//
// The whole file is rewritten on every Save/Delete; this store is meant for
// CLI tools holding a handful of credentials, not for concurrent writers.
type FileStore struct {
	Path string

	// Passphrase, when non-empty, seals the file contents at rest.
	Passphrase string
}

// NewFileStore creates a file store at the given path. The file is created
// on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns the stored record for a client ID, or ErrNotFound.
func (s *FileStore) Load(_ context.Context, clientID string) (*ridesdk.CredentialRecord, error) {
	records, err := s.readAll()
	if err != nil {
		return nil, err
	}

	rec, ok := records[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Save stores a record, replacing any existing one for the same client ID.
func (s *FileStore) Save(_ context.Context, rec *ridesdk.CredentialRecord) error {
	if rec == nil || rec.ClientID == "" {
		return fmt.Errorf("credstore: record must have a client id")
	}

	records, err := s.readAll()
	if err != nil {
		return err
	}

	records[rec.ClientID] = rec
	return s.writeAll(records)
}

// Delete removes the stored record for a client ID.
func (s *FileStore) Delete(_ context.Context, clientID string) error {
	records, err := s.readAll()
	if err != nil {
		return err
	}

	if _, ok := records[clientID]; !ok {
		return nil
	}

	delete(records, clientID)
	return s.writeAll(records)
}

func (s *FileStore) readAll() (map[string]*ridesdk.CredentialRecord, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]*ridesdk.CredentialRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("credstore: failed to read store file: %w", err)
	}

	if s.Passphrase != "" {
		data, err = cryptox.Open(s.Passphrase, data)
		if err != nil {
			return nil, fmt.Errorf("credstore: failed to unseal store file: %w", err)
		}
	}

	records := make(map[string]*ridesdk.CredentialRecord)
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("credstore: failed to decode store file: %w", err)
	}
	return records, nil
}

func (s *FileStore) writeAll(records map[string]*ridesdk.CredentialRecord) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("credstore: failed to encode store file: %w", err)
	}

	if s.Passphrase != "" {
		data, err = cryptox.Seal(s.Passphrase, data)
		if err != nil {
			return fmt.Errorf("credstore: failed to seal store file: %w", err)
		}
	}

	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("credstore: failed to write store file: %w", err)
	}
	return nil
}
