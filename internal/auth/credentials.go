// Package auth persists the session credentials and turns 401 responses into
// a single "unauthorized" notification.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"learnhub-storefront/internal/model"
)

// ErrNoCredentials is returned by Load when nothing is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// CredentialStore persists the token/user pair.
type CredentialStore interface {
	Load() (model.Credentials, error)
	Save(creds model.Credentials) error
	Clear() error
}

// Token returns the stored bearer token, or "" when none is stored or the
// store cannot be read.
func Token(store CredentialStore) string {
	creds, err := store.Load()
	if err != nil {
		return ""
	}
	return creds.Token
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps credentials in a JSON file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (model.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return model.Credentials{}, fmt.Errorf("reading credentials: %w", err)
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return model.Credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}
	if creds.Token == "" {
		return model.Credentials{}, ErrNoCredentials
	}
	return creds, nil
}

// Save writes creds atomically with mode 0600.
func (s *FileStore) Save(creds model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Clear removes the file. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps credentials for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	creds model.Credentials
}

// NewMemoryStore creates a store, optionally seeded with a token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{creds: model.Credentials{Token: token}}
}

func (s *MemoryStore) Load() (model.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.Token == "" {
		return model.Credentials{}, ErrNoCredentials
	}
	return s.creds, nil
}

func (s *MemoryStore) Save(creds model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = model.Credentials{}
	return nil
}

var (
	_ CredentialStore = (*FileStore)(nil)
	_ CredentialStore = (*MemoryStore)(nil)
)
