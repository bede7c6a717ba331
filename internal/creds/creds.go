// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package creds is the single owner of the persisted bearer token and
// display name. Every other component reads authentication state through
// this store; nothing else touches the credentials file.
package creds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/modpack-tui/internal/config"
	"github.com/jeranaias/modpack-tui/internal/util"
)

const credentialsFile = "credentials.toml"

// credentialsWire is the on-disk shape.
type credentialsWire struct {
	Token    string `toml:"token"`
	Username string `toml:"username"`
}

// =============================================================================
// STORE
// =============================================================================

// Store persists the bearer token and username. Absence of a token is the
// sole definition of "not authenticated". Writes are atomic and
// last-write-wins; the file is chmod 0600.
type Store struct {
	mu   sync.RWMutex
	path string

	token    string
	username string
}

// NewStore creates a store backed by the default credentials file under the
// config directory, loading any persisted credentials.
func NewStore() (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(filepath.Join(dir, credentialsFile))
}

// NewStoreAt creates a store backed by an explicit path.
func NewStoreAt(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads persisted credentials. A missing file means logged out.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	var wire credentialsWire
	if _, err := toml.Decode(string(data), &wire); err != nil {
		return fmt.Errorf("failed to parse credentials: %w", err)
	}

	s.token = wire.Token
	s.username = wire.Username
	return nil
}

// Get returns the persisted token and username.
func (s *Store) Get() (token, username string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.username
}

// Token returns the bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the persisted display name.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Set persists a new token and username.
func (s *Store) Set(token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.username = username
	return s.save()
}

// Clear removes the persisted credentials. Clearing an already-empty store
// is a no-op, so forced logouts are safe to repeat.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" && s.username == "" {
		return nil
	}
	s.token = ""
	s.username = ""

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// save writes the current credentials to disk. Caller holds the lock.
func (s *Store) save() error {
	var sb strings.Builder
	encoder := toml.NewEncoder(&sb)
	if err := encoder.Encode(credentialsWire{Token: s.token, Username: s.username}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return util.AtomicWriteFile(s.path, []byte(sb.String()), 0600)
}
