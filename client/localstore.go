package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// LocalStore is a file-backed key-value store. Each key carries a schema
// version so stale payloads from older builds are discarded instead of
// half-decoded.
type LocalStore struct {
	mu   sync.Mutex
	path string
	data map[string]entry
}

type entry struct {
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

func OpenLocalStore(path string) (*LocalStore, error) {
	s := &LocalStore{path: path, data: map[string]entry{}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	// A corrupt file starts fresh rather than blocking startup.
	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.data = map[string]entry{}
	}
	return s, nil
}

// Get decodes the stored payload into v. A missing key, a version mismatch,
// or an undecodable payload all report ok=false with v untouched or reset by
// json as usual; the caller falls back to defaults.
func (s *LocalStore) Get(key string, version int, v any) bool {
	s.mu.Lock()
	e, ok := s.data[key]
	s.mu.Unlock()
	if !ok || e.Version != version {
		return false
	}
	return json.Unmarshal(e.Payload, v) == nil
}

// Set stores v under key with the given schema version and flushes to disk.
func (s *LocalStore) Set(key string, version int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{Version: version, Payload: payload}
	return s.flush()
}

// Delete removes one key; other keys are untouched.
func (s *LocalStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.flush()
}

func (s *LocalStore) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// fileTokenStore keeps the bearer token in the same local store.
type fileTokenStore struct {
	store *LocalStore
}

const tokenKey = "auth_token"

// NewTokenStore wraps a LocalStore as a TokenStore.
func NewTokenStore(store *LocalStore) TokenStore {
	return &fileTokenStore{store: store}
}

func (f *fileTokenStore) Token() string {
	var token string
	if !f.store.Get(tokenKey, 1, &token) {
		return ""
	}
	return token
}

func (f *fileTokenStore) SetToken(token string) error {
	return f.store.Set(tokenKey, 1, token)
}

func (f *fileTokenStore) ClearToken() error {
	return f.store.Delete(tokenKey)
}
