package apiclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// The three persisted session keys. Their names match what browser clients
// of the same backend store in local storage.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

// SessionStore holds the credential pair and the cached profile of the
// authenticated principal. The access token is only ever written from a
// successful login or refresh result; it is never constructed locally.
type SessionStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	SetSession(access, refresh string, profile []byte) error
	Profile() []byte
	Clear() error
}

// MemStore is an in-memory SessionStore for tests and short-lived tooling.
type MemStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	profile []byte
}

var _ SessionStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemStore) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = token
	return nil
}

func (s *MemStore) SetSession(access, refresh string, profile []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.profile = profile
	return nil
}

func (s *MemStore) Profile() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.profile = nil
	return nil
}

// FileStore persists the session as a JSON file, the local-storage
// equivalent for a Go client runtime. Writes are last-writer-wins.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ SessionStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[keyAccessToken]
}

func (s *FileStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[keyRefreshToken]
}

func (s *FileStore) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	values[keyAccessToken] = token
	return s.save(values)
}

func (s *FileStore) SetSession(access, refresh string, profile []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(map[string]string{
		keyAccessToken:  access,
		keyRefreshToken: refresh,
		keyUser:         string(profile),
	})
}

func (s *FileStore) Profile() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []byte(s.load()[keyUser])
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clear session file")
	}
	return nil
}

func (s *FileStore) load() map[string]string {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	// A corrupt session file behaves like an empty one; the next login
	// rewrites it.
	_ = json.Unmarshal(data, &values)
	return values
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "write session file")
	}
	return nil
}
