package session

import (
	"os"
	"path/filepath"
	"strings"
)

const tokenFile = "token"

// TokenStore persists the opaque bearer credential across process restarts.
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	// Save durably replaces the stored token.
	Save(token string) error
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
}

// FileTokenStore keeps the token in a 0600 file under the user config dir.
type FileTokenStore struct {
	dir string
}

// NewFileTokenStore creates a store rooted at dir (created on first Save).
func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{dir: dir}
}

// DefaultTokenStore roots the store at os.UserConfigDir()/blastline.
func DefaultTokenStore() (*FileTokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewFileTokenStore(filepath.Join(dir, "blastline")), nil
}

func (s *FileTokenStore) path() string {
	return filepath.Join(s.dir, tokenFile)
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
