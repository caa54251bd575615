package account

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/bytedance/sonic"
)

// Store persists one JSON document per user id. The whole profile is read
// once at startup and rewritten wholesale after every mutation; there are no
// delta writes and no schema versioning.
type Store struct {
	mu  sync.Mutex
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("profile store: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// Load reads a user's profile. A missing file is reported via os.ErrNotExist
// so callers can seed a fresh profile.
func (s *Store) Load(userID string) (*UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}

	var u UserProfile
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return &u, nil
}

// Save rewrites the user's profile document.
func (s *Store) Save(u *UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("save profile %s: %w", u.ID, err)
	}
	if err := os.WriteFile(s.path(u.ID), data, 0644); err != nil {
		return fmt.Errorf("save profile %s: %w", u.ID, err)
	}
	return nil
}
