// Package prefs persists small user preference flags outside the database.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store is the preference capability consumed by the reducer core.
type Store interface {
	IsOnboardingDone() (bool, error)
	SetOnboardingDone(done bool) error
}

const prefsFile = "prefs.json"

type prefsData struct {
	OnboardingDone bool `json:"onboarding_done"`
}

// FileStore keeps preferences in a JSON file under the user config dir.
type FileStore struct {
	path string
}

// NewFileStore creates the config directory if needed.
func NewFileStore(appDir string) (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, prefsFile)}, nil
}

// NewFileStoreAt uses an explicit file path. Used by tests.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) IsOnboardingDone() (bool, error) {
	data, err := s.load()
	if err != nil {
		return false, err
	}
	return data.OnboardingDone, nil
}

func (s *FileStore) SetOnboardingDone(done bool) error {
	data, err := s.load()
	if err != nil {
		data = prefsData{}
	}
	data.OnboardingDone = done
	return s.save(data)
}

func (s *FileStore) load() (prefsData, error) {
	var data prefsData
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return data, err
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return prefsData{}, err
	}
	return data, nil
}

func (s *FileStore) save(data prefsData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
