// Package screentime models consent for the app-restriction APIs.
package screentime

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Status mirrors the platform screen-time authorization states.
type Status int

const (
	StatusNotDetermined Status = iota
	StatusApproved
	StatusDenied
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusNotDetermined:
		return "notDetermined"
	case StatusApproved:
		return "approved"
	case StatusDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Authority is the screen-time capability consumed by onboarding.
type Authority interface {
	RequestAuthorization(ctx context.Context) (Status, error)
	CurrentStatus(ctx context.Context) (Status, error)
}

const consentFile = "screentime.json"

type consentState struct {
	Status string `json:"status"`
	Grant  string `json:"grant"` // status handed out when a request resolves
}

// FileAuthority is the live Authority, recording consent in a JSON file the
// same way the location simulator records the device state.
type FileAuthority struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

// NewFileAuthority stores consent under the user config dir.
func NewFileAuthority(appDir string, log *zap.Logger) (*FileAuthority, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileAuthority{path: filepath.Join(dir, consentFile), log: log}, nil
}

// NewFileAuthorityAt uses an explicit file path. Used by tests.
func NewFileAuthorityAt(path string, log *zap.Logger) *FileAuthority {
	return &FileAuthority{path: path, log: log}
}

// RequestAuthorization resolves a pending consent request. A determined
// status is sticky; only notDetermined can change.
func (a *FileAuthority) RequestAuthorization(_ context.Context) (Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.load()
	current := parseStatus(st.Status)
	if current != StatusNotDetermined {
		return current, nil
	}
	granted := parseStatus(st.Grant)
	if granted == StatusNotDetermined {
		granted = StatusApproved
	}
	st.Status = granted.String()
	if err := a.save(st); err != nil {
		return current, err
	}
	a.log.Info("screen time consent resolved", zap.String("status", granted.String()))
	return granted, nil
}

func (a *FileAuthority) CurrentStatus(_ context.Context) (Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return parseStatus(a.load().Status), nil
}

func (a *FileAuthority) load() consentState {
	st := consentState{Status: StatusNotDetermined.String(), Grant: StatusApproved.String()}
	raw, err := os.ReadFile(a.path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		a.log.Warn("consent file unreadable, using defaults", zap.Error(err))
		return consentState{Status: StatusNotDetermined.String(), Grant: StatusApproved.String()}
	}
	return st
}

func (a *FileAuthority) save(st consentState) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := a.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, a.path)
}

func parseStatus(v string) Status {
	switch v {
	case "approved":
		return StatusApproved
	case "denied":
		return StatusDenied
	case "notDetermined":
		return StatusNotDetermined
	case "":
		return StatusNotDetermined
	default:
		return StatusUnknown
	}
}
