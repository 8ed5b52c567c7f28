package location

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/geo"
)

const deviceFile = "device.json"

// deviceState is the on-disk shape of the simulated handset. Editing the file
// by hand (or opening it via the settings opener) is the terminal analog of
// the OS privacy settings screen.
type deviceState struct {
	Authorization string  `json:"authorization"` // notDetermined|authorizedWhenInUse|authorizedAlways|denied|restricted
	Grant         string  `json:"grant"`         // status handed out when a request resolves
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	HasFix        bool    `json:"has_fix"`
}

// Simulator is the live Authority. A terminal has no location hardware, so
// the device is a JSON file under the user config dir.
type Simulator struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

// NewSimulator creates the backing file with defaults if absent.
func NewSimulator(appDir string, log *zap.Logger) (*Simulator, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Simulator{path: filepath.Join(dir, deviceFile), log: log}, nil
}

// NewSimulatorAt uses an explicit file path. Used by tests.
func NewSimulatorAt(path string, log *zap.Logger) *Simulator {
	return &Simulator{path: path, log: log}
}

// Path returns the backing file location.
func (s *Simulator) Path() string { return s.path }

func (s *Simulator) Status() AuthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return parseStatus(s.load().Authorization)
}

// RequestWhenInUse resolves a pending permission request. Matching platform
// behavior, it only changes anything while the status is still undetermined.
func (s *Simulator) RequestWhenInUse(_ context.Context) (AuthStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	current := parseStatus(st.Authorization)
	if current != StatusNotDetermined {
		return current, nil
	}
	granted := parseStatus(st.Grant)
	if granted == StatusNotDetermined {
		granted = StatusWhenInUse
	}
	st.Authorization = granted.String()
	if err := s.save(st); err != nil {
		return current, err
	}
	s.log.Info("location permission resolved", zap.String("status", granted.String()))
	return granted, nil
}

// RequestAlways upgrades when-in-use access to always; any other starting
// status is returned unchanged.
func (s *Simulator) RequestAlways(_ context.Context) (AuthStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	current := parseStatus(st.Authorization)
	if current != StatusWhenInUse {
		return current, nil
	}
	st.Authorization = StatusAlways.String()
	if err := s.save(st); err != nil {
		return current, err
	}
	return StatusAlways, nil
}

func (s *Simulator) Current(_ context.Context) (geo.Coordinate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	if !parseStatus(st.Authorization).Authorized() {
		return geo.Coordinate{}, ErrNotAuthorized
	}
	if !st.HasFix {
		return geo.Coordinate{}, ErrNoFix
	}
	return geo.Coordinate{Latitude: st.Latitude, Longitude: st.Longitude}, nil
}

// SetFix plants a position, marking the device as having a fix.
func (s *Simulator) SetFix(c geo.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.Latitude = c.Latitude
	st.Longitude = c.Longitude
	st.HasFix = true
	return s.save(st)
}

func (s *Simulator) load() deviceState {
	st := deviceState{Authorization: StatusNotDetermined.String(), Grant: StatusWhenInUse.String()}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		s.log.Warn("device file unreadable, using defaults", zap.Error(err))
		return deviceState{Authorization: StatusNotDetermined.String(), Grant: StatusWhenInUse.String()}
	}
	return st
}

func (s *Simulator) save(st deviceState) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func parseStatus(v string) AuthStatus {
	switch v {
	case "authorizedWhenInUse":
		return StatusWhenInUse
	case "authorizedAlways":
		return StatusAlways
	case "denied":
		return StatusDenied
	case "restricted":
		return StatusRestricted
	default:
		return StatusNotDetermined
	}
}
