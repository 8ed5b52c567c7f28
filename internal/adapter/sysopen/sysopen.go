// Package sysopen opens external locations on behalf of the reducer core.
package sysopen

import (
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// Opener is the system-settings capability. The card list uses it when
// location access is denied and the user must flip the switch themselves.
type Opener interface {
	OpenSettings() bool
}

// ExecOpener shells out to the platform opener, pointing at the directory
// holding the simulated device and consent files.
type ExecOpener struct {
	target string
	log    *zap.Logger
}

func New(target string, log *zap.Logger) *ExecOpener {
	return &ExecOpener{target: target, log: log}
}

func (o *ExecOpener) OpenSettings() bool {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	if err := exec.Command(name, o.target).Start(); err != nil {
		o.log.Warn("open settings failed", zap.String("target", o.target), zap.Error(err))
		return false
	}
	return true
}
