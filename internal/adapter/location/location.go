// Package location exposes the device location capability: authorization
// status, permission requests and current-position fixes.
package location

import (
	"context"
	"errors"

	"github.com/hushapp/hush/internal/geo"
)

// AuthStatus mirrors the platform location authorization states.
type AuthStatus int

const (
	StatusNotDetermined AuthStatus = iota
	StatusWhenInUse
	StatusAlways
	StatusDenied
	StatusRestricted
)

func (s AuthStatus) String() string {
	switch s {
	case StatusNotDetermined:
		return "notDetermined"
	case StatusWhenInUse:
		return "authorizedWhenInUse"
	case StatusAlways:
		return "authorizedAlways"
	case StatusDenied:
		return "denied"
	case StatusRestricted:
		return "restricted"
	default:
		return "invalid"
	}
}

// Authorized reports whether location reads are permitted at all.
func (s AuthStatus) Authorized() bool {
	return s == StatusWhenInUse || s == StatusAlways
}

var (
	// ErrNotAuthorized indicates a location read without permission.
	ErrNotAuthorized = errors.New("location access not authorized")

	// ErrNoFix indicates the device has no current position.
	ErrNoFix = errors.New("no location fix available")
)

// Authority is the location capability consumed by the reducer core.
type Authority interface {
	Status() AuthStatus
	RequestWhenInUse(ctx context.Context) (AuthStatus, error)
	RequestAlways(ctx context.Context) (AuthStatus, error)
	Current(ctx context.Context) (geo.Coordinate, error)
}
