// Package feature implements the state machines behind each screen. Every
// model follows the same discipline: Update mutates state synchronously, all
// I/O runs inside commands whose results come back as messages, and children
// signal parents only through delegate messages.
package feature

import (
	"context"

	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/adapter/geocode"
	"github.com/hushapp/hush/internal/adapter/location"
	"github.com/hushapp/hush/internal/adapter/prefs"
	"github.com/hushapp/hush/internal/adapter/screentime"
	"github.com/hushapp/hush/internal/adapter/sysopen"
	"github.com/hushapp/hush/internal/database/repository"
)

// RecordStore is the persistence capability for focus areas.
// *repository.FocusAreaRepo is the live implementation.
type RecordStore interface {
	List(ctx context.Context) ([]repository.FocusArea, error)
	Save(ctx context.Context, title string, lat, lon float64, address string) (repository.FocusArea, error)
	Rename(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
}

// ActiveAreaChecker reports which stored areas contain the current location.
// *service.Monitor is the live implementation.
type ActiveAreaChecker interface {
	ActiveAreas(ctx context.Context, areas []repository.FocusArea) ([]string, error)
}

// Deps bundles the capability interfaces injected into every state machine.
type Deps struct {
	Prefs      prefs.Store
	Location   location.Authority
	Geocoder   geocode.Geocoder
	ScreenTime screentime.Authority
	Areas      RecordStore
	Settings   sysopen.Opener
	Monitor    ActiveAreaChecker
	Log        *zap.Logger

	DateFormat string
	MapStep    float64
}
