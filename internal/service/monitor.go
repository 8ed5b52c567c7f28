// Package service holds logic that spans adapters and the persistence layer.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/adapter/location"
	"github.com/hushapp/hush/internal/database/repository"
	"github.com/hushapp/hush/internal/geo"
)

// Monitor decides which focus areas currently contain the device. The actual
// enforcement (blocking apps) lives outside this program; the monitor only
// answers the inside-region question.
type Monitor struct {
	Location location.Authority
	Radius   float64 // meters
	Log      *zap.Logger
}

// ActiveAreas returns ids of areas whose geofence contains the current
// location. Without authorization or a fix it reports nothing; that is a
// normal state, not an error.
func (m *Monitor) ActiveAreas(ctx context.Context, areas []repository.FocusArea) ([]string, error) {
	if len(areas) == 0 {
		return nil, nil
	}
	if !m.Location.Status().Authorized() {
		return nil, nil
	}
	cur, err := m.Location.Current(ctx)
	if err != nil {
		m.Log.Debug("active area check skipped", zap.Error(err))
		return nil, nil
	}

	var ids []string
	for _, a := range areas {
		region := geo.Region{
			Center:     geo.Coordinate{Latitude: a.Latitude, Longitude: a.Longitude},
			Radius:     m.Radius,
			Identifier: a.ID,
		}
		if region.Contains(cur) {
			ids = append(ids, a.ID)
		}
	}
	return ids, nil
}
