package feature

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/adapter/location"
	"github.com/hushapp/hush/internal/adapter/screentime"
	"github.com/hushapp/hush/internal/database/repository"
	"github.com/hushapp/hush/internal/geo"
)

type fakePrefs struct {
	done    bool
	readErr error
	sets    []bool
}

func (f *fakePrefs) IsOnboardingDone() (bool, error) { return f.done, f.readErr }
func (f *fakePrefs) SetOnboardingDone(done bool) error {
	f.done = done
	f.sets = append(f.sets, done)
	return nil
}

type fakeLocation struct {
	status        location.AuthStatus
	requestResult location.AuthStatus
	requestErr    error
	requests      int
	fix           geo.Coordinate
	fixErr        error
}

func (f *fakeLocation) Status() location.AuthStatus { return f.status }
func (f *fakeLocation) RequestWhenInUse(context.Context) (location.AuthStatus, error) {
	f.requests++
	if f.requestErr != nil {
		return f.status, f.requestErr
	}
	f.status = f.requestResult
	return f.requestResult, nil
}
func (f *fakeLocation) RequestAlways(context.Context) (location.AuthStatus, error) {
	if f.status == location.StatusWhenInUse {
		f.status = location.StatusAlways
	}
	return f.status, nil
}
func (f *fakeLocation) Current(context.Context) (geo.Coordinate, error) {
	return f.fix, f.fixErr
}

type fakeGeocoder struct {
	address string
	err     error
	calls   []geo.Coordinate
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, c geo.Coordinate) (string, error) {
	f.calls = append(f.calls, c)
	return f.address, f.err
}

type fakeScreenTime struct {
	status   screentime.Status
	err      error
	requests int
}

func (f *fakeScreenTime) RequestAuthorization(context.Context) (screentime.Status, error) {
	f.requests++
	return f.status, f.err
}
func (f *fakeScreenTime) CurrentStatus(context.Context) (screentime.Status, error) {
	return f.status, f.err
}

type fakeStore struct {
	areas   []repository.FocusArea
	listErr error
	saveErr error
	saves   int
	deletes []string
}

func (f *fakeStore) List(context.Context) ([]repository.FocusArea, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]repository.FocusArea, len(f.areas))
	copy(out, f.areas)
	return out, nil
}

func (f *fakeStore) Save(_ context.Context, title string, lat, lon float64, address string) (repository.FocusArea, error) {
	if f.saveErr != nil {
		return repository.FocusArea{}, f.saveErr
	}
	f.saves++
	a := repository.FocusArea{
		ID:        fmt.Sprintf("area-%d", f.saves),
		Title:     title,
		Latitude:  lat,
		Longitude: lon,
		Address:   address,
	}
	// newest first, matching the repository sort order
	f.areas = append([]repository.FocusArea{a}, f.areas...)
	return a, nil
}

func (f *fakeStore) Rename(_ context.Context, id, title string) error {
	for i := range f.areas {
		if f.areas[i].ID == id {
			f.areas[i].Title = title
		}
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	out := f.areas[:0]
	for _, a := range f.areas {
		if a.ID != id {
			out = append(out, a)
		}
	}
	f.areas = out
	return nil
}

type fakeOpener struct {
	opened int
}

func (f *fakeOpener) OpenSettings() bool {
	f.opened++
	return true
}

type fakeMonitor struct {
	ids []string
}

func (f *fakeMonitor) ActiveAreas(context.Context, []repository.FocusArea) ([]string, error) {
	return f.ids, nil
}

func testDeps() (Deps, *fakePrefs, *fakeLocation, *fakeGeocoder, *fakeScreenTime, *fakeStore, *fakeOpener) {
	p := &fakePrefs{}
	l := &fakeLocation{status: location.StatusWhenInUse, requestResult: location.StatusWhenInUse}
	g := &fakeGeocoder{address: "Japan Tokyo Shinjuku"}
	s := &fakeScreenTime{status: screentime.StatusApproved}
	st := &fakeStore{}
	o := &fakeOpener{}
	deps := Deps{
		Prefs:      p,
		Location:   l,
		Geocoder:   g,
		ScreenTime: s,
		Areas:      st,
		Settings:   o,
		Monitor:    &fakeMonitor{},
		Log:        zap.NewNop(),
		DateFormat: "02 Jan 2006",
		MapStep:    0.0005,
	}
	return deps, p, l, g, s, st, o
}

func keyRune(r rune) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }
