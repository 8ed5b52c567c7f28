package feature

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/activity"
	"github.com/hushapp/hush/internal/geo"
)

const addressUnavailable = "Address unavailable"

// AddCard captures a new focus area: a position picked on the map, its
// resolved address, a title and the activities to block. It never persists
// anything itself; a valid save only emits the delegate for the list.
type AddCard struct {
	ctx  context.Context
	deps Deps

	title  string
	typing bool

	selectedCoordinate *geo.Coordinate
	selectedAddress    *string
	isLoadingAddress   bool

	mapCenter    *geo.Coordinate
	cursor       geo.Coordinate
	isLoadingMap bool

	pickerOpen   bool
	pickerCursor int
	scratch      activity.Selection
	selection    activity.Selection
}

func NewAddCard(ctx context.Context, deps Deps) *AddCard {
	return &AddCard{
		ctx:          ctx,
		deps:         deps,
		isLoadingMap: true,
		selection:    activity.NewSelection(),
	}
}

// initCmd fetches the current location to center the map. Without at least
// when-in-use access the fetch fails immediately and the fallback applies.
func (a *AddCard) initCmd() tea.Cmd {
	return func() tea.Msg {
		if !a.deps.Location.Status().Authorized() {
			return currentLocationMsg{err: locationUnauthorizedErr{}}
		}
		coord, err := a.deps.Location.Current(a.ctx)
		if err != nil {
			return currentLocationMsg{err: err}
		}
		return currentLocationMsg{coord: coord}
	}
}

type locationUnauthorizedErr struct{}

func (locationUnauthorizedErr) Error() string { return "location not authorized" }

func (a *AddCard) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case currentLocationMsg:
		a.isLoadingMap = false
		if m.err != nil {
			// fall back silently; the default center is a feature, not an error
			def := geo.DefaultLocation
			a.mapCenter = &def
			a.cursor = def
			a.deps.Log.Debug("current location unavailable, using default", zap.Error(m.err))
			return nil
		}
		coord := m.coord
		a.mapCenter = &coord
		a.cursor = coord
		return nil

	case addressMsg:
		a.isLoadingAddress = false
		if m.err != nil {
			placeholder := addressUnavailable
			a.selectedAddress = &placeholder
			a.deps.Log.Error("reverse geocode failed", zap.Error(m.err))
			return nil
		}
		addr := m.address
		a.selectedAddress = &addr
		return nil

	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return nil
}

func (a *AddCard) handleKey(m tea.KeyMsg) tea.Cmd {
	if a.pickerOpen {
		a.handlePickerKey(m)
		return nil
	}
	if a.typing {
		a.handleTitleKey(m)
		return nil
	}

	switch m.String() {
	case "t":
		a.typing = true
	case "up":
		a.moveCursor(a.deps.MapStep, 0)
	case "down":
		a.moveCursor(-a.deps.MapStep, 0)
	case "left":
		a.moveCursor(0, -a.deps.MapStep)
	case "right":
		a.moveCursor(0, a.deps.MapStep)
	case "enter", "m":
		return a.mapTapped()
	case "p":
		a.pickerOpen = true
		a.pickerCursor = 0
		a.scratch = a.selection.Clone()
	case "s":
		return a.saveTapped()
	case "esc":
		return func() tea.Msg { return addCardDismissedMsg{} }
	}
	return nil
}

func (a *AddCard) handleTitleKey(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc, tea.KeyEnter:
		a.typing = false
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.title) > 0 {
			a.title = a.title[:len(a.title)-1]
		}
	case tea.KeySpace:
		a.title += " "
	case tea.KeyRunes:
		a.title += string(m.Runes)
	}
}

func (a *AddCard) handlePickerKey(m tea.KeyMsg) {
	catalog := activity.Catalog()
	switch m.String() {
	case "up", "k":
		if a.pickerCursor > 0 {
			a.pickerCursor--
		}
	case "down", "j":
		if a.pickerCursor < len(catalog)-1 {
			a.pickerCursor++
		}
	case " ":
		a.scratch.Toggle(catalog[a.pickerCursor])
	case "enter":
		// the picker result replaces both token sets wholesale
		a.selection = a.scratch
		a.pickerOpen = false
	case "esc":
		a.pickerOpen = false
	}
}

func (a *AddCard) moveCursor(dLat, dLon float64) {
	if a.mapCenter == nil {
		return
	}
	a.cursor.Latitude += dLat
	a.cursor.Longitude += dLon
}

// mapTapped records the cursor position and starts address resolution.
func (a *AddCard) mapTapped() tea.Cmd {
	if a.mapCenter == nil {
		return nil
	}
	sel := a.cursor
	a.selectedCoordinate = &sel
	a.isLoadingAddress = true
	a.selectedAddress = nil
	return func() tea.Msg {
		addr, err := a.deps.Geocoder.ReverseGeocode(a.ctx, sel)
		return addressMsg{address: addr, err: err}
	}
}

// saveTapped validates and, when complete, emits the save delegate. An
// incomplete form is a no-op: no state change, no message.
func (a *AddCard) saveTapped() tea.Cmd {
	if a.title == "" || a.selectedCoordinate == nil || a.selectedAddress == nil {
		return nil
	}
	payload := addCardSavedMsg{
		title:      a.title,
		coordinate: *a.selectedCoordinate,
		address:    *a.selectedAddress,
	}
	return func() tea.Msg { return payload }
}

var (
	addTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	addDimStyle   = lipgloss.NewStyle().Faint(true)
)

func (a *AddCard) View() string {
	if a.pickerOpen {
		return a.pickerView()
	}

	out := addTitleStyle.Render("New Focus Area") + "\n\n"

	titleLine := a.title
	if a.typing {
		titleLine += "▌"
	} else if titleLine == "" {
		titleLine = addDimStyle.Render("(press t to set a title)")
	}
	out += "Title:    " + titleLine + "\n"

	if a.isLoadingMap {
		out += "Map:      locating...\n"
	} else {
		out += fmt.Sprintf("Map:      center %.4f, %.4f   cursor %.4f, %.4f\n",
			a.mapCenter.Latitude, a.mapCenter.Longitude, a.cursor.Latitude, a.cursor.Longitude)
	}

	switch {
	case a.isLoadingAddress:
		out += "Address:  resolving...\n"
	case a.selectedCoordinate != nil && a.selectedAddress != nil:
		out += fmt.Sprintf("Address:  %s (%.4f, %.4f)\n",
			*a.selectedAddress, a.selectedCoordinate.Latitude, a.selectedCoordinate.Longitude)
	default:
		out += "Address:  " + addDimStyle.Render("(move with arrows, enter to drop a pin)") + "\n"
	}

	out += fmt.Sprintf("Blocked:  %d selected\n", a.selection.Count())
	out += "\n[t] Title  [arrows] Move  [enter] Drop pin  [p] Pick apps  [s] Save  [esc] Cancel"
	return out
}

func (a *AddCard) pickerView() string {
	out := addTitleStyle.Render("Block while inside") + "\n"
	for i, e := range activity.Catalog() {
		marker := " "
		if i == a.pickerCursor {
			marker = "▶"
		}
		check := "[ ]"
		if a.scratch.Contains(e) {
			check = "[x]"
		}
		label := e.Name
		if e.Category {
			label += addDimStyle.Render(" (category)")
		}
		out += fmt.Sprintf("%s %s %s\n", marker, check, label)
	}
	out += "\n[space] Toggle  [enter] Done  [esc] Cancel"
	return out
}

// messages
type currentLocationMsg struct {
	coord geo.Coordinate
	err   error
}

type addressMsg struct {
	address string
	err     error
}

// addCardSavedMsg is the save delegate consumed by the card list.
type addCardSavedMsg struct {
	title      string
	coordinate geo.Coordinate
	address    string
}

// addCardDismissedMsg closes the add flow without saving.
type addCardDismissedMsg struct{}
