package feature

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/adapter/location"
	"github.com/hushapp/hush/internal/database/repository"
)

// CardList shows the stored focus areas and owns the add flow while it is
// presented. Opening the add flow is gated on location authorization.
type CardList struct {
	ctx  context.Context
	deps Deps

	destination *AddCard // nil unless the add flow is presented
	areas       []repository.FocusArea
	activeIDs   map[string]struct{}
	isLoading   bool
	authStatus  *location.AuthStatus

	// guards against a second add tap while an authorization check or
	// request is still in flight
	authCheckInFlight bool

	cursor    int
	searching bool
	search    string
	status    string

	renaming   bool
	renameID   string
	renameText string
}

func NewCardList(ctx context.Context, deps Deps) *CardList {
	return &CardList{ctx: ctx, deps: deps}
}

// task starts the initial load. Called once when the route is entered.
func (c *CardList) task() tea.Cmd {
	c.isLoading = true
	return c.fetchCmd()
}

func (c *CardList) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case fetchResponseMsg:
		c.isLoading = false
		if m.err != nil {
			c.status = "couldn't load focus areas"
			c.deps.Log.Error("focus area fetch failed", zap.Error(m.err))
			return nil
		}
		c.areas = m.areas
		if c.cursor >= len(c.areas) {
			c.cursor = 0
		}
		return c.checkActiveCmd()

	case activeAreasMsg:
		c.activeIDs = make(map[string]struct{}, len(m.ids))
		for _, id := range m.ids {
			c.activeIDs[id] = struct{}{}
		}
		return nil

	case authCheckedMsg:
		return c.handleAuthChecked(m.status)

	case authEscalatedMsg:
		st := m.status
		c.authStatus = &st
		return nil

	case authRequestFailedMsg:
		c.authCheckInFlight = false
		return nil

	case addCardSavedMsg:
		// close before the save effect starts so the add flow is gone
		// while persistence runs
		c.destination = nil
		return c.saveAndRefetchCmd(m)

	case addCardDismissedMsg:
		c.destination = nil
		return nil
	}

	if c.destination != nil {
		return c.destination.Update(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return c.handleKey(key)
	}
	return nil
}

func (c *CardList) handleKey(m tea.KeyMsg) tea.Cmd {
	if c.renaming {
		return c.handleRenameKey(m)
	}
	if c.searching {
		switch m.Type {
		case tea.KeyEsc:
			c.searching = false
			c.search = ""
		case tea.KeyEnter:
			c.searching = false
		case tea.KeyBackspace, tea.KeyCtrlH:
			if len(c.search) > 0 {
				c.search = c.search[:len(c.search)-1]
			}
		case tea.KeySpace:
			c.search += " "
		case tea.KeyRunes:
			c.search += string(m.Runes)
		}
		c.cursor = 0
		return nil
	}

	switch m.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "a":
		return c.addTapped()
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.filtered())-1 {
			c.cursor++
		}
	case "d", "backspace", "delete":
		return c.deleteTapped()
	case "e":
		c.renameTapped()
	case "r":
		return c.task()
	case "/":
		c.searching = true
		c.search = ""
	case "esc":
		c.search = ""
	}
	return nil
}

// renameTapped starts editing the title of the card under the cursor.
func (c *CardList) renameTapped() {
	list := c.filtered()
	if len(list) == 0 || c.cursor >= len(list) {
		return
	}
	c.renaming = true
	c.renameID = list[c.cursor].ID
	c.renameText = list[c.cursor].Title
}

func (c *CardList) handleRenameKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEsc:
		c.renaming = false
	case tea.KeyEnter:
		c.renaming = false
		if c.renameText == "" {
			return nil
		}
		id, title := c.renameID, c.renameText
		return func() tea.Msg {
			if err := c.deps.Areas.Rename(c.ctx, id, title); err != nil {
				return fetchResponseMsg{err: err}
			}
			areas, err := c.deps.Areas.List(c.ctx)
			return fetchResponseMsg{areas: areas, err: err}
		}
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(c.renameText) > 0 {
			c.renameText = c.renameText[:len(c.renameText)-1]
		}
	case tea.KeySpace:
		c.renameText += " "
	case tea.KeyRunes:
		c.renameText += string(m.Runes)
	}
	return nil
}

// addTapped checks location authorization before presenting the add flow.
// Re-entrant taps while a check or request is pending are rejected.
func (c *CardList) addTapped() tea.Cmd {
	if c.destination != nil || c.authCheckInFlight {
		return nil
	}
	c.authCheckInFlight = true
	return func() tea.Msg {
		return authCheckedMsg{status: c.deps.Location.Status()}
	}
}

func (c *CardList) handleAuthChecked(status location.AuthStatus) tea.Cmd {
	st := status
	c.authStatus = &st

	switch status {
	case location.StatusWhenInUse, location.StatusAlways:
		c.authCheckInFlight = false
		if c.destination != nil {
			return nil
		}
		c.destination = NewAddCard(c.ctx, c.deps)
		if status == location.StatusWhenInUse {
			return tea.Batch(c.destination.initCmd(), c.escalateCmd())
		}
		return c.destination.initCmd()

	case location.StatusNotDetermined:
		// ask, then feed the resolved status back through this same action
		return func() tea.Msg {
			resolved, err := c.deps.Location.RequestWhenInUse(c.ctx)
			if err != nil {
				c.deps.Log.Warn("location authorization request failed", zap.Error(err))
				return authRequestFailedMsg{}
			}
			return authCheckedMsg{status: resolved}
		}

	case location.StatusDenied, location.StatusRestricted:
		c.authCheckInFlight = false
		return func() tea.Msg {
			c.deps.Settings.OpenSettings()
			return nil
		}

	default:
		panic(fmt.Sprintf("unhandled location authorization status %d", status))
	}
}

// escalateCmd asks for always access in the background. Region monitoring
// wants it; the add flow does not wait for it, and the result only records
// the new status.
func (c *CardList) escalateCmd() tea.Cmd {
	return func() tea.Msg {
		resolved, err := c.deps.Location.RequestAlways(c.ctx)
		if err != nil {
			c.deps.Log.Debug("always authorization request failed", zap.Error(err))
			return nil
		}
		return authEscalatedMsg{status: resolved}
	}
}

func (c *CardList) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		areas, err := c.deps.Areas.List(c.ctx)
		return fetchResponseMsg{areas: areas, err: err}
	}
}

// saveAndRefetchCmd persists the delegate payload and re-fetches in one
// sequenced effect; the list re-renders only from the store's truth.
func (c *CardList) saveAndRefetchCmd(m addCardSavedMsg) tea.Cmd {
	return func() tea.Msg {
		if _, err := c.deps.Areas.Save(c.ctx, m.title, m.coordinate.Latitude, m.coordinate.Longitude, m.address); err != nil {
			return fetchResponseMsg{err: err}
		}
		areas, err := c.deps.Areas.List(c.ctx)
		return fetchResponseMsg{areas: areas, err: err}
	}
}

func (c *CardList) deleteTapped() tea.Cmd {
	list := c.filtered()
	if len(list) == 0 || c.cursor >= len(list) {
		return nil
	}
	id := list[c.cursor].ID
	return func() tea.Msg {
		if err := c.deps.Areas.Delete(c.ctx, id); err != nil {
			return fetchResponseMsg{err: err}
		}
		areas, err := c.deps.Areas.List(c.ctx)
		return fetchResponseMsg{areas: areas, err: err}
	}
}

func (c *CardList) checkActiveCmd() tea.Cmd {
	areas := c.areas
	return func() tea.Msg {
		ids, err := c.deps.Monitor.ActiveAreas(c.ctx, areas)
		if err != nil {
			return activeAreasMsg{}
		}
		return activeAreasMsg{ids: ids}
	}
}

// filtered applies the search query: substring matches first, then titles
// within a small edit distance to forgive typos.
func (c *CardList) filtered() []repository.FocusArea {
	q := strings.ToLower(strings.TrimSpace(c.search))
	if q == "" {
		return c.areas
	}
	type scored struct {
		area repository.FocusArea
		dist int
	}
	var hits []scored
	for _, a := range c.areas {
		title := strings.ToLower(a.Title)
		if strings.Contains(title, q) || strings.Contains(strings.ToLower(a.Address), q) {
			hits = append(hits, scored{area: a})
			continue
		}
		if d := levenshtein.ComputeDistance(title, q); d <= 3 {
			hits = append(hits, scored{area: a, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	out := make([]repository.FocusArea, len(hits))
	for i, h := range hits {
		out[i] = h.area
	}
	return out
}

var (
	listTitleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	listActiveStyle = lipgloss.NewStyle().Bold(true)
	listDimStyle    = lipgloss.NewStyle().Faint(true)
)

func (c *CardList) View() string {
	if c.destination != nil {
		return c.destination.View()
	}

	out := listTitleStyle.Render("Focus Areas") + "\n"
	if c.isLoading {
		out += "loading...\n"
	}

	list := c.filtered()
	if len(list) == 0 && !c.isLoading {
		if c.search != "" {
			out += "no matches\n"
		} else {
			out += "Add your first focus area\n"
		}
	}
	for i, area := range list {
		marker := " "
		if i == c.cursor {
			marker = "▶"
		}
		name := area.Title
		if _, ok := c.activeIDs[area.ID]; ok {
			name = listActiveStyle.Render("● " + name + " (here now)")
		}
		out += fmt.Sprintf("%s %s\n   %s\n", marker, name,
			listDimStyle.Render(area.Address+"  "+area.CreatedAt.Format(c.deps.DateFormat)))
	}

	if c.renaming {
		out += "\nrename: " + c.renameText + "▌"
	} else if c.searching {
		out += "\nsearch: " + c.search + "▌"
	} else if c.search != "" {
		out += "\nfilter: " + c.search + "  [esc] Clear"
	}

	out += "\n[a] Add  [e] Rename  [d] Delete  [/] Search  [r] Refresh  [q] Quit"
	if c.status != "" {
		out += "\n" + c.status
	}
	return out
}

// messages
type fetchResponseMsg struct {
	areas []repository.FocusArea
	err   error
}

type authCheckedMsg struct {
	status location.AuthStatus
}

type authRequestFailedMsg struct{}

type authEscalatedMsg struct {
	status location.AuthStatus
}

type activeAreasMsg struct {
	ids []string
}
