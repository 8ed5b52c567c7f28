package feature

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/hushapp/hush/internal/adapter/location"
	"github.com/hushapp/hush/internal/database/repository"
	"github.com/hushapp/hush/internal/geo"
)

func newTestCardList(t *testing.T) (*CardList, *fakeLocation, *fakeStore, *fakeOpener) {
	t.Helper()
	deps, _, l, _, _, st, o := testDeps()
	return NewCardList(context.Background(), deps), l, st, o
}

// tapAdd presses "a" and resolves the resulting authorization check chain.
func tapAdd(t *testing.T, c *CardList) {
	t.Helper()
	cmd := c.Update(keyRune('a'))
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		cmd = c.Update(msg)
	}
}

func TestTaskLoadsAreas(t *testing.T) {
	t.Parallel()

	c, _, st, _ := newTestCardList(t)
	st.areas = []repository.FocusArea{{ID: "a1", Title: "Library"}, {ID: "a2", Title: "Gym"}}

	cmd := c.task()
	require.True(t, c.isLoading)

	c.Update(cmd())
	require.False(t, c.isLoading)
	require.Len(t, c.areas, 2)
}

func TestFetchFailureBecomesStatusText(t *testing.T) {
	t.Parallel()

	c, _, st, _ := newTestCardList(t)
	st.listErr = errors.New("disk gone")

	cmd := c.task()
	c.Update(cmd())
	require.False(t, c.isLoading)
	require.Empty(t, c.areas)
	require.NotEmpty(t, c.status)
}

func TestAddOpensDestinationWhenAuthorized(t *testing.T) {
	t.Parallel()

	c, l, _, _ := newTestCardList(t)
	l.status = location.StatusWhenInUse

	cmd := c.Update(keyRune('a'))
	require.NotNil(t, cmd)

	open := c.Update(cmd())
	require.NotNil(t, c.destination)
	require.False(t, c.authCheckInFlight)
	// the destination's entry effect starts immediately
	require.NotNil(t, open)
}

func TestNotDeterminedResolvesAndOpensOnce(t *testing.T) {
	t.Parallel()

	c, l, _, _ := newTestCardList(t)
	l.status = location.StatusNotDetermined
	l.requestResult = location.StatusWhenInUse

	cmd := c.Update(keyRune('a'))
	check := cmd() // status check -> notDetermined
	require.Equal(t, location.StatusNotDetermined, check.(authCheckedMsg).status)

	request := c.Update(check)
	require.NotNil(t, request)
	require.Nil(t, c.destination)

	resolved := request() // permission request resolves
	c.Update(resolved)
	require.NotNil(t, c.destination)
	require.Equal(t, 1, l.requests)

	// the resolved status arriving again must not open a second destination
	first := c.destination
	c.Update(authCheckedMsg{status: location.StatusWhenInUse})
	require.Same(t, first, c.destination)
}

func TestEscalationRecordsStatusWithoutOpening(t *testing.T) {
	t.Parallel()

	c, l, _, _ := newTestCardList(t)
	l.status = location.StatusWhenInUse

	msg := c.escalateCmd()()
	require.Equal(t, authEscalatedMsg{status: location.StatusAlways}, msg)

	// a late escalation result never opens the add flow by itself
	require.Nil(t, c.Update(msg))
	require.Equal(t, location.StatusAlways, *c.authStatus)
	require.Nil(t, c.destination)
}

func TestDeniedOpensSettings(t *testing.T) {
	t.Parallel()

	c, l, _, o := newTestCardList(t)
	l.status = location.StatusDenied

	tapAdd(t, c)
	require.Nil(t, c.destination)
	require.Equal(t, 1, o.opened)
	require.Equal(t, location.StatusDenied, *c.authStatus)
}

func TestDoubleTapIsRejectedWhileCheckInFlight(t *testing.T) {
	t.Parallel()

	c, l, _, _ := newTestCardList(t)
	l.status = location.StatusNotDetermined

	first := c.Update(keyRune('a'))
	require.NotNil(t, first)
	// the check has not resolved yet; a second tap is a no-op
	require.Nil(t, c.Update(keyRune('a')))
}

func TestUnknownAuthStatusPanics(t *testing.T) {
	t.Parallel()

	c, _, _, _ := newTestCardList(t)
	require.Panics(t, func() {
		c.Update(authCheckedMsg{status: location.AuthStatus(99)})
	})
}

func TestSaveDelegateClosesThenRefetches(t *testing.T) {
	t.Parallel()

	c, l, st, _ := newTestCardList(t)
	l.status = location.StatusAlways
	st.areas = []repository.FocusArea{{ID: "a1", Title: "Library"}}

	c.Update(c.task()())
	require.Len(t, c.areas, 1)

	cmd := c.Update(keyRune('a'))
	c.Update(cmd())
	require.NotNil(t, c.destination)

	save := c.Update(addCardSavedMsg{
		title:      "Office",
		coordinate: geo.Coordinate{Latitude: 35.68, Longitude: 139.76},
		address:    "Chiyoda",
	})
	// destination closes synchronously, before the save effect runs
	require.Nil(t, c.destination)
	require.NotNil(t, save)

	c.Update(save())
	require.Len(t, c.areas, 2)
	require.Equal(t, "Office", c.areas[0].Title)
	require.Equal(t, 1, st.saves)
}

func TestDismissDelegateClosesWithoutSaving(t *testing.T) {
	t.Parallel()

	c, _, st, _ := newTestCardList(t)
	tapAdd(t, c)
	require.NotNil(t, c.destination)

	require.Nil(t, c.Update(addCardDismissedMsg{}))
	require.Nil(t, c.destination)
	require.Zero(t, st.saves)
}

func TestDeleteRefetches(t *testing.T) {
	t.Parallel()

	c, _, st, _ := newTestCardList(t)
	st.areas = []repository.FocusArea{{ID: "a1", Title: "Library"}, {ID: "a2", Title: "Gym"}}
	c.Update(c.task()())

	cmd := c.Update(keyRune('d'))
	require.NotNil(t, cmd)
	c.Update(cmd())

	require.Equal(t, []string{"a1"}, st.deletes)
	require.Len(t, c.areas, 1)
	require.Equal(t, "Gym", c.areas[0].Title)
}

func TestRenameCommitsAndRefetches(t *testing.T) {
	t.Parallel()

	c, _, st, _ := newTestCardList(t)
	st.areas = []repository.FocusArea{{ID: "a1", Title: "Cafe"}}
	c.Update(c.task()())

	c.Update(keyRune('e'))
	require.True(t, c.renaming)
	require.Equal(t, "Cafe", c.renameText)

	// clear the prefilled title and type a new one
	for range "Cafe" {
		c.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	for _, r := range "Study Cafe" {
		if r == ' ' {
			c.Update(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		c.Update(keyRune(r))
	}
	cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, c.renaming)
	require.NotNil(t, cmd)

	c.Update(cmd())
	require.Equal(t, "Study Cafe", c.areas[0].Title)
}

func TestRenameEscCancels(t *testing.T) {
	t.Parallel()

	c, _, st, _ := newTestCardList(t)
	st.areas = []repository.FocusArea{{ID: "a1", Title: "Cafe"}}
	c.Update(c.task()())

	c.Update(keyRune('e'))
	c.Update(keyRune('X'))
	require.Nil(t, c.Update(tea.KeyMsg{Type: tea.KeyEsc}))
	require.False(t, c.renaming)
	require.Equal(t, "Cafe", c.areas[0].Title)
}

func TestSearchFiltersWithTypoTolerance(t *testing.T) {
	t.Parallel()

	c, _, st, _ := newTestCardList(t)
	st.areas = []repository.FocusArea{
		{ID: "a1", Title: "Library", Address: "Tokyo"},
		{ID: "a2", Title: "Gym", Address: "Shibuya"},
	}
	c.Update(c.task()())

	c.search = "libary" // typo, edit distance 1
	got := c.filtered()
	require.Len(t, got, 1)
	require.Equal(t, "Library", got[0].Title)

	c.search = "shibuya" // address substring
	got = c.filtered()
	require.Len(t, got, 1)
	require.Equal(t, "Gym", got[0].Title)

	c.search = ""
	require.Len(t, c.filtered(), 2)
}
