package feature

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const splashDelay = 500 * time.Millisecond

// route is the root routing variant. Exactly one is active; routing only
// moves forward (splash is never re-entered).
type route int

const (
	routeSplash route = iota
	routeOnboarding
	routeCardList
)

// App is the root model. It owns the child state for whichever route is
// active and interprets the onboarding delegate.
type App struct {
	ctx  context.Context
	deps Deps

	route      route
	onboarding *Onboarding
	cardList   *CardList
}

func NewApp(ctx context.Context, deps Deps) *App {
	return &App{ctx: ctx, deps: deps, route: routeSplash}
}

// onboardingState returns the child state iff the onboarding route is active.
func (a *App) onboardingState() *Onboarding {
	if a.route == routeOnboarding {
		return a.onboarding
	}
	return nil
}

// cardListState returns the child state iff the card list route is active.
func (a *App) cardListState() *CardList {
	if a.route == routeCardList {
		return a.cardList
	}
	return nil
}

func (a *App) Init() tea.Cmd {
	return tea.Tick(splashDelay, func(time.Time) tea.Msg { return splashDoneMsg{} })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case splashDoneMsg:
		if a.route != routeSplash {
			return a, nil
		}
		return a, a.decideInitialRouteCmd()

	case initialRouteMsg:
		// only honored while still on splash; routing never goes backwards
		if a.route != routeSplash {
			return a, nil
		}
		if m.onboardingDone {
			return a, a.showCardList()
		}
		return a, a.showOnboarding()

	case onboardingFinishedMsg:
		if a.onboardingState() == nil {
			return a, nil
		}
		return a, a.showCardList()
	}

	switch {
	case a.onboardingState() != nil:
		return a, a.onboarding.Update(msg)
	case a.cardListState() != nil:
		return a, a.cardList.Update(msg)
	}
	return a, nil
}

// decideInitialRouteCmd reads the onboarding flag. A read failure routes to
// onboarding: showing it twice is harmless, skipping it is not.
func (a *App) decideInitialRouteCmd() tea.Cmd {
	return func() tea.Msg {
		done, err := a.deps.Prefs.IsOnboardingDone()
		if err != nil {
			a.deps.Log.Warn("onboarding flag unreadable, assuming not done", zap.Error(err))
			return initialRouteMsg{onboardingDone: false}
		}
		return initialRouteMsg{onboardingDone: done}
	}
}

func (a *App) showOnboarding() tea.Cmd {
	a.route = routeOnboarding
	a.onboarding = NewOnboarding(a.ctx, a.deps)
	a.cardList = nil
	return nil
}

func (a *App) showCardList() tea.Cmd {
	a.route = routeCardList
	a.cardList = NewCardList(a.ctx, a.deps)
	a.onboarding = nil
	return a.cardList.task()
}

var splashStyle = lipgloss.NewStyle().Bold(true).Padding(2, 4)

func (a *App) View() string {
	switch {
	case a.onboardingState() != nil:
		return a.onboarding.View()
	case a.cardListState() != nil:
		return a.cardList.View()
	default:
		return splashStyle.Render("hush\n\nstay where your focus is")
	}
}

// messages
type splashDoneMsg struct{}

type initialRouteMsg struct {
	onboardingDone bool
}
