package feature

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/hushapp/hush/internal/adapter/screentime"
)

const onboardingPages = 3

// Onboarding walks the user through the consent pages. It ends its own
// lifecycle only by emitting onboardingFinishedMsg, which the root consumes.
type Onboarding struct {
	ctx  context.Context
	deps Deps

	page         int
	isRequesting bool
	statusText   string
}

func NewOnboarding(ctx context.Context, deps Deps) *Onboarding {
	return &Onboarding{ctx: ctx, deps: deps}
}

func (o *Onboarding) isLastPage() bool { return o.page == onboardingPages-1 }

func (o *Onboarding) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return o.handleKey(m)

	case screenTimeAuthMsg:
		o.isRequesting = false
		if m.err != nil {
			o.statusText = "Something went wrong. Please try again."
			return nil
		}
		switch m.status {
		case screentime.StatusApproved:
			o.statusText = "Screen Time access granted."
			return o.finishCmd()
		case screentime.StatusDenied:
			o.statusText = "Screen Time was not allowed. You can change this later in system settings."
		case screentime.StatusNotDetermined:
			o.statusText = "Screen Time access is still undecided."
		default:
			o.statusText = "Screen Time is in an unknown state."
		}
		return nil
	}
	return nil
}

func (o *Onboarding) handleKey(m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "right", "l", "n":
		o.next()
	case "left", "h", "b":
		o.back()
	case "s":
		return o.skipCmd()
	case "enter", "a":
		if o.isLastPage() {
			return o.allowScreenTimeCmd()
		}
		o.next()
	case "q":
		return tea.Quit
	}
	return nil
}

func (o *Onboarding) next() {
	o.page = min(o.page+1, onboardingPages-1)
}

func (o *Onboarding) back() {
	o.page = max(o.page-1, 0)
}

// skipCmd marks onboarding done without any screen-time request.
func (o *Onboarding) skipCmd() tea.Cmd {
	return o.finishCmd()
}

func (o *Onboarding) finishCmd() tea.Cmd {
	return func() tea.Msg {
		if err := o.deps.Prefs.SetOnboardingDone(true); err != nil {
			o.deps.Log.Warn("persisting onboarding flag failed", zap.Error(err))
		}
		return onboardingFinishedMsg{}
	}
}

func (o *Onboarding) allowScreenTimeCmd() tea.Cmd {
	o.isRequesting = true
	o.statusText = ""
	return func() tea.Msg {
		status, err := o.deps.ScreenTime.RequestAuthorization(o.ctx)
		return screenTimeAuthMsg{status: status, err: err}
	}
}

var (
	onboardingTitleStyle = lipgloss.NewStyle().Bold(true)
	onboardingDimStyle   = lipgloss.NewStyle().Faint(true)
)

func (o *Onboarding) View() string {
	var title, body string
	switch o.page {
	case 0:
		title = "Block apps the moment you arrive"
		body = "Register the places where you study or work,\nand distracting apps are restricted automatically."
	case 1:
		title = "You choose what gets blocked"
		body = "Pick only what pulls you away:\nsocial feeds, games, whatever it is for you."
	default:
		title = "Screen Time permission needed"
		body = "Hush needs the Screen Time permission to restrict apps.\nNo usage history is stored or sent anywhere."
	}

	out := onboardingTitleStyle.Render(title) + "\n\n" + body + "\n\n"
	out += onboardingDimStyle.Render(fmt.Sprintf("page %d of %d", o.page+1, onboardingPages)) + "\n\n"

	if o.isLastPage() {
		if o.isRequesting {
			out += "requesting Screen Time access...\n"
		} else {
			out += "[enter] Allow Screen Time  [s] Later  [left] Back  [q] Quit"
		}
	} else {
		out += "[enter] Next  [left] Back  [s] Skip  [q] Quit"
	}

	if o.statusText != "" {
		out += "\n\n" + o.statusText
	}
	return out
}

// messages
type screenTimeAuthMsg struct {
	status screentime.Status
	err    error
}

// onboardingFinishedMsg is the delegate consumed by the root.
type onboardingFinishedMsg struct{}
