package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/app"
	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/alexanderramin/breakdesk/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	timerMinBarWidth = 20
	timerMaxBarWidth = 60
)

type timerTickMsg time.Time

type breakEndedMsg struct {
	view app.SessionView
	err  error
}

type timerKeys struct {
	End  key.Binding
	Quit key.Binding
}

func defaultTimerKeys() timerKeys {
	return timerKeys{
		End:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end break")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "leave running")),
	}
}

// breakTimerModel is a display-only countdown for one ongoing break. It
// never changes the session except through the explicit end key.
type breakTimerModel struct {
	ctx      context.Context
	app      *App
	detail   *domain.SessionDetail
	now      time.Time
	progress progress.Model
	keys     timerKeys

	ending bool
	ended  *app.SessionView
	err    error
}

func newBreakTimerModel(ctx context.Context, a *App, d *domain.SessionDetail) *breakTimerModel {
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = timerMaxBarWidth / 2
	return &breakTimerModel{
		ctx:      ctx,
		app:      a,
		detail:   d,
		now:      a.now(),
		progress: p,
		keys:     defaultTimerKeys(),
	}
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

func (m *breakTimerModel) Init() tea.Cmd {
	return timerTick()
}

func (m *breakTimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 12
		if w > timerMaxBarWidth {
			w = timerMaxBarWidth
		}
		if w < timerMinBarWidth {
			w = timerMinBarWidth
		}
		m.progress.Width = w
		return m, nil

	case timerTickMsg:
		m.now = m.app.now()
		return m, timerTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.End) && !m.ending:
			m.ending = true
			return m, m.endBreak()
		}
		return m, nil

	case breakEndedMsg:
		m.ending = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.ended = &msg.view
		}
		return m, tea.Quit

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *breakTimerModel) endBreak() tea.Cmd {
	agentID := m.detail.UserID
	return func() tea.Msg {
		d, err := m.app.Breaks.EndBreak(m.ctx, agentID)
		if err != nil {
			return breakEndedMsg{err: err}
		}
		return breakEndedMsg{view: app.NewSessionView(d, m.app.now())}
	}
}

// usage is the fraction of the allotment used, capped at 1 for the bar.
func (m *breakTimerModel) usage(v app.SessionView) float64 {
	if v.AllottedSec <= 0 {
		return 1
	}
	pct := float64(v.ElapsedSec) / float64(v.AllottedSec)
	if pct > 1 {
		return 1
	}
	return pct
}

func (m *breakTimerModel) View() string {
	v := app.NewSessionView(m.detail, m.now)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", formatter.Bold(v.AgentName+" · "+v.BreakTypeName), formatter.SessionStatusPill(v.Status))

	if over := v.OvertimeSec(); over > 0 {
		fmt.Fprintf(&b, "  %s  %s\n", formatter.StyleRed.Render("OVER "+formatter.FormatSeconds(over)),
			formatter.Dim("recorded when the break ends"))
	} else {
		fmt.Fprintf(&b, "  %s %s\n", formatter.StyleGreen.Render(formatter.FormatSeconds(v.RemainingSec)), formatter.Dim("remaining"))
	}
	fmt.Fprintf(&b, "  %s\n", m.progress.ViewAs(m.usage(v)))
	fmt.Fprintf(&b, "  %s %s / %s\n\n", formatter.Dim("elapsed"), formatter.FormatSeconds(v.ElapsedSec), formatter.FormatSeconds(v.AllottedSec))

	if m.ending {
		b.WriteString(formatter.Dim("  ending break…") + "\n")
	} else {
		fmt.Fprintf(&b, "  %s %s   %s %s\n",
			formatter.Bold(m.keys.End.Help().Key), formatter.Dim(m.keys.End.Help().Desc),
			formatter.Bold(m.keys.Quit.Help().Key), formatter.Dim(m.keys.Quit.Help().Desc))
	}
	return b.String()
}
