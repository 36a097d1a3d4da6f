package widget

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastTTL is how long a notification stays on screen.
const ToastTTL = 4 * time.Second

var (
	cText    = lipgloss.Color("#1E3A8A")
	cMuted   = lipgloss.Color("#6B7280")
	cAccent  = lipgloss.Color("#2563EB")
	cSuccess = lipgloss.Color("#16A34A")
	cError   = lipgloss.Color("#DC2626")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cAccent).
			Padding(1, 2).
			Width(52)
	titleStyle    = lipgloss.NewStyle().Foreground(cText).Bold(true).Width(46).Align(lipgloss.Center)
	counterStyle  = lipgloss.NewStyle().Foreground(cMuted).Width(46).Align(lipgloss.Right)
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(cAccent).Width(46).Align(lipgloss.Center)
	disabledStyle = buttonStyle.Background(cMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(cError).Border(lipgloss.NormalBorder()).BorderForeground(cError).Width(44)
	successStyle  = errorStyle.Foreground(cSuccess).BorderForeground(cSuccess)
	footerStyle   = lipgloss.NewStyle().Foreground(cMuted).Width(46).Align(lipgloss.Center)
	helpStyle     = lipgloss.NewStyle().Foreground(cMuted)
)

// Toasts collects notifications for display until they expire.
type Toasts struct {
	items []Notification
}

func (t *Toasts) Notify(n Notification) {
	t.items = append(t.items, n)
}

// Active drops expired toasts and returns the rest.
func (t *Toasts) Active(now time.Time) []Notification {
	kept := t.items[:0]
	for _, n := range t.items {
		if now.Sub(n.At) < ToastTTL {
			kept = append(kept, n)
		}
	}
	t.items = kept
	return t.items
}

type tickMsg time.Time

type claimDoneMsg struct {
	err error
}

// Model renders a Widget as a bubbletea program. The widget is only
// touched from Update; the claim request runs as a command.
type Model struct {
	ctx    context.Context
	widget *Widget
	toasts *Toasts
	input  textinput.Model
	spin   spinner.Model
	now    func() time.Time
}

// NewModel builds the program model and computes the initial countdown.
func NewModel(ctx context.Context, w *Widget, toasts *Toasts) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter your wallet address"
	ti.Prompt = "› "
	ti.Width = 44
	ti.SetValue(w.State().Address)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))

	w.Refresh()

	return Model{
		ctx:    ctx,
		widget: w,
		toasts: toasts,
		input:  ti,
		spin:   sp,
		now:    w.tracker.Now,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m, m.submit()
		}

	case tickMsg:
		m.widget.Refresh()
		m.toasts.Active(m.now())
		return m, tick()

	case claimDoneMsg:
		m.widget.Finish(msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.widget.SetAddress(m.input.Value())
	return m, cmd
}

// submit starts a claim when the control is enabled.
func (m Model) submit() tea.Cmd {
	if !m.widget.CanSubmit() {
		return nil
	}
	if err := m.widget.Begin(); err != nil {
		return nil
	}

	ctx, claimer, address := m.ctx, m.widget.Claimer(), m.widget.State().Address
	return func() tea.Msg {
		return claimDoneMsg{err: Perform(ctx, claimer, address)}
	}
}

func (m Model) View() string {
	s := m.widget.State()
	var b strings.Builder

	for _, n := range m.toasts.Active(m.now()) {
		style := successStyle
		if n.Level == LevelError {
			style = errorStyle
		}
		b.WriteString(style.Render(n.Title+"\n"+n.Detail) + "\n")
	}

	var card strings.Builder
	card.WriteString(titleStyle.Render("Claim "+Token+" Tokens") + "\n\n")
	card.WriteString(m.input.View() + "\n")
	card.WriteString(counterStyle.Render(s.Counter()) + "\n\n")

	label := s.SubmitLabel()
	if s.Loading {
		label = m.spin.View() + " " + label
	}
	if s.CanSubmit() {
		card.WriteString(buttonStyle.Render(label) + "\n")
	} else {
		card.WriteString(disabledStyle.Render(label) + "\n")
	}

	if s.Error != "" {
		card.WriteString("\n" + errorStyle.Render(s.Error) + "\n")
	}
	if s.Success {
		card.WriteString("\n" + successStyle.Render("Tokens have been sent to your wallet!") + "\n")
	}

	card.WriteString("\n" + footerStyle.Render("1,000 "+Token+" per claim • 24h cooldown"))

	b.WriteString(cardStyle.Render(card.String()) + "\n")
	b.WriteString(helpStyle.Render("enter: claim • esc: quit") + "\n")
	return b.String()
}

// Run shows the widget until the user quits or ctx is done.
func Run(ctx context.Context, w *Widget, toasts *Toasts, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewModel(ctx, w, toasts), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
