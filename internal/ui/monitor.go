package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chewxy/math32"
)

// StateMsg carries the action state of one tick into the monitor
type StateMsg struct {
	Tick    uint64
	Actions map[string]*float32
}

// ReloadMsg reports a binding table swap
type ReloadMsg struct {
	Bindings    int
	Fingerprint uint64
}

// ErrorMsg reports a non-fatal runtime error, such as a driver going away
type ErrorMsg struct {
	Err error
}

const barWidth = 20

// MonitorModel is a live view of every action's state
type MonitorModel struct {
	actions []string
	state   map[string]*float32
	tick    uint64
	reload  *ReloadMsg
	err     error
	quit    bool
}

// NewMonitorModel creates a monitor listing actions in the given order
func NewMonitorModel(actions []string) MonitorModel {
	return MonitorModel{actions: actions}
}

func (m MonitorModel) Init() tea.Cmd {
	return nil
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quit = true
			return m, tea.Quit
		}
	case StateMsg:
		m.tick = msg.Tick
		m.state = msg.Actions
	case ReloadMsg:
		m.reload = &msg
	case ErrorMsg:
		m.err = msg.Err
	}
	return m, nil
}

func (m MonitorModel) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(Title("camel-input"))
	b.WriteString(Muted(fmt.Sprintf("  tick %d", m.tick)))
	b.WriteString("\n\n")

	width := 0
	for _, a := range m.actions {
		width = max(width, len(a))
	}

	for _, a := range m.actions {
		b.WriteString("  ")
		b.WriteString(formatAction(a, width, m.state))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.reload != nil {
		b.WriteString(Success(fmt.Sprintf("bindings reloaded: %d binding(s), fingerprint %016x", m.reload.Bindings, m.reload.Fingerprint)))
		b.WriteByte('\n')
	}
	if m.err != nil {
		b.WriteString(Error(m.err.Error()))
		b.WriteByte('\n')
	}
	b.WriteString(Muted("q to quit"))
	b.WriteByte('\n')
	return b.String()
}

func formatAction(name string, width int, state map[string]*float32) string {
	label := name + strings.Repeat(" ", width-len(name))
	v, active := state[name]
	if !active {
		return inactiveStyle.Render(label + "  -")
	}
	if v == nil {
		return activeStyle.Render(label + "  on")
	}
	return activeStyle.Render(label) + "  " + Bar(*v) + fmt.Sprintf(" %+.2f", *v)
}

// Bar renders a signed magnitude as a bar centered on zero. Values beyond
// one saturate.
func Bar(v float32) string {
	half := barWidth / 2
	n := int(math32.Min(1, math32.Abs(v))*float32(half) + 0.5)

	left := strings.Repeat(" ", half)
	right := strings.Repeat(" ", half)
	if v < 0 {
		left = strings.Repeat(" ", half-n) + strings.Repeat("█", n)
	} else {
		right = strings.Repeat("█", n) + strings.Repeat(" ", half-n)
	}
	return "[" + barStyle.Render(left+"|"+right) + "]"
}
