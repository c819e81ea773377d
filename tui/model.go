package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pattern/debug"
	"go-pattern/midi"
	"go-pattern/pattern"
	"go-pattern/theme"
)

// maxRulerWidth caps the tick ruler; longer patterns are drawn scaled.
const maxRulerWidth = 96

// Model shows a pattern rotated by an offset and lets the user step a
// player through it.
type Model struct {
	Theme *theme.Theme

	name   string
	steps  pattern.StepBuffer
	length uint16
	offset int32
	stable bool

	view   pattern.AbsBuffer // adjusted and sorted
	player pattern.Player
	fired  pattern.AbsBuffer

	err      error
	quitting bool
}

// NewModel prepares a view of steps shifted by offset.
func NewModel(name string, steps []pattern.Step, offset int32, stable bool, th *theme.Theme) (Model, error) {
	if th == nil {
		th = theme.New(nil)
	}
	m := Model{
		Theme:  th,
		name:   name,
		offset: offset,
		stable: stable,
	}
	if err := m.steps.Set(steps); err != nil {
		return m, err
	}
	if err := m.recompute(); err != nil {
		return m, err
	}
	return m, nil
}

// Offset is the current rotation, for saving on exit.
func (m Model) Offset() int32 { return m.offset }

// Stable reports whether the stable sort is selected.
func (m Model) Stable() bool { return m.stable }

// Events returns the shifted, sorted events on screen.
func (m Model) Events() []pattern.AbsEvent { return m.view.Events() }

func (m *Model) recompute() error {
	length, err := pattern.Adjust(m.steps.Steps(), m.offset, &m.view)
	if err != nil {
		return err
	}
	m.length = length
	if m.stable {
		err = m.view.SortStable()
	} else {
		err = m.view.Sort()
	}
	if err != nil {
		return err
	}
	m.fired.Reset()
	return m.player.Load(m.view.Events(), length)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) rotate(by int32) Model {
	m.offset += by
	// Keep the stored offset in one cycle so it never creeps toward overflow.
	wrapped, err := pattern.TimeOffset(0, m.offset, m.length)
	if err == nil {
		m.offset = int32(wrapped)
	}
	m.err = m.recompute()
	debug.Log("tui", "offset %d", m.offset)
	return m
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "left", "h":
		m = m.rotate(-1)
	case "right", "l":
		m = m.rotate(1)
	case "H":
		m = m.rotate(-int32(max(1, m.length/4)))
	case "L":
		m = m.rotate(int32(max(1, m.length/4)))
	case "0":
		m.offset = 0
		m.err = m.recompute()

	case "s":
		m.stable = !m.stable
		m.err = m.recompute()

	case " ", "space", "n":
		m.err = m.player.Tick(&m.fired)
		debug.LogEvery(16, "tui", "tick %d", m.player.Ticks())
	case "r":
		m.player.Reset()
		m.fired.Reset()
	}
	return m, nil
}

// ruler draws one cell per tick, scaled down for long patterns.
func (m Model) ruler() string {
	width := int(m.length)
	if width > maxRulerWidth {
		width = maxRulerWidth
	}
	counts := make([]int, width)
	for _, ev := range m.view.Events() {
		counts[int(ev.Time)*width/int(m.length)]++
	}

	// Player phase has already moved past the tick just fired.
	head := -1
	if m.player.Ticks() > 0 {
		cur := (int(m.player.Phase()) + int(m.length) - 1) % int(m.length)
		head = cur * width / int(m.length)
	}

	sym := m.Theme.Symbols
	evStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	headStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning()).Bold(true)

	var b strings.Builder
	for i, c := range counts {
		switch {
		case i == head && c > 0:
			b.WriteString(headStyle.Render(string(sym.Hit)))
		case i == head:
			b.WriteString(headStyle.Render(string(sym.Playhead)))
		case c > 1:
			b.WriteString(evStyle.Render(string(sym.Stacked)))
		case c == 1:
			b.WriteString(evStyle.Render(string(sym.Event)))
		default:
			b.WriteString(dimStyle.Render(string(sym.Empty)))
		}
	}
	return b.String()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	eventStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	firedStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	sortName := "heap"
	if m.stable {
		sortName = "stable"
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("go-pattern  %s  L=%d  offset:%+d  sort:%s  tick:%d",
		m.name, m.length, m.offset, sortName, m.player.Ticks())))
	out.WriteString("\n\n")
	out.WriteString(m.ruler())
	out.WriteString("\n\n")

	fired := make(map[pattern.AbsEvent]bool, m.fired.Len())
	for _, ev := range m.fired.Events() {
		fired[ev] = true
	}
	for i, ev := range m.view.Events() {
		line := fmt.Sprintf("%2d  t=%-5d %s", i, ev.Time, midi.Describe(ev.Event))
		if fired[ev] {
			line = firedStyle.Render(line)
		} else {
			line = eventStyle.Render(line)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}

	if m.err != nil {
		out.WriteString("\n")
		out.WriteString(errStyle.Render(m.err.Error()))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("h/l:shift  H/L:quarter  0:reset  s:sort  space:tick  r:rewind  q:quit"))
	return out.String()
}
