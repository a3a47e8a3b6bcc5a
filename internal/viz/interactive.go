package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// PresetInfo is one entry of the picker menu.
type PresetInfo struct {
	Name        string
	Description string
}

const (
	stateMenu = iota
	stateSim
)

// Picker lists presets and opens the live view on the chosen one. Inside
// the live view, m returns to the menu.
type Picker struct {
	state, cursor int
	presets       []PresetInfo
	builder       func(name string) Builder
	opts          Options
	live          Model
	err           error
	width, height int
}

func NewPicker(presets []PresetInfo, builder func(name string) Builder, opts Options) Picker {
	return Picker{presets: presets, builder: builder, opts: opts}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.state == stateSim {
			if msg.String() == "m" {
				p.state = stateMenu
				return p, nil
			}
			return p.forward(msg)
		}
		return p.menuKey(msg)
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		if p.state == stateSim {
			return p.forward(msg)
		}
	case TickMsg:
		// Ticks scheduled by a live view we already left are dropped.
		if p.state == stateSim {
			return p.forward(msg)
		}
	}
	return p, nil
}

func (p Picker) forward(msg tea.Msg) (Picker, tea.Cmd) {
	next, cmd := p.live.Update(msg)
	p.live = next.(Model)
	return p, cmd
}

func (p Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.presets) == 0 {
			return p, nil
		}
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (Picker, tea.Cmd) {
	chosen := p.presets[p.cursor]
	opts := p.opts
	opts.Title = chosen.Name

	live, err := NewModel(p.builder(chosen.Name), opts)
	if err != nil {
		p.err = err
		return p, nil
	}
	if p.width > 0 {
		live.resize(p.width, p.height)
	}
	p.live, p.err, p.state = live, nil, stateSim
	return p, live.Init()
}

func (p Picker) Selected() string {
	if len(p.presets) == 0 {
		return ""
	}
	return p.presets[p.cursor].Name
}

func (p Picker) InLiveView() bool { return p.state == stateSim }

func (p Picker) View() string {
	if p.state == stateSim {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Render("GRAVTRAIL") + "\n    " + dim.Render("n-body gravity with trails") + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	for i, preset := range p.presets {
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cyan.Render("▸"), white.Render(fmt.Sprintf("%-12s", preset.Name)), magenta.Render(preset.Description)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-12s", preset.Name)), dimmer.Render(preset.Description)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + red.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + cyan.Render("j/k") + dim.Render(" navigate  ") + cyan.Render("enter") + dim.Render(" select  ") + cyan.Render("m") + dim.Render(" menu  ") + cyan.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}
