package viz

import (
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

const (
	defaultWidth     = 60
	defaultHeight    = 30
	historyCapacity  = 600
	maxTicksPerFrame = 64
	legendLimit      = 8
)

type TickMsg time.Time

// Builder creates the scene shown by the live view. It is called again on
// reset.
type Builder func() (*sim.Simulator, error)

type Options struct {
	Title         string
	FPS           int
	Theme         string
	TicksPerFrame int
	// Width and Height are the canvas size in terminal cells.
	Width, Height int
	GIFPath       string
	Logger        *log.Logger
}

// Model is the live terminal view. Every frame draws the current state
// and then advances the simulation.
type Model struct {
	build         Builder
	sim           *sim.Simulator
	opts          Options
	canvas        *Canvas
	theme         Theme
	styles        styles
	running       bool
	showHelp      bool
	ticksPerFrame int
	energyHistory []float64
	clamps        int
	degenerate    int
	shown         snapshot
	recording     bool
	frames        []*image.Paletted
	status        string
	logger        *log.Logger
	lastFrame     time.Time
	fps           float64
}

func NewModel(build Builder, opts Options) (Model, error) {
	s, err := build()
	if err != nil {
		return Model{}, err
	}

	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.TicksPerFrame <= 0 {
		opts.TicksPerFrame = 1
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Title == "" {
		opts.Title = "gravtrail"
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "gravtrail.gif"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		build:         build,
		sim:           s,
		opts:          opts,
		canvas:        NewCanvas(opts.Width, opts.Height),
		theme:         theme,
		styles:        newStyles(theme),
		running:       true,
		ticksPerFrame: opts.TicksPerFrame,
		energyHistory: make([]float64, 0, historyCapacity),
		logger:        logger,
	}
	m.redraw()
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.logger.Debug("key", "key", msg.String())
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.frame()
			}
		case "r":
			m.reset()
		case "+", "=":
			if m.ticksPerFrame < maxTicksPerFrame {
				m.ticksPerFrame *= 2
			}
		case "-", "_":
			if m.ticksPerFrame > 1 {
				m.ticksPerFrame /= 2
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.frame()
		} else {
			m.redraw()
		}
		return m, m.tick()
	}
	return m, nil
}

// snapshot is the panel readout of the state on the canvas.
type snapshot struct {
	tick       int
	energy     float64
	clamps     int
	degenerate int
}

// frame draws the state left by the previous tick, then advances
// ticksPerFrame ticks. The panel and energy chart follow the drawn state.
func (m *Model) frame() {
	m.accumulate(m.sim.Frame(m.draw))
	for i := 1; i < m.ticksPerFrame; i++ {
		m.accumulate(m.sim.Step())
	}

	m.energyHistory = append(m.energyHistory, m.shown.energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	if m.recording {
		m.captureFrame()
	}

	now := time.Now()
	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
			m.fps = 1 / dt
		}
	}
	m.lastFrame = now
	m.logger.Debug("frame", "tick", m.sim.Tick(), "fps", fmt.Sprintf("%.1f", m.fps))
}

func (m *Model) accumulate(stats physics.StepStats) {
	m.clamps += stats.Clamped
	m.degenerate += stats.Degenerate
}

func (m *Model) draw(r *physics.Registry, tick int) {
	m.canvas.Clear()
	m.canvas.DrawRegistry(r)
	m.shown = snapshot{
		tick:       tick,
		energy:     physics.KineticEnergy(r),
		clamps:     m.clamps,
		degenerate: m.degenerate,
	}
}

func (m *Model) redraw() {
	m.draw(m.sim.Registry(), m.sim.Tick())
}

// reset rebuilds the scene from scratch.
func (m *Model) reset() {
	s, err := m.build()
	if err != nil {
		m.status = "reset failed: " + err.Error()
		m.logger.Error("reset failed", "err", err)
		return
	}
	m.sim = s
	m.energyHistory = m.energyHistory[:0]
	m.clamps, m.degenerate = 0, 0
	m.status = ""
	m.redraw()
}

// resize fits a square-looking canvas into the terminal next to the panel.
// A braille cell is two dots wide and four tall, and terminal cells are
// about twice as tall as wide, so a square needs twice as many columns as
// rows.
func (m *Model) resize(w, h int) {
	rows := h - 4
	if byWidth := (w - 48) / 2; byWidth < rows {
		rows = byWidth
	}
	if rows < 8 {
		rows = 8
	}
	m.canvas = NewCanvas(rows*2, rows)
	m.redraw()
}

func (m Model) Tick() int                 { return m.sim.Tick() }
func (m Model) Running() bool             { return m.running }
func (m Model) TicksPerFrame() int        { return m.ticksPerFrame }
func (m Model) Theme() Theme              { return m.theme }
func (m Model) Canvas() *Canvas           { return m.canvas }
func (m Model) Simulator() *sim.Simulator { return m.sim }

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	reg := m.sim.Registry()

	var s strings.Builder
	s.WriteString(st.header.Render(GradientText(strings.ToUpper(m.opts.Title), m.theme.Primary, m.theme.Secondary)) + "\n")

	switch {
	case m.status != "":
		s.WriteString(st.paused.Render(strings.ToUpper(m.status)))
	case m.running:
		s.WriteString(st.status.Render("RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.shown.tick))
	row("Bodies", fmt.Sprintf("%d (%d movable)", reg.Len(), physics.Movable(reg)))
	row("Speed", fmt.Sprintf("%dx", m.ticksPerFrame))
	row("Energy", fmt.Sprintf("%.3g", m.shown.energy))
	row("Clamps", fmt.Sprintf("%d", m.shown.clamps))
	row("Coincident", fmt.Sprintf("%d", m.shown.degenerate))
	row("FPS", fmt.Sprintf("%.0f", m.fps))

	s.WriteString("\n")
	for i, b := range reg.Bodies() {
		if i == legendLimit {
			s.WriteString(st.label.Render(fmt.Sprintf("  +%d more", reg.Len()-legendLimit)) + "\n")
			break
		}
		s.WriteString(Swatch(b.Color) + " " + st.body.Render(b.Name) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause N:Step R:Reset Q:Quit\nT:Theme G:Record +/-:Speed ?:Help"))

	canvasView := st.canvas.Render(RenderCanvas(m.canvas, m.theme))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single frame when paused ║
║  R        - Reset scene              ║
║  + / -    - Double/halve ticks/frame ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q / Esc  - Quit                     ║
╚══════════════════════════════════════╝`
