package viz

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

var planetStart = dynamo.Vec2{X: -0.8, Y: 0.8}

func testBuilder() (*sim.Simulator, error) {
	reg, err := physics.NewRegistry([]physics.BodySpec{
		{Name: "sun", Mass: 10, Fixed: true, Color: color.RGBA{R: 128, G: 128, B: 128, A: 255}},
		{Name: "planet", Pos: planetStart, Vel: dynamo.Vec2{X: 0.5}, Mass: 1, Color: color.RGBA{R: 255, A: 255}},
	}, 10)
	if err != nil {
		return nil, err
	}
	integ, err := physics.NewIntegrator(physics.DefaultConstants())
	if err != nil {
		return nil, err
	}
	return sim.New(reg, integ), nil
}

func key(s string) tea.Msg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(testBuilder, Options{Width: 20, Height: 10})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestModelDrawsBeforeStepping(t *testing.T) {
	m := newTestModel(t)
	m, cmd := send(t, m, TickMsg(time.Now()))

	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.Tick() != 1 {
		t.Fatalf("Tick() = %d, want 1", m.Tick())
	}

	c := m.Canvas()
	x, y := c.Project(planetStart)
	if !c.IsSet(x, y) {
		t.Error("frame should show the planet where it started")
	}
	moved := m.Simulator().Registry().Body(1).Pos
	if mx, my := c.Project(moved); c.IsSet(mx, my) {
		t.Errorf("frame already shows the post-step position %v", moved)
	}
}

func TestModelPauseAndStep(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}

	m, _ = send(t, m, TickMsg(time.Now()), TickMsg(time.Now()))
	if m.Tick() != 0 {
		t.Errorf("paused model advanced to tick %d", m.Tick())
	}

	m, _ = send(t, m, key("n"))
	if m.Tick() != 1 {
		t.Errorf("n should advance one frame, tick = %d", m.Tick())
	}

	m, _ = send(t, m, key(" "), TickMsg(time.Now()))
	if !m.Running() || m.Tick() != 2 {
		t.Errorf("resume: running=%v tick=%d", m.Running(), m.Tick())
	}
}

func TestModelSpeed(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, key("+"), key("+"))
	if m.TicksPerFrame() != 4 {
		t.Fatalf("TicksPerFrame = %d, want 4", m.TicksPerFrame())
	}
	m, _ = send(t, m, TickMsg(time.Now()))
	if m.Tick() != 4 {
		t.Errorf("Tick() = %d, want 4", m.Tick())
	}

	m, _ = send(t, m, key("-"), key("-"), key("-"))
	if m.TicksPerFrame() != 1 {
		t.Errorf("TicksPerFrame = %d, want 1", m.TicksPerFrame())
	}

	for i := 0; i < 10; i++ {
		m, _ = send(t, m, key("+"))
	}
	if m.TicksPerFrame() != maxTicksPerFrame {
		t.Errorf("TicksPerFrame = %d, want cap %d", m.TicksPerFrame(), maxTicksPerFrame)
	}
}

func TestModelPanelMatchesCanvasAtSpeed(t *testing.T) {
	ref, err := testBuilder()
	if err != nil {
		t.Fatal(err)
	}
	startEnergy := physics.KineticEnergy(ref.Registry())
	for i := 0; i < 4; i++ {
		ref.Step()
	}
	drawnPos := ref.Registry().Body(1).Pos
	drawnEnergy := physics.KineticEnergy(ref.Registry())

	m := newTestModel(t)
	m, _ = send(t, m, key("+"), key("+"), TickMsg(time.Now()))
	if m.Tick() != 4 {
		t.Fatalf("Tick() = %d, want 4", m.Tick())
	}
	if m.shown.tick != 0 || m.shown.energy != startEnergy {
		t.Errorf("panel shows tick %d energy %v, want the drawn tick 0 energy %v", m.shown.tick, m.shown.energy, startEnergy)
	}

	m, _ = send(t, m, TickMsg(time.Now()))
	if m.shown.tick != 4 || m.shown.energy != drawnEnergy {
		t.Errorf("panel shows tick %d energy %v, want tick 4 energy %v", m.shown.tick, m.shown.energy, drawnEnergy)
	}
	if x, y := m.Canvas().Project(drawnPos); !m.Canvas().IsSet(x, y) {
		t.Errorf("canvas does not show the planet at its tick 4 position %v", drawnPos)
	}
	if got := m.energyHistory[len(m.energyHistory)-1]; got != drawnEnergy {
		t.Errorf("energy chart ends at %v, want %v", got, drawnEnergy)
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, TickMsg(time.Now()), TickMsg(time.Now()), TickMsg(time.Now()))

	m, _ = send(t, m, key("r"))
	if m.Tick() != 0 {
		t.Errorf("reset left tick at %d", m.Tick())
	}
	if got := m.Simulator().Registry().Body(1).Pos; got != planetStart {
		t.Errorf("reset left planet at %v", got)
	}
}

func TestModelThemeAndHelp(t *testing.T) {
	m := newTestModel(t)
	first := m.Theme().Name

	m, _ = send(t, m, key("t"))
	if m.Theme().Name == first {
		t.Error("t should change the theme")
	}

	m, _ = send(t, m, key("?"))
	if view := m.View(); len(view) == 0 {
		t.Error("empty view")
	}
}

func TestModelQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		_, cmd := send(t, newTestModel(t), key(k))
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestModelBuildError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewModel(func() (*sim.Simulator, error) { return nil, boom }, Options{})
	if !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if c := m.Canvas(); c.Height != 36 || c.Width != 72 {
		t.Errorf("canvas %dx%d, want 72x36", c.Width, c.Height)
	}
}

func TestModelRecordsGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	m, err := NewModel(testBuilder, Options{Width: 8, Height: 4, GIFPath: path})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = send(t, m, key("g"), TickMsg(time.Now()), TickMsg(time.Now()), key("g"))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("gif not written: %v", err)
	}
}

func TestPicker(t *testing.T) {
	presets := []PresetInfo{{Name: "one", Description: "first"}, {Name: "two", Description: "second"}}
	var built []string
	builder := func(name string) Builder {
		built = append(built, name)
		return testBuilder
	}

	var p tea.Model = NewPicker(presets, builder, Options{Width: 10, Height: 5})
	p, _ = p.Update(key("j"))
	if got := p.(Picker).Selected(); got != "two" {
		t.Fatalf("Selected() = %s, want two", got)
	}

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.(Picker).InLiveView() || cmd == nil {
		t.Fatal("enter should open the live view")
	}
	if len(built) != 1 || built[0] != "two" {
		t.Errorf("built %v", built)
	}

	p, _ = p.Update(key("m"))
	if p.(Picker).InLiveView() {
		t.Error("m should return to the menu")
	}
}
