package gui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

const (
	WindowSize   = 700
	WindowTitle  = "gravtrail"
	TargetFPS    = 60
	trailAlpha   = 128
	telemetryCap = 200
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// App is the desktop window. Each frame renders the current state and
// then advances the simulation one tick.
type App struct {
	Sim       *sim.Simulator
	Build     func() (*sim.Simulator, error)
	Running   bool
	ShowHUD   bool
	Telemetry []float64
	Logger    *log.Logger

	frames  int
	started time.Time
	lastLog time.Time
	logged  int
}

func NewApp(build func() (*sim.Simulator, error), logger *log.Logger) (*App, error) {
	s, err := build()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		Sim:       s,
		Build:     build,
		Running:   true,
		ShowHUD:   true,
		Telemetry: make([]float64, 0, telemetryCap),
		Logger:    logger,
	}, nil
}

// initWindow opens the square window and disables raylib's exit key so
// ESC is handled like any other key.
func initWindow() {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(WindowSize, WindowSize, WindowTitle)
	rl.SetTargetFPS(TargetFPS)
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(build func() (*sim.Simulator, error), logger *log.Logger) error {
	app, err := NewApp(build, logger)
	if err != nil {
		return err
	}

	initWindow()
	defer rl.CloseWindow()
	app.Logger.Info("window open", "size", WindowSize, "bodies", app.Sim.Registry().Len())

	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	a.started = time.Now()
	a.lastLog = a.started
	for !rl.WindowShouldClose() {
		if !a.Update() {
			break
		}
		a.Draw()
	}
	a.Logger.Info("window closed", "frames", a.frames, "ticks", a.Sim.Tick())
}

// Update handles input. It returns false when the window should close.
func (a *App) Update() bool {
	for k := rl.GetKeyPressed(); k != 0; k = rl.GetKeyPressed() {
		a.Logger.Debug("key pressed", "key", k)
		switch k {
		case rl.KeyEscape, rl.KeyQ:
			return false
		case rl.KeySpace:
			a.Running = !a.Running
		case rl.KeyN:
			if !a.Running {
				a.Sim.Step()
			}
		case rl.KeyR:
			a.reset()
		case rl.KeyH:
			a.ShowHUD = !a.ShowHUD
		}
	}
	return true
}

func (a *App) reset() {
	s, err := a.Build()
	if err != nil {
		a.Logger.Error("reset failed", "err", err)
		return
	}
	a.Sim = s
	a.Telemetry = a.Telemetry[:0]
	a.Logger.Info("reset")
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.Running {
		stats := a.Sim.Frame(drawRegistry)
		if stats.Degenerate > 0 {
			a.Logger.Debug("coincident bodies", "tick", a.Sim.Tick(), "pairs", stats.Degenerate)
		}
		a.record()
	} else {
		drawRegistry(a.Sim.Registry(), a.Sim.Tick())
	}

	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()

	a.frames++
	a.logFrame()
}

func (a *App) record() {
	a.Telemetry = append(a.Telemetry, physics.KineticEnergy(a.Sim.Registry()))
	if len(a.Telemetry) > telemetryCap {
		a.Telemetry = a.Telemetry[1:]
	}
}

// logFrame reports frame count, elapsed seconds and average fps: every
// frame at debug level, once a second at info.
func (a *App) logFrame() {
	now := time.Now()
	seconds := now.Sub(a.started).Seconds()
	fps := 0.0
	if seconds > 0 {
		fps = float64(a.frames) / seconds
	}

	a.Logger.Debug("frame", "frame", a.frames, "seconds", fmt.Sprintf("%.2f", seconds), "fps", fmt.Sprintf("%.2f", fps))
	if now.Sub(a.lastLog) >= time.Second {
		a.Logger.Info("frame", "frame", a.frames, "seconds", fmt.Sprintf("%.2f", seconds), "fps", fmt.Sprintf("%.2f", fps),
			"last_second", a.frames-a.logged)
		a.lastLog = now
		a.logged = a.frames
	}
}

func (a *App) DrawHUD() {
	drawText(WindowTitle, 12, 10, 20, ColSelect)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	drawText(status, WindowSize-90, 12, 14, col)

	drawText(fmt.Sprintf("tick %d", a.Sim.Tick()), 12, 34, 14, ColText)
	drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 12, WindowSize-24, 14, ColTextDim)
	drawText("[SPACE] PAUSE  [N] STEP  [R] RESET  [H] HUD  [ESC] QUIT", 200, WindowSize-24, 12, ColTextDim)

	a.DrawTelemetry()
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 12, WindowSize-100
	width, height := 200, 50

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("KE: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func drawText(text string, x, y int, size int32, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), size, color)
}
