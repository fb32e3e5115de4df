package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/pfield/internal/clock"
	"github.com/san-kum/pfield/internal/config"
	"github.com/san-kum/pfield/internal/pointer"
	"github.com/san-kum/pfield/internal/scene"
	"github.com/san-kum/pfield/internal/surface"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// App runs the field in a resizable raylib window. The simulator renders
// into a recorder on its own cadence; every window frame replays the last
// recorded frame so skipped render ticks still show a picture.
type App struct {
	log     *zap.Logger
	clock   *clock.Driven
	tracker *pointer.Tracker
	rec     *surface.Recorder
	screen  *screen
	host    *scene.Host

	Paused  bool
	ShowHUD bool
	quit    bool
}

func NewApp(cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		log:     log,
		clock:   clock.NewDriven(),
		tracker: pointer.NewTracker(),
		rec:     surface.NewRecorder(),
		screen:  &screen{bg: ColBg},
		ShowHUD: true,
	}
	a.host = scene.NewHost(cfg, a.rec, a.clock, a.tracker, log)
	return a
}

// initWindow opens a resizable window at the configured size and pins the
// frame rate, since the field advances one tick per frame.
func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Field.Width), int32(cfg.Field.Height), "pfield")
	rl.SetTargetFPS(int32(cfg.Host.FPS))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, log *zap.Logger) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	app := NewApp(cfg, log)
	if err := app.host.Scene().Start(rl.GetScreenWidth(), rl.GetScreenHeight()); err != nil {
		return fmt.Errorf("gui: %w", err)
	}
	defer app.host.Stop()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		if err := a.host.Scene().Resize(w, h); err != nil {
			a.log.Warn("resize failed", zap.Int("width", w), zap.Int("height", h), zap.Error(err))
		}
	}

	if rl.IsCursorOnScreen() {
		pos := rl.GetMousePosition()
		a.tracker.Move(float64(pos.X), float64(pos.Y))
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			a.host.Scene().Click(float64(pos.X), float64(pos.Y))
		}
	} else {
		a.tracker.Leave()
	}

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Paused = !a.Paused
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyR):
		a.restart()
	}

	if !a.Paused {
		a.clock.Advance()
	}
}

func (a *App) restart() {
	if err := a.host.Restart(rl.GetScreenWidth(), rl.GetScreenHeight()); err != nil {
		a.log.Error("restart failed", zap.Error(err))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	frame := a.rec.LastFrame()
	if len(frame) == 0 {
		rl.ClearBackground(ColBg)
	} else if err := surface.Replay(a.screen, frame); err != nil {
		a.log.Warn("replay failed", zap.Error(err))
	}

	if !a.ShowHUD {
		return
	}
	sim := a.host.Scene().Sim
	last := a.host.Scene().Metrics.Last()
	lines := []string{
		fmt.Sprintf("ticks  %d", sim.Ticks()),
		fmt.Sprintf("links  %.0f", last["links"]),
		fmt.Sprintf("speed  %.3f", last["mean_speed"]),
	}
	for i, line := range lines {
		rl.DrawText(line, 12, int32(12+i*18), 16, ColText)
	}
	status := "space pause  r restart  h hud  q quit"
	if a.Paused {
		status = "PAUSED  " + status
	}
	rl.DrawText(status, 12, int32(rl.GetScreenHeight()-24), 14, ColTextDim)
	rl.DrawFPS(int32(rl.GetScreenWidth()-90), 12)
}
