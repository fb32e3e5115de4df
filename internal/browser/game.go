// Package browser hosts the field in an ebitengine window. The same code
// runs in a desktop window or, built with GOOS=js GOARCH=wasm, in a page
// canvas.
package browser

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/san-kum/pfield/internal/clock"
	"github.com/san-kum/pfield/internal/config"
	"github.com/san-kum/pfield/internal/pointer"
	"github.com/san-kum/pfield/internal/scene"
	"github.com/san-kum/pfield/internal/surface"
)

var (
	background = color.RGBA{10, 10, 10, 255}
	hudColor   = color.RGBA{200, 200, 210, 200}
)

// Game adapts a scene to ebiten's Update/Draw/Layout loop. Update advances
// the field one tick; Draw replays the last rendered frame.
type Game struct {
	log     *zap.Logger
	clock   *clock.Driven
	tracker *pointer.Tracker
	rec     *surface.Recorder
	host    *scene.Host

	w, h    int
	started bool
	paused  bool
	hud     bool
}

func NewGame(cfg *config.Config, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		log:     log,
		clock:   clock.NewDriven(),
		tracker: pointer.NewTracker(),
		rec:     surface.NewRecorder(),
		hud:     true,
	}
	g.host = scene.NewHost(cfg, g.rec, g.clock, g.tracker, log)
	return g
}

func (g *Game) Update() error {
	if !g.started {
		return nil
	}

	x, y := ebiten.CursorPosition()
	if x >= 0 && y >= 0 && x < g.w && y < g.h {
		g.tracker.Move(float64(x), float64(y))
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.host.Scene().Click(float64(x), float64(y))
		}
	} else {
		g.tracker.Leave()
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		g.host.Scene().Stop()
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.hud = !g.hud
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.host.Restart(g.w, g.h); err != nil {
			return fmt.Errorf("browser: restart: %w", err)
		}
	}

	if !g.paused {
		g.clock.Advance()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	frame := g.rec.LastFrame()
	if len(frame) == 0 {
		screen.Fill(background)
	} else if err := surface.Replay(&canvas{img: screen, bg: background}, frame); err != nil {
		g.log.Warn("replay failed", zap.Error(err))
	}
	if g.hud && g.started {
		last := g.host.Scene().Metrics.Last()
		face := basicfont.Face7x13
		text.Draw(screen, fmt.Sprintf("TPS %.0f  ticks %d  links %.0f  mean speed %.2f",
			ebiten.ActualTPS(), g.host.Scene().Sim.Ticks(), last["links"], last["mean_speed"]), face, 10, 20, hudColor)
		text.Draw(screen, "space pause  r restart  h hud  q quit", face, 10, 40, hudColor)
	}
}

// Layout keeps one logical pixel per screen pixel and treats any change of
// outside size as a surface resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		var err error
		if g.started {
			err = g.host.Scene().Resize(g.w, g.h)
		} else if err = g.host.Scene().Start(g.w, g.h); err == nil {
			g.started = true
		}
		if err != nil {
			g.log.Warn("layout failed", zap.Int("width", g.w), zap.Int("height", g.h), zap.Error(err))
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, log *zap.Logger) error {
	ebiten.SetWindowSize(cfg.Field.Width, cfg.Field.Height)
	ebiten.SetWindowTitle("pfield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Host.FPS)

	g := NewGame(cfg, log)
	defer g.host.Stop()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
