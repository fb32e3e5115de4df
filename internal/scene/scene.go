// Package scene assembles a particle field, its effect layers and metrics
// from a configuration, so every host wires them the same way.
package scene

import (
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pfield/internal/config"
	"github.com/san-kum/pfield/internal/effects"
	"github.com/san-kum/pfield/internal/field"
	"github.com/san-kum/pfield/internal/metrics"
)

const (
	historyEvery = 5
	historyLimit = 120
)

type Scene struct {
	Sim     *field.Simulator
	Metrics *metrics.Recorder

	// Effect layers; nil when disabled.
	Trail  *effects.Trail
	Burst  *effects.Burst
	Shapes *effects.Shapes

	count int
}

// New builds a scene. Nothing runs until Start.
func New(cfg *config.Config, s field.Surface, c field.Clock, p field.Pointer, log *zap.Logger) *Scene {
	fc := cfg.FieldConfig()
	if fc.Seed == 0 {
		fc.Seed = time.Now().UnixNano()
	}
	band := cfg.Band()

	sc := &Scene{
		Metrics: metrics.NewRecorder(historyEvery, historyLimit,
			metrics.Standard(fc, float64(cfg.Field.Width), float64(cfg.Field.Height))...),
		count: cfg.Field.Count,
	}
	opts := []field.Option{field.WithLogger(log), field.WithObserver(sc.Metrics)}

	fx := cfg.Effects
	if fx.Shapes.Enabled {
		sc.Shapes = effects.NewShapes(fx.Shapes.Count, band.Mid(), fc.Seed)
		opts = append(opts, field.WithLayer(sc.Shapes))
	}
	if fx.Trail.Enabled {
		sc.Trail = effects.NewTrail(fx.Trail.Length, band.Mid())
		opts = append(opts, field.WithLayer(sc.Trail))
	}
	if fx.Burst.Enabled {
		sc.Burst = effects.NewBurst(band, fc.Seed+1)
		if fx.Burst.Sparks > 0 {
			sc.Burst.Sparks = fx.Burst.Sparks
		}
		opts = append(opts, field.WithLayer(sc.Burst))
	}

	sc.Sim = field.New(s, c, p, fc, opts...)
	return sc
}

func (sc *Scene) Start(w, h int) error {
	if err := sc.Sim.Start(w, h, sc.count); err != nil {
		return err
	}
	sc.Metrics.SetBounds(float64(w), float64(h))
	return nil
}

func (sc *Scene) Resize(w, h int) error {
	if err := sc.Sim.OnResize(w, h); err != nil {
		return err
	}
	sc.Metrics.SetBounds(float64(w), float64(h))
	return nil
}

// Click fires a burst at (x, y) when bursts are enabled.
func (sc *Scene) Click(x, y float64) bool {
	if sc.Burst == nil {
		return false
	}
	sc.Burst.Trigger(x, y)
	return true
}

func (sc *Scene) Stop() { sc.Sim.Stop() }

// Host keeps the scene a window is currently showing. Restart swaps it in
// place, so Stop always reaches the live scene.
type Host struct {
	cfg *config.Config
	s   field.Surface
	c   field.Clock
	p   field.Pointer
	log *zap.Logger
	cur *Scene
}

func NewHost(cfg *config.Config, s field.Surface, c field.Clock, p field.Pointer, log *zap.Logger) *Host {
	h := &Host{cfg: cfg, s: s, c: c, p: p, log: log}
	h.cur = New(cfg, s, c, p, log)
	return h
}

func (h *Host) Scene() *Scene { return h.cur }

// Restart stops the current scene and starts a fresh one at w x h.
func (h *Host) Restart(w, height int) error {
	h.cur.Stop()
	h.cur = New(h.cfg, h.s, h.c, h.p, h.log)
	return h.cur.Start(w, height)
}

func (h *Host) Stop() { h.cur.Stop() }
