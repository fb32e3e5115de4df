package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/field"
)

func particles(vs ...r2.Vec) []field.Particle {
	ps := make([]field.Particle, len(vs))
	for i, v := range vs {
		ps[i] = field.Particle{Pos: r2.Vec{X: float64(i) * 10, Y: 0}, Vel: v, Radius: 2}
	}
	return ps
}

func TestSpeedMetrics(t *testing.T) {
	ps := particles(r2.Vec{X: 3, Y: 4}, r2.Vec{X: 0, Y: 1})

	mean := NewMeanSpeed()
	mean.Observe(ps)
	if math.Abs(mean.Value()-3) > 1e-12 {
		t.Errorf("expected mean speed 3, got %f", mean.Value())
	}

	top := NewMaxSpeed()
	top.Observe(ps)
	top.Observe(particles(r2.Vec{X: 1}))
	if top.Value() != 5 {
		t.Errorf("expected max speed 5, got %f", top.Value())
	}
	if top.Last() != 1 {
		t.Errorf("expected last max 1, got %f", top.Last())
	}
	top.Reset()
	if top.Value() != 0 {
		t.Error("reset should clear max")
	}
}

func TestKineticEnergy(t *testing.T) {
	e := NewKineticEnergy()
	if e.Value() != 0 {
		t.Error("expected zero before observation")
	}
	// 0.5 * r^2 * |v|^2 = 0.5 * 4 * 25 = 50
	e.Observe(particles(r2.Vec{X: 3, Y: 4}))
	e.Observe(particles(r2.Vec{}))
	if e.Last() != 0 {
		t.Errorf("expected last 0, got %f", e.Last())
	}
	if math.Abs(e.Value()-25) > 1e-12 {
		t.Errorf("expected mean energy 25, got %f", e.Value())
	}
}

func TestLinkCount(t *testing.T) {
	ps := []field.Particle{
		{Pos: r2.Vec{X: 0, Y: 0}},
		{Pos: r2.Vec{X: 100, Y: 0}},
		{Pos: r2.Vec{X: 230, Y: 0}},
	}
	l := NewLinkCount(120)
	l.Observe(ps)
	if l.Last() != 1 {
		t.Errorf("expected 1 link, got %d", l.Last())
	}
}

func TestOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		pos  r2.Vec
		want int
	}{
		{"inside", r2.Vec{X: 5, Y: 5}, 0},
		{"on edge", r2.Vec{X: 10, Y: 10}, 0},
		{"left", r2.Vec{X: -0.1, Y: 5}, 1},
		{"below", r2.Vec{X: 5, Y: 10.5}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOutOfBounds(10, 10)
			o.Observe([]field.Particle{{Pos: tt.pos}, {Pos: r2.Vec{X: 1, Y: 1}}})
			if o.Last() != tt.want {
				t.Errorf("expected %d outside, got %d", tt.want, o.Last())
			}
			if want := float64(tt.want) / 2; o.Value() != want {
				t.Errorf("expected fraction %f, got %f", want, o.Value())
			}
		})
	}
}

func TestRecorderHistory(t *testing.T) {
	r := NewRecorder(2, 3, NewMeanSpeed(), NewLinkCount(120))
	ps := particles(r2.Vec{X: 1}, r2.Vec{X: 1})

	for tick := uint64(1); tick <= 10; tick++ {
		r.OnTick(tick, ps)
	}

	h := r.History()
	if len(h) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(h))
	}
	if h[0].Tick != 6 || h[2].Tick != 10 {
		t.Errorf("expected ticks 6..10, got %d..%d", h[0].Tick, h[2].Tick)
	}
	if got := r.Series("links"); len(got) != 3 || got[0] != 1 {
		t.Errorf("unexpected link series %v", got)
	}
	if v := r.Values()["mean_speed"]; v != 1 {
		t.Errorf("expected mean speed 1, got %f", v)
	}

	r.Reset()
	if len(r.History()) != 0 || r.Values()["mean_speed"] != 0 {
		t.Error("reset should clear metrics and history")
	}
}

func TestRecorderAsObserver(t *testing.T) {
	var _ field.Observer = (*Recorder)(nil)

	r := NewRecorder(1, 0, NewOutOfBounds(10, 10))
	r.SetBounds(100, 100)
	r.OnTick(1, []field.Particle{{Pos: r2.Vec{X: 50, Y: 50}}})
	if r.Last()["out_of_bounds"] != 0 {
		t.Error("expected resized bounds to contain the particle")
	}
}
