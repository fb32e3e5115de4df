package effects

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/field"
	"github.com/san-kum/pfield/internal/palette"
	"github.com/san-kum/pfield/internal/surface"
)

var (
	_ field.Layer   = (*Trail)(nil)
	_ field.Layer   = (*Burst)(nil)
	_ field.Layer   = (*Shapes)(nil)
	_ field.Resizer = (*Shapes)(nil)
)

func TestTrailFollowsAndFades(t *testing.T) {
	tr := NewTrail(4, colorful.Color{R: 1})

	for i := 0; i < 6; i++ {
		tr.Step(uint64(i), r2.Vec{X: float64(i), Y: 0}, true)
	}
	if tr.Len() != 4 {
		t.Fatalf("expected trail capped at 4, got %d", tr.Len())
	}

	rec := surface.NewRecorder()
	rec.Clear()
	tr.Draw(rec)
	frame := rec.LastFrame()
	if len(frame) != 5 {
		t.Fatalf("expected 4 circles after clear, got %d commands", len(frame))
	}
	if frame[len(frame)-1].X1 != 5 {
		t.Errorf("expected newest point last, got x=%.0f", frame[len(frame)-1].X1)
	}
	if frame[1].R >= frame[4].R {
		t.Error("older points should be smaller")
	}

	for i := 0; i < 50; i++ {
		tr.Step(0, r2.Vec{}, false)
	}
	if tr.Len() != 0 {
		t.Errorf("expected trail to fade out, %d points left", tr.Len())
	}
}

func TestTrailIgnoresStationaryPointer(t *testing.T) {
	tr := NewTrail(8, colorful.Color{G: 1})
	p := r2.Vec{X: 3, Y: 3}
	tr.Step(1, p, true)
	tr.Step(2, p, true)
	tr.Step(3, p, true)
	if tr.Len() != 1 {
		t.Errorf("expected one point for a stationary pointer, got %d", tr.Len())
	}
}

func TestBurstLifecycle(t *testing.T) {
	b := NewBurst(palette.Default, 3)
	b.Trigger(100, 100)
	if b.Live() != b.Sparks {
		t.Fatalf("expected %d sparks, got %d", b.Sparks, b.Live())
	}

	b.Step(1, r2.Vec{}, false)
	rec := surface.NewRecorder()
	rec.Clear()
	b.Draw(rec)
	for _, c := range rec.LastFrame()[1:] {
		if c.X1 == 100 && c.Y1 == 100 {
			t.Error("spark did not move")
		}
	}

	for i := 0; i < b.Life; i++ {
		b.Step(uint64(i), r2.Vec{}, false)
	}
	if b.Live() != 0 {
		t.Errorf("expected all sparks expired, %d live", b.Live())
	}
}

func TestBurstCapacity(t *testing.T) {
	b := NewBurst(palette.Default, 1)
	b.Capacity = 30
	b.Trigger(0, 0)
	b.Trigger(10, 10)
	if b.Live() != 30 {
		t.Errorf("expected capacity 30 enforced, got %d", b.Live())
	}
}

func TestShapesDriftAndWrap(t *testing.T) {
	s := NewShapes(6, colorful.Color{B: 1}, 42)

	s.Step(1, r2.Vec{}, false)
	if s.Len() != 0 {
		t.Fatal("shapes should not exist before sizing")
	}

	s.Resize(200, 100)
	if s.Len() != 6 {
		t.Fatalf("expected 6 shapes, got %d", s.Len())
	}
	before := append([]shape(nil), s.shapes...)

	for i := 0; i < 500; i++ {
		s.Step(uint64(i), r2.Vec{}, false)
	}
	moved := false
	for i, sh := range s.shapes {
		if sh.pos != before[i].pos {
			moved = true
		}
		if sh.pos.X < 0 || sh.pos.X > 200 || sh.pos.Y < 0 || sh.pos.Y > 100 {
			t.Errorf("shape %d escaped: %v", i, sh.pos)
		}
	}
	if !moved {
		t.Error("expected shapes to drift")
	}

	rec := surface.NewRecorder()
	rec.Clear()
	s.Draw(rec)
	// 3 + 4 + 6 sides, twice over.
	if n := rec.Count(surface.OpLine); n != 26 {
		t.Errorf("expected 26 edges, got %d", n)
	}

	s.Resize(50, 50)
	if s.Len() != 6 {
		t.Error("resize should keep existing shapes")
	}
}

func TestLayersInSimulator(t *testing.T) {
	cfg := field.DefaultConfig()
	cfg.Seed = 9
	cfg.RenderEvery = 1
	rec := surface.NewRecorder()
	burst := NewBurst(palette.Default, 9)
	sim := field.New(rec, nopClock{}, nil, cfg, field.WithLayer(burst))
	if err := sim.Start(300, 200, 5); err != nil {
		t.Fatal(err)
	}

	burst.Trigger(150, 100)
	sim.Draw(false)

	if n := rec.Count(surface.OpCircle); n != 5+burst.Sparks {
		t.Errorf("expected particles and sparks drawn, got %d circles", n)
	}
}

type nopClock struct{}

func (nopClock) Schedule(func()) func() { return func() {} }
