package pointer

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tracker stores the latest pointer position reported by an input handler.
// Reads and writes may come from different goroutines.
type Tracker struct {
	mu    sync.RWMutex
	pos   r2.Vec
	known bool
	moves uint64
}

func NewTracker() *Tracker { return &Tracker{} }

func (t *Tracker) Move(x, y float64) {
	t.mu.Lock()
	t.pos = r2.Vec{X: x, Y: y}
	t.known = true
	t.moves++
	t.mu.Unlock()
}

// Leave forgets the position, e.g. when the pointer exits the surface.
func (t *Tracker) Leave() {
	t.mu.Lock()
	t.known = false
	t.mu.Unlock()
}

func (t *Tracker) Latest() (r2.Vec, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pos, t.known
}

func (t *Tracker) Moves() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.moves
}

// Orbit is a scripted pointer circling a center point. Each Latest call
// advances it by Step radians, so it only suits single-reader sessions.
type Orbit struct {
	Center r2.Vec
	Radius float64
	Step   float64

	angle float64
}

func NewOrbit(cx, cy, radius, step float64) *Orbit {
	return &Orbit{Center: r2.Vec{X: cx, Y: cy}, Radius: radius, Step: step}
}

func (o *Orbit) Latest() (r2.Vec, bool) {
	p := r2.Vec{
		X: o.Center.X + o.Radius*math.Cos(o.angle),
		Y: o.Center.Y + o.Radius*math.Sin(o.angle),
	}
	o.angle += o.Step
	return p, true
}
