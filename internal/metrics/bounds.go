package metrics

import "github.com/san-kum/pfield/internal/field"

// OutOfBounds averages the fraction of particles lying outside the bounds.
// Single-frame overshoot at an edge and unclamped resizes both show up here.
type OutOfBounds struct {
	name    string
	w, h    float64
	samples int
	total   float64
	last    int
}

func NewOutOfBounds(w, h float64) *OutOfBounds {
	return &OutOfBounds{name: "out_of_bounds", w: w, h: h}
}

func (o *OutOfBounds) Name() string { return o.name }

// SetBounds updates the bounds after a resize.
func (o *OutOfBounds) SetBounds(w, h float64) { o.w, o.h = w, h }

func (o *OutOfBounds) Observe(ps []field.Particle) {
	if len(ps) == 0 {
		return
	}
	o.last = 0
	for _, p := range ps {
		if p.Pos.X < 0 || p.Pos.X > o.w || p.Pos.Y < 0 || p.Pos.Y > o.h {
			o.last++
		}
	}
	o.total += float64(o.last) / float64(len(ps))
	o.samples++
}

func (o *OutOfBounds) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return o.total / float64(o.samples)
}

// Last returns how many particles were outside on the last observed tick.
func (o *OutOfBounds) Last() int { return o.last }

func (o *OutOfBounds) Reset() {
	o.total = 0
	o.samples = 0
	o.last = 0
}
