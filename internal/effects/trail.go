package effects

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/field"
	"github.com/san-kum/pfield/internal/palette"
)

type trailPoint struct {
	pos       r2.Vec
	intensity float64
}

// Trail follows the pointer with a fading tail of dots.
type Trail struct {
	mu sync.Mutex

	Length     int
	Decay      float64
	Floor      float64
	Radius     float64
	Color      colorful.Color
	Background colorful.Color

	points  []trailPoint
	last    r2.Vec
	hasLast bool
}

func NewTrail(length int, c colorful.Color) *Trail {
	return &Trail{
		Length:     length,
		Decay:      0.85,
		Floor:      0.05,
		Radius:     3,
		Color:      c,
		Background: colorful.Color{R: 0.04, G: 0.04, B: 0.04},
		points:     make([]trailPoint, 0, length),
	}
}

func (t *Trail) Step(tick uint64, p r2.Vec, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.points[:0]
	for _, pt := range t.points {
		pt.intensity *= t.Decay
		if pt.intensity > t.Floor {
			kept = append(kept, pt)
		}
	}
	t.points = kept

	if !ok {
		t.hasLast = false
		return
	}
	if t.hasLast && t.last == p {
		return
	}
	t.points = append(t.points, trailPoint{pos: p, intensity: 1})
	if len(t.points) > t.Length {
		t.points = append(t.points[:0], t.points[len(t.points)-t.Length:]...)
	}
	t.last, t.hasLast = p, true
}

func (t *Trail) Draw(s field.Surface) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, pt := range t.points {
		s.FillCircle(pt.pos.X, pt.pos.Y, t.Radius*pt.intensity, palette.Fade(t.Color, t.Background, pt.intensity))
	}
}

func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.points)
}
