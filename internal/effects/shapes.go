package effects

import (
	"math"
	"math/rand"
	"sync"

	"github.com/aquilax/go-perlin"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/field"
)

const noiseScale = 0.004

type shape struct {
	pos   r2.Vec
	sides int
	size  float64
	angle float64
	spin  float64
}

// Shapes is a field of polygon outlines drifting along a Perlin flow field.
// Shapes leaving one edge re-enter at the opposite one.
type Shapes struct {
	mu sync.Mutex

	Count int
	Speed float64
	Alpha float64
	Color colorful.Color

	noise  *perlin.Perlin
	rng    *rand.Rand
	shapes []shape
	w, h   float64
	t      float64
}

func NewShapes(count int, c colorful.Color, seed int64) *Shapes {
	return &Shapes{
		Count: count,
		Speed: 0.4,
		Alpha: 0.15,
		Color: c,
		noise: perlin.NewPerlin(2, 2, 3, seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Resize scatters the shapes on first sizing; later resizes keep them and let
// wrapping bring strays back.
func (s *Shapes) Resize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.h = w, h
	if len(s.shapes) > 0 {
		return
	}
	sides := []int{3, 4, 6}
	s.shapes = make([]shape, s.Count)
	for i := range s.shapes {
		s.shapes[i] = shape{
			pos:   r2.Vec{X: s.rng.Float64() * w, Y: s.rng.Float64() * h},
			sides: sides[i%len(sides)],
			size:  10 + s.rng.Float64()*20,
			angle: s.rng.Float64() * 2 * math.Pi,
			spin:  (s.rng.Float64() - 0.5) * 0.02,
		}
	}
}

func (s *Shapes) Step(tick uint64, p r2.Vec, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == 0 || s.h == 0 {
		return
	}
	s.t += 0.5
	for i := range s.shapes {
		sh := &s.shapes[i]
		heading := (s.noise.Noise2D(sh.pos.X*noiseScale, sh.pos.Y*noiseScale+s.t*noiseScale) + 1) * math.Pi
		sh.pos.X = wrap(sh.pos.X+math.Cos(heading)*s.Speed, s.w)
		sh.pos.Y = wrap(sh.pos.Y+math.Sin(heading)*s.Speed, s.h)
		sh.angle += sh.spin
	}
}

func (s *Shapes) Draw(dst field.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range s.shapes {
		vs := sh.vertices()
		for i := range vs {
			a, b := vs[i], vs[(i+1)%len(vs)]
			dst.StrokeLine(a.X, a.Y, b.X, b.Y, s.Color, s.Alpha, 1)
		}
	}
}

func (sh shape) vertices() []r2.Vec {
	vs := make([]r2.Vec, sh.sides)
	for i := range vs {
		a := sh.angle + 2*math.Pi*float64(i)/float64(sh.sides)
		vs[i] = r2.Vec{X: sh.pos.X + sh.size*math.Cos(a), Y: sh.pos.Y + sh.size*math.Sin(a)}
	}
	return vs
}

func (s *Shapes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shapes)
}

func wrap(v, max float64) float64 {
	if v < 0 {
		return v + max
	}
	if v > max {
		return v - max
	}
	return v
}
