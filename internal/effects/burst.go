package effects

import (
	"math"
	"math/rand"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/field"
	"github.com/san-kum/pfield/internal/palette"
)

type spark struct {
	pos, vel r2.Vec
	age      int
	color    colorful.Color
}

// Burst is the click explosion: a ring of sparks flung outward that slow
// down and fade over Life ticks. At most Capacity sparks are live; the
// oldest are dropped first.
type Burst struct {
	mu sync.Mutex

	Capacity   int
	Sparks     int
	Speed      float64
	Friction   float64
	Life       int
	Radius     float64
	Band       palette.Band
	Background colorful.Color

	rng    *rand.Rand
	sparks []spark
}

func NewBurst(band palette.Band, seed int64) *Burst {
	return &Burst{
		Capacity:   240,
		Sparks:     24,
		Speed:      4,
		Friction:   0.92,
		Life:       45,
		Radius:     2.5,
		Band:       band,
		Background: colorful.Color{R: 0.04, G: 0.04, B: 0.04},
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Trigger spawns a ring of sparks at (x, y). It is safe to call from an
// input handler while the clock ticks elsewhere.
func (b *Burst) Trigger(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	origin := r2.Vec{X: x, Y: y}
	for i := 0; i < b.Sparks; i++ {
		angle := 2*math.Pi*float64(i)/float64(b.Sparks) + (b.rng.Float64()-0.5)*0.3
		speed := b.Speed * (0.5 + b.rng.Float64())
		b.sparks = append(b.sparks, spark{
			pos:   origin,
			vel:   r2.Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			color: b.Band.Pick(b.rng),
		})
	}
	if over := len(b.sparks) - b.Capacity; over > 0 {
		b.sparks = append(b.sparks[:0], b.sparks[over:]...)
	}
}

func (b *Burst) Step(tick uint64, p r2.Vec, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.sparks[:0]
	for _, s := range b.sparks {
		s.pos = r2.Add(s.pos, s.vel)
		s.vel = r2.Scale(b.Friction, s.vel)
		s.age++
		if s.age < b.Life {
			kept = append(kept, s)
		}
	}
	b.sparks = kept
}

func (b *Burst) Draw(s field.Surface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sp := range b.sparks {
		alpha := 1 - float64(sp.age)/float64(b.Life)
		s.FillCircle(sp.pos.X, sp.pos.Y, b.Radius*alpha, palette.Fade(sp.color, b.Background, alpha))
	}
}

func (b *Burst) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sparks)
}
