package field

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/palette"
)

// Particle is a point with fixed radius and color. Radius and Color are
// assigned at creation and never change.
type Particle struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	Color  colorful.Color
}

// Clock invokes tick once per display refresh until cancel is called.
// Callbacks registered on the same clock run in registration order.
type Clock interface {
	Schedule(tick func()) (cancel func())
}

// Pointer reports the latest observed input position, if any.
type Pointer interface {
	Latest() (r2.Vec, bool)
}

// Surface is a raster drawing target.
type Surface interface {
	Resize(w, h int) error
	Clear()
	FillCircle(x, y, r float64, c color.Color)
	StrokeLine(x1, y1, x2, y2 float64, c color.Color, alpha, width float64)
}

// Layer is an auxiliary effect stepped every tick and drawn on top of the
// particle network on rendered frames.
type Layer interface {
	Step(tick uint64, pointer r2.Vec, hasPointer bool)
	Draw(s Surface)
}

// Resizer is implemented by layers that track the surface bounds.
type Resizer interface {
	Resize(w, h float64)
}

// Observer is notified after each tick's update. The particle slice is only
// valid for the duration of the call.
type Observer interface {
	OnTick(tick uint64, ps []Particle)
}

type Config struct {
	// AttractRadius is the pointer influence radius R.
	AttractRadius float64
	// Softening is the divisor S applied to (R - d).
	Softening float64
	// LinkDistance is the connection threshold C.
	LinkDistance float64
	LinkAlpha    float64
	LinkWidth    float64
	LinkColor    colorful.Color

	MinRadius float64
	MaxRadius float64
	// MaxSpeed bounds the initial velocity components to [-MaxSpeed, MaxSpeed].
	MaxSpeed float64

	// Cadences; 1 means every tick (or every rendered frame for LinkEvery).
	AttractEvery int
	RenderEvery  int
	LinkEvery    int

	ClampOnResize bool
	Seed          int64
	Palette       palette.Band
}

func DefaultConfig() Config {
	return Config{
		AttractRadius: 80,
		Softening:     2000,
		LinkDistance:  120,
		LinkAlpha:     0.2,
		LinkWidth:     1,
		LinkColor:     palette.Default.Mid(),
		MinRadius:     1,
		MaxRadius:     4,
		MaxSpeed:      1,
		AttractEvery:  4,
		RenderEvery:   2,
		LinkEvery:     3,
		Palette:       palette.Default,
	}
}

// LinkOpacity returns the stroke alpha for two particles dist apart: linear
// falloff from base at 0 to 0 at threshold, and 0 beyond it.
func LinkOpacity(dist, threshold, base float64) float64 {
	if threshold <= 0 || dist >= threshold {
		return 0
	}
	if dist < 0 {
		dist = 0
	}
	return (threshold - dist) / threshold * base
}
