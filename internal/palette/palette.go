package palette

import (
	"math"
	"math/rand"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Band is a constrained HSL hue range. Every color picked from a band shares
// saturation and lightness so a particle set reads as one palette.
type Band struct {
	HueMin     float64 `yaml:"hue_min"`
	HueMax     float64 `yaml:"hue_max"`
	Saturation float64 `yaml:"saturation"`
	Lightness  float64 `yaml:"lightness"`
}

var Bands = map[string]Band{
	"ocean":  {HueMin: 180, HueMax: 230, Saturation: 0.8, Lightness: 0.6},
	"aurora": {HueMin: 120, HueMax: 200, Saturation: 0.7, Lightness: 0.55},
	"ember":  {HueMin: 0, HueMax: 45, Saturation: 0.85, Lightness: 0.55},
	"violet": {HueMin: 260, HueMax: 320, Saturation: 0.7, Lightness: 0.65},
	"mono":   {HueMin: 0, HueMax: 0, Saturation: 0, Lightness: 0.85},
}

// Default is the band used when none is configured.
var Default = Bands["ocean"]

// Get returns the named band, falling back to Default.
func Get(name string) Band {
	if b, ok := Bands[name]; ok {
		return b
	}
	return Default
}

// Names returns the registered band names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Bands))
	for name := range Bands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pick draws a color with hue uniform in [HueMin, HueMax).
func (b Band) Pick(rng *rand.Rand) colorful.Color {
	h := b.HueMin
	if b.HueMax > b.HueMin {
		h += rng.Float64() * (b.HueMax - b.HueMin)
	}
	return colorful.Hsl(h, b.Saturation, b.Lightness)
}

// Mid returns the color at the center of the band.
func (b Band) Mid() colorful.Color {
	return colorful.Hsl((b.HueMin+b.HueMax)/2, b.Saturation, b.Lightness)
}

// Contains reports whether c has a hue inside the band. Achromatic bands
// accept any color with matching lightness.
func (b Band) Contains(c colorful.Color) bool {
	h, _, l := c.Hsl()
	if b.Saturation == 0 {
		return math.Abs(l-b.Lightness) < 1e-6
	}
	const eps = 1e-6
	if h > 360-eps {
		h -= 360
	}
	return h >= b.HueMin-eps && h <= b.HueMax+eps
}

// Fade blends c toward bg by 1-alpha, clamping alpha to [0,1].
func Fade(c, bg colorful.Color, alpha float64) colorful.Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return bg.BlendRgb(c, alpha).Clamped()
}
