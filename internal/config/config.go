package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pfield/internal/field"
	"github.com/san-kum/pfield/internal/palette"
)

const (
	DefaultCount  = 80
	DefaultWidth  = 800
	DefaultHeight = 480
	DefaultFPS    = 60
	DefaultScale  = 4.0
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Field   FieldConfig   `yaml:"field"`
	Palette PaletteConfig `yaml:"palette"`
	Effects EffectsConfig `yaml:"effects"`
	Host    HostConfig    `yaml:"host"`
}

type FieldConfig struct {
	Count         int     `yaml:"count"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	AttractRadius float64 `yaml:"attract_radius"`
	Softening     float64 `yaml:"softening"`
	LinkDistance  float64 `yaml:"link_distance"`
	LinkAlpha     float64 `yaml:"link_alpha"`
	LinkWidth     float64 `yaml:"link_width"`
	MinRadius     float64 `yaml:"min_radius"`
	MaxRadius     float64 `yaml:"max_radius"`
	MaxSpeed      float64 `yaml:"max_speed"`
	AttractEvery  int     `yaml:"attract_every"`
	RenderEvery   int     `yaml:"render_every"`
	LinkEvery     int     `yaml:"link_every"`
	ClampOnResize bool    `yaml:"clamp_on_resize"`
	Seed          int64   `yaml:"seed"`
}

// PaletteConfig names a registered band; Custom overrides it when set.
type PaletteConfig struct {
	Band   string        `yaml:"band"`
	Custom *palette.Band `yaml:"custom,omitempty"`
}

type EffectsConfig struct {
	Trail  TrailConfig  `yaml:"trail"`
	Burst  BurstConfig  `yaml:"burst"`
	Shapes ShapesConfig `yaml:"shapes"`
}

type TrailConfig struct {
	Enabled bool `yaml:"enabled"`
	Length  int  `yaml:"length"`
}

type BurstConfig struct {
	Enabled bool `yaml:"enabled"`
	Sparks  int  `yaml:"sparks"`
}

type ShapesConfig struct {
	Enabled bool `yaml:"enabled"`
	Count   int  `yaml:"count"`
}

type HostConfig struct {
	FPS int `yaml:"fps"`
	// Scale is pixels per braille dot in the terminal host.
	Scale float64 `yaml:"scale"`
	Theme string  `yaml:"theme"`
}

func DefaultConfig() *Config {
	fc := field.DefaultConfig()
	return &Config{
		Field: FieldConfig{
			Count:         DefaultCount,
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			AttractRadius: fc.AttractRadius,
			Softening:     fc.Softening,
			LinkDistance:  fc.LinkDistance,
			LinkAlpha:     fc.LinkAlpha,
			LinkWidth:     fc.LinkWidth,
			MinRadius:     fc.MinRadius,
			MaxRadius:     fc.MaxRadius,
			MaxSpeed:      fc.MaxSpeed,
			AttractEvery:  fc.AttractEvery,
			RenderEvery:   fc.RenderEvery,
			LinkEvery:     fc.LinkEvery,
		},
		Palette: PaletteConfig{Band: "ocean"},
		Effects: EffectsConfig{
			Trail:  TrailConfig{Length: 16},
			Burst:  BurstConfig{Sparks: 24},
			Shapes: ShapesConfig{Count: 6},
		},
		Host: HostConfig{
			FPS:   DefaultFPS,
			Scale: DefaultScale,
			Theme: "default",
		},
	}
}

func Load(path string) (*Config, error) {
	return Merge(path, DefaultConfig())
}

// Merge reads path over base, so keys the file omits keep base's values.
// base is modified and returned.
func Merge(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	f := c.Field
	switch {
	case f.Count < 0:
		return fmt.Errorf("%w: count %d", ErrInvalid, f.Count)
	case f.Width <= 0 || f.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, f.Width, f.Height)
	case f.AttractEvery < 1 || f.RenderEvery < 1 || f.LinkEvery < 1:
		return fmt.Errorf("%w: cadences must be >= 1", ErrInvalid)
	case f.Softening <= 0:
		return fmt.Errorf("%w: softening %g", ErrInvalid, f.Softening)
	case f.MinRadius <= 0 || f.MaxRadius < f.MinRadius:
		return fmt.Errorf("%w: radius range [%g, %g]", ErrInvalid, f.MinRadius, f.MaxRadius)
	case f.LinkAlpha < 0 || f.LinkAlpha > 1:
		return fmt.Errorf("%w: link alpha %g", ErrInvalid, f.LinkAlpha)
	case f.AttractRadius < 0 || f.LinkDistance < 0 || f.MaxSpeed < 0:
		return fmt.Errorf("%w: negative distance or speed", ErrInvalid)
	}
	if fx := c.Effects; fx.Trail.Length < 0 || fx.Burst.Sparks < 0 || fx.Shapes.Count < 0 {
		return fmt.Errorf("%w: trail length %d, burst sparks %d, shape count %d",
			ErrInvalid, fx.Trail.Length, fx.Burst.Sparks, fx.Shapes.Count)
	}
	if p := c.Palette.Custom; p != nil {
		if p.Saturation < 0 || p.Saturation > 1 || p.Lightness < 0 || p.Lightness > 1 {
			return fmt.Errorf("%w: palette saturation/lightness out of [0, 1]", ErrInvalid)
		}
	} else if _, ok := palette.Bands[c.Palette.Band]; !ok {
		return fmt.Errorf("%w: unknown palette %q", ErrInvalid, c.Palette.Band)
	}
	if c.Host.FPS <= 0 || c.Host.Scale <= 0 {
		return fmt.Errorf("%w: host fps %d scale %g", ErrInvalid, c.Host.FPS, c.Host.Scale)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Palette.Custom != nil {
		b := *c.Palette.Custom
		out.Palette.Custom = &b
	}
	return &out
}

// Band resolves the configured palette.
func (c *Config) Band() palette.Band {
	if c.Palette.Custom != nil {
		return *c.Palette.Custom
	}
	return palette.Get(c.Palette.Band)
}

// FieldConfig converts the file layout into the simulator's configuration.
func (c *Config) FieldConfig() field.Config {
	band := c.Band()
	f := c.Field
	return field.Config{
		AttractRadius: f.AttractRadius,
		Softening:     f.Softening,
		LinkDistance:  f.LinkDistance,
		LinkAlpha:     f.LinkAlpha,
		LinkWidth:     f.LinkWidth,
		LinkColor:     band.Mid(),
		MinRadius:     f.MinRadius,
		MaxRadius:     f.MaxRadius,
		MaxSpeed:      f.MaxSpeed,
		AttractEvery:  f.AttractEvery,
		RenderEvery:   f.RenderEvery,
		LinkEvery:     f.LinkEvery,
		ClampOnResize: f.ClampOnResize,
		Seed:          f.Seed,
		Palette:       band,
	}
}
