package config

import "sort"

// Presets are whole configurations keyed by name; each starts from the
// defaults and changes what makes it distinct.
var Presets = map[string]*Config{
	"calm": preset(func(c *Config) {
		c.Field.Count = 50
		c.Field.MaxSpeed = 0.4
		c.Palette.Band = "ocean"
	}),
	"dense": preset(func(c *Config) {
		c.Field.Count = 220
		c.Field.LinkDistance = 70
		c.Field.LinkAlpha = 0.15
		c.Palette.Band = "aurora"
	}),
	"sparse": preset(func(c *Config) {
		c.Field.Count = 25
		c.Field.LinkDistance = 200
		c.Palette.Band = "violet"
		c.Effects.Shapes.Enabled = true
	}),
	"frantic": preset(func(c *Config) {
		c.Field.Count = 120
		c.Field.MaxSpeed = 3
		c.Field.AttractRadius = 160
		c.Field.Softening = 800
		c.Field.AttractEvery = 1
		c.Palette.Band = "ember"
		c.Effects.Trail.Enabled = true
		c.Effects.Burst.Enabled = true
	}),
	"static": preset(func(c *Config) {
		c.Field.MaxSpeed = 0
		c.Field.AttractRadius = 0
		c.Palette.Band = "mono"
	}),
}

// PresetDescriptions are one-line summaries shown by pickers and listings.
var PresetDescriptions = map[string]string{
	"calm":    "few slow particles",
	"dense":   "crowded short links",
	"sparse":  "long links, drifting shapes",
	"frantic": "fast, trails and bursts",
	"static":  "frozen, pointer ignored",
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
