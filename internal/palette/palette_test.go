package palette

import (
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestPickStaysInBand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, name := range Names() {
		b := Get(name)
		for i := 0; i < 200; i++ {
			c := b.Pick(rng)
			if !b.Contains(c) {
				h, s, l := c.Hsl()
				t.Fatalf("%s: color hsl(%.2f, %.2f, %.2f) outside band", name, h, s, l)
			}
		}
	}
}

func TestGetUnknownFallsBack(t *testing.T) {
	if Get("nope") != Default {
		t.Error("expected default band for unknown name")
	}
}

func TestFade(t *testing.T) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}

	tests := []struct {
		name  string
		alpha float64
		want  float64
	}{
		{"opaque", 1, 1},
		{"transparent", 0, 0},
		{"half", 0.5, 0.5},
		{"clamped high", 3, 1},
		{"clamped low", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fade(white, black, tt.alpha)
			if diff := got.R - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected R=%.2f, got %.4f", tt.want, got.R)
			}
		})
	}
}

func TestContainsAchromatic(t *testing.T) {
	mono := Get("mono")

	tests := []struct {
		name string
		c    colorful.Color
		want bool
	}{
		{"same lightness", colorful.Hsl(0, 0, 0.85), true},
		{"same lightness any hue", colorful.Hsl(200, 0.5, 0.85), true},
		{"darker", colorful.Hsl(0, 0, 0.5), false},
		{"lighter", colorful.Hsl(0, 0, 0.95), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mono.Contains(tt.c); got != tt.want {
				t.Errorf("expected Contains=%v, got %v", tt.want, got)
			}
		})
	}
}
