package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// screen draws recorded field commands straight into the raylib back buffer.
// It must only be used between BeginDrawing and EndDrawing.
type screen struct {
	bg   rl.Color
	w, h int
}

func (s *screen) Resize(w, h int) error {
	s.w, s.h = w, h
	return nil
}

func (s *screen) Clear() { rl.ClearBackground(s.bg) }

func (s *screen) FillCircle(x, y, r float64, c color.Color) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), toColor(c))
}

func (s *screen) StrokeLine(x1, y1, x2, y2 float64, c color.Color, alpha, width float64) {
	rl.DrawLineEx(
		rl.NewVector2(float32(x1), float32(y1)),
		rl.NewVector2(float32(x2), float32(y2)),
		float32(width),
		rl.ColorAlpha(toColor(c), float32(alpha)),
	)
}

func toColor(c color.Color) rl.Color {
	r, g, b, a := c.RGBA()
	return rl.NewColor(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}
