package browser

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// canvas replays field commands onto an ebiten image.
type canvas struct {
	img *ebiten.Image
	bg  color.Color
}

func (c *canvas) Resize(w, h int) error { return nil }

func (c *canvas) Clear() { c.img.Fill(c.bg) }

func (c *canvas) FillCircle(x, y, r float64, col color.Color) {
	vector.DrawFilledCircle(c.img, float32(x), float32(y), float32(r), col, true)
}

func (c *canvas) StrokeLine(x1, y1, x2, y2 float64, col color.Color, alpha, width float64) {
	vector.StrokeLine(c.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), withAlpha(col, alpha), true)
}

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A) * max(0, min(alpha, 1)))
	return n
}
