package surface

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
)

// ErrNoFrames is returned when encoding a recording with no captured frames.
var ErrNoFrames = errors.New("surface: no frames captured")

// GIFRecorder rasterizes Braille frames into an animated GIF. Each character
// cell becomes CharW x CharH pixels with its dots drawn in the cell color.
type GIFRecorder struct {
	CharW, CharH int
	// Delay between frames in hundredths of a second.
	Delay  int
	frames []*image.Paletted
}

func NewGIFRecorder() *GIFRecorder {
	return &GIFRecorder{CharW: 8, CharH: 16, Delay: 2}
}

func (g *GIFRecorder) Capture(c *Braille) {
	imgW, imgH := c.Width*g.CharW, c.Height*g.CharH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.WebSafe)
	bg := uint8(img.Palette.Index(c.Background))
	for i := range img.Pix {
		img.Pix[i] = bg
	}

	dotW, dotH := g.CharW/2, g.CharH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r := c.Grid[row][col]
			if r <= blank {
				continue
			}
			pattern := int(r - blank)
			idx := uint8(img.Palette.Index(c.cells[row][col].color))
			baseX, baseY := col*g.CharW, row*g.CharH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	g.frames = append(g.frames, img)
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

func (g *GIFRecorder) Reset() { g.frames = nil }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, g.Delay)
	}
	return gif.EncodeAll(w, &anim)
}
