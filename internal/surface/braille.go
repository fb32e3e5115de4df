package surface

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pfield/internal/palette"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type cell struct {
	color colorful.Color
	alpha float64
}

// Braille is a terminal surface. Each character cell holds 2x4 dots and a
// single color; Scale logical pixels map onto one dot.
type Braille struct {
	Scale float64
	// Background is the color faint strokes are blended toward.
	Background colorful.Color
	// LineGain multiplies stroke alpha before blending so low-alpha links
	// stay visible on a terminal.
	LineGain float64

	Width, Height int
	Grid          [][]rune
	cells         [][]cell
}

func NewBraille(scale float64) *Braille {
	if scale <= 0 {
		scale = 1
	}
	return &Braille{
		Scale:      scale,
		Background: colorful.Color{R: 0.04, G: 0.04, B: 0.04},
		LineGain:   4,
	}
}

// Resize allocates enough cells to cover a w x h logical surface.
func (c *Braille) Resize(w, h int) error {
	dotsW := int(math.Ceil(float64(w) / c.Scale))
	dotsH := int(math.Ceil(float64(h) / c.Scale))
	c.Width = (dotsW + 1) / 2
	c.Height = (dotsH + 3) / 4
	c.Grid = make([][]rune, c.Height)
	c.cells = make([][]cell, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, c.Width)
		c.cells[i] = make([]cell, c.Width)
	}
	c.Clear()
	return nil
}

// Clear resets the canvas
func (c *Braille) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.cells[i][j] = cell{}
		}
	}
}

// Set turns on the dot at sub-pixel (x, y) and tints its cell. A cell keeps
// the color of its most opaque draw.
func (c *Braille) Set(x, y int, col colorful.Color, alpha float64) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	if alpha >= c.cells[row][cx].alpha {
		c.cells[row][cx] = cell{color: col, alpha: alpha}
	}
}

func (c *Braille) dot(v float64) int { return int(math.Floor(v / c.Scale)) }

func (c *Braille) FillCircle(x, y, r float64, col color.Color) {
	cc, _ := colorful.MakeColor(col)
	cx, cy := c.dot(x), c.dot(y)
	rd := r / c.Scale
	ri := int(math.Ceil(rd))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= rd*rd {
				c.Set(cx+dx, cy+dy, cc, 1)
			}
		}
	}
	c.Set(cx, cy, cc, 1)
}

// StrokeLine draws a line using Bresenham's algorithm
func (c *Braille) StrokeLine(x1, y1, x2, y2 float64, col color.Color, alpha, width float64) {
	a := alpha * c.LineGain
	if a <= 0 {
		return
	}
	cc, _ := colorful.MakeColor(col)
	tint := palette.Fade(cc, c.Background, a)

	x0, y0, xe, ye := c.dot(x1), c.dot(y1), c.dot(x2), c.dot(y2)
	dx := absInt(xe - x0)
	dy := absInt(ye - y0)
	sx := -1
	if x0 < xe {
		sx = 1
	}
	sy := -1
	if y0 < ye {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, tint, a)
		if x0 == xe && y0 == ye {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Dots counts the lit sub-pixels.
func (c *Braille) Dots() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			bits := int(r - blank)
			for bits != 0 {
				n += bits & 1
				bits >>= 1
			}
		}
	}
	return n
}

// Plain renders the grid without color.
func (c *Braille) Plain() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// String renders the grid with per-cell foreground colors. Runs of cells
// sharing a color are styled together.
func (c *Braille) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.cells[i][j].color == c.cells[i][start].color {
				continue
			}
			seg := string(row[start:j])
			if c.cells[i][start].alpha > 0 {
				seg = lipgloss.NewStyle().Foreground(lipgloss.Color(c.cells[i][start].color.Hex())).Render(seg)
			}
			b.WriteString(seg)
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
