package surface

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// SVG renders drawing calls as an SVG document.
type SVG struct {
	Background string

	w, h int
	body strings.Builder
}

func NewSVG() *SVG { return &SVG{Background: "#0a0a0a"} }

func (s *SVG) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("svg: invalid size %dx%d", w, h)
	}
	s.w, s.h = w, h
	return nil
}

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) FillCircle(x, y, r float64, c color.Color) {
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>
`, x, y, r, Hex(c))
}

func (s *SVG) StrokeLine(x1, y1, x2, y2 float64, c color.Color, alpha, width float64) {
	fmt.Fprintf(&s.body, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.4f" stroke-width="%.2f"/>
`, x1, y1, x2, y2, Hex(c), alpha, width)
}

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.w, s.h, s.w, s.h, s.Background)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}
