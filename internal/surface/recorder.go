package surface

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

type Op string

const (
	OpResize Op = "resize"
	OpClear  Op = "clear"
	OpCircle Op = "circle"
	OpLine   Op = "line"
)

// Command is one recorded drawing call.
type Command struct {
	Op     Op      `json:"op"`
	X1     float64 `json:"x1,omitempty"`
	Y1     float64 `json:"y1,omitempty"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	R      float64 `json:"r,omitempty"`
	Alpha  float64 `json:"alpha,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Color  string  `json:"color,omitempty"`
	W, H   int     `json:"-"`
}

func (c Command) String() string {
	switch c.Op {
	case OpResize:
		return fmt.Sprintf("resize %dx%d", c.W, c.H)
	case OpCircle:
		return fmt.Sprintf("circle (%.3f,%.3f) r=%.3f %s", c.X1, c.Y1, c.R, c.Color)
	case OpLine:
		return fmt.Sprintf("line (%.3f,%.3f)-(%.3f,%.3f) a=%.4f w=%.2f %s", c.X1, c.Y1, c.X2, c.Y2, c.Alpha, c.Width, c.Color)
	default:
		return string(c.Op)
	}
}

// Target is the drawing contract shared by every surface in this package.
type Target interface {
	Resize(w, h int) error
	Clear()
	FillCircle(x, y, r float64, c color.Color)
	StrokeLine(x1, y1, x2, y2 float64, c color.Color, alpha, width float64)
}

// Recorder captures drawing calls. By default only the frame since the last
// Clear is kept; KeepAll retains the whole history.
type Recorder struct {
	mu      sync.Mutex
	KeepAll bool

	w, h   int
	cmds   []Command
	frames int
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Resize(w, h int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w, r.h = w, h
	r.cmds = append(r.cmds, Command{Op: OpResize, W: w, H: h})
	return nil
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.KeepAll {
		r.cmds = r.cmds[:0]
	}
	r.frames++
	r.cmds = append(r.cmds, Command{Op: OpClear})
}

func (r *Recorder) FillCircle(x, y, rad float64, c color.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, Command{Op: OpCircle, X1: x, Y1: y, R: rad, Color: Hex(c)})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2 float64, c color.Color, alpha, width float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, Command{Op: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Alpha: alpha, Width: width, Color: Hex(c)})
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

// LastFrame returns the commands from the most recent Clear onward.
func (r *Recorder) LastFrame() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := -1
	for i := len(r.cmds) - 1; i >= 0; i-- {
		if r.cmds[i].Op == OpClear {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	out := make([]Command, len(r.cmds)-start)
	copy(out, r.cmds[start:])
	return out
}

func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = nil
	r.frames = 0
}

// Count returns how many commands of op the last frame holds.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.LastFrame() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Replay draws cmds onto dst at its current size.
func Replay(dst Target, cmds []Command) error {
	for _, c := range cmds {
		switch c.Op {
		case OpResize:
			if err := dst.Resize(c.W, c.H); err != nil {
				return err
			}
		case OpClear:
			dst.Clear()
		case OpCircle:
			dst.FillCircle(c.X1, c.Y1, c.R, ParseHex(c.Color))
		case OpLine:
			dst.StrokeLine(c.X1, c.Y1, c.X2, c.Y2, ParseHex(c.Color), c.Alpha, c.Width)
		}
	}
	return nil
}

// Hex formats any color as #rrggbb.
func Hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	cc, _ := colorful.MakeColor(c)
	return cc.Hex()
}

// ParseHex parses #rrggbb, returning black on malformed input.
func ParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}
