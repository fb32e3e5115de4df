package metrics

import "github.com/san-kum/pfield/internal/field"

// LinkCount averages the number of connected pairs per observed tick.
type LinkCount struct {
	name      string
	threshold float64
	samples   int
	total     int
	last      int
}

func NewLinkCount(threshold float64) *LinkCount {
	return &LinkCount{name: "links", threshold: threshold}
}

func (l *LinkCount) Name() string { return l.name }

func (l *LinkCount) Observe(ps []field.Particle) {
	l.last = field.CountLinks(ps, l.threshold)
	l.total += l.last
	l.samples++
}

func (l *LinkCount) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return float64(l.total) / float64(l.samples)
}

func (l *LinkCount) Last() int { return l.last }

func (l *LinkCount) Reset() {
	l.total = 0
	l.samples = 0
	l.last = 0
}
