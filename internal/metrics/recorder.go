package metrics

import (
	"sync"

	"github.com/san-kum/pfield/internal/field"
)

// Sample is one row of metric history.
type Sample struct {
	Tick   uint64             `json:"tick"`
	Values map[string]float64 `json:"values"`
}

// Recorder feeds every observed tick into its metrics and keeps a bounded
// history of their running values. It satisfies field.Observer.
type Recorder struct {
	mu      sync.Mutex
	metrics []Metric
	every   uint64
	limit   int
	history []Sample
}

// NewRecorder samples history every `every` ticks and keeps at most limit
// samples; limit <= 0 keeps everything.
func NewRecorder(every, limit int, ms ...Metric) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{metrics: ms, every: uint64(every), limit: limit}
}

// Standard returns the usual set for a field of the given size.
func Standard(cfg field.Config, w, h float64) []Metric {
	return []Metric{
		NewMeanSpeed(),
		NewMaxSpeed(),
		NewKineticEnergy(),
		NewLinkCount(cfg.LinkDistance),
		NewOutOfBounds(w, h),
	}
}

func (r *Recorder) OnTick(tick uint64, ps []field.Particle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.metrics {
		m.Observe(ps)
	}
	if tick%r.every != 0 {
		return
	}
	s := Sample{Tick: tick, Values: make(map[string]float64, len(r.metrics))}
	for _, m := range r.metrics {
		s.Values[m.Name()] = current(m)
	}
	r.history = append(r.history, s)
	if r.limit > 0 && len(r.history) > r.limit {
		r.history = append(r.history[:0], r.history[len(r.history)-r.limit:]...)
	}
}

// SetBounds forwards a resize to the metrics that care about bounds.
func (r *Recorder) SetBounds(w, h float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.metrics {
		if b, ok := m.(*OutOfBounds); ok {
			b.SetBounds(w, h)
		}
	}
}

// Values returns each metric's aggregate value keyed by name.
func (r *Recorder) Values() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Last returns each metric's most recent per-tick reading.
func (r *Recorder) Last() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = current(m)
	}
	return out
}

func (r *Recorder) History() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.history...)
}

// Series extracts one metric's history, oldest first.
func (r *Recorder) Series(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, 0, len(r.history))
	for _, s := range r.history {
		if v, ok := s.Values[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.metrics {
		m.Reset()
	}
	r.history = nil
}

// current prefers a metric's last per-tick reading when it has one.
func current(m Metric) float64 {
	switch v := m.(type) {
	case interface{ Last() float64 }:
		return v.Last()
	case interface{ Last() int }:
		return float64(v.Last())
	}
	return m.Value()
}
