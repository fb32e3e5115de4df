package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/field"
)

// Metric accumulates a scalar over observed ticks.
type Metric interface {
	Name() string
	Observe(ps []field.Particle)
	Value() float64
	Reset()
}

// KineticEnergy averages the per-tick total of 0.5 m v^2, taking particle
// mass as radius squared.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps []field.Particle) {
	sum := 0.0
	for _, p := range ps {
		sum += 0.5 * p.Radius * p.Radius * r2.Norm2(p.Vel)
	}
	e.last = sum
	e.total += sum
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last returns the most recent observation.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}

// MeanSpeed averages the per-tick mean particle speed.
type MeanSpeed struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(ps []field.Particle) {
	if len(ps) == 0 {
		return
	}
	sum := 0.0
	for _, p := range ps {
		sum += r2.Norm(p.Vel)
	}
	m.last = sum / float64(len(ps))
	m.total += m.last
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanSpeed) Last() float64 { return m.last }

func (m *MeanSpeed) Reset() {
	m.total = 0
	m.last = 0
	m.samples = 0
}

// MaxSpeed tracks the fastest particle ever observed. Attraction has no cap,
// so this is the metric that shows runaway velocities.
type MaxSpeed struct {
	name string
	max  float64
	last float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(ps []field.Particle) {
	m.last = 0
	for _, p := range ps {
		m.last = math.Max(m.last, r2.Norm(p.Vel))
	}
	m.max = math.Max(m.max, m.last)
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Last() float64  { return m.last }

func (m *MaxSpeed) Reset() {
	m.max = 0
	m.last = 0
}
