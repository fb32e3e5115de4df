package field

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

type Simulator struct {
	mu sync.Mutex

	cfg     Config
	surface Surface
	clock   Clock
	pointer Pointer

	layers    []Layer
	observers []Observer
	log       *zap.Logger
	rng       *rand.Rand

	particles     []Particle
	width, height float64
	tickCount     uint64
	frameCount    uint64

	cancel  func()
	started bool
	stopped bool
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

func WithLayer(l Layer) Option {
	return func(s *Simulator) { s.layers = append(s.layers, l) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

// New builds a simulator bound to its collaborators. A nil pointer source is
// treated as a pointer that is never known. A zero Seed draws one from the
// wall clock.
func New(surface Surface, clock Clock, pointer Pointer, cfg Config, opts ...Option) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulator{
		cfg:     cfg,
		surface: surface,
		clock:   clock,
		pointer: pointer,
		log:     zap.NewNop(),
		rng:     rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddLayer(l Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
	if r, ok := l.(Resizer); ok && s.started {
		r.Resize(s.width, s.height)
	}
}

func (s *Simulator) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Start allocates count particles on a width x height surface and registers
// the tick handler with the clock. It may be called once per simulator.
func (s *Simulator) Start(width, height, count int) error {
	if width <= 0 || height <= 0 || count < 0 {
		return fmt.Errorf("%w: %dx%d with %d particles", ErrInvalidSize, width, height, count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if err := s.surface.Resize(width, height); err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}

	s.width, s.height = float64(width), float64(height)
	s.particles = make([]Particle, count)
	for i := range s.particles {
		s.particles[i] = s.spawn()
	}
	for _, l := range s.layers {
		if r, ok := l.(Resizer); ok {
			r.Resize(s.width, s.height)
		}
	}

	s.started = true
	s.cancel = s.clock.Schedule(s.tick)

	s.log.Info("particle field started",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("count", count),
		zap.Int("layers", len(s.layers)),
	)
	return nil
}

func (s *Simulator) spawn() Particle {
	c := s.cfg
	return Particle{
		Pos: r2.Vec{
			X: s.rng.Float64() * s.width,
			Y: s.rng.Float64() * s.height,
		},
		Vel: r2.Vec{
			X: (s.rng.Float64()*2 - 1) * c.MaxSpeed,
			Y: (s.rng.Float64()*2 - 1) * c.MaxSpeed,
		},
		Radius: c.MinRadius + s.rng.Float64()*(c.MaxRadius-c.MinRadius),
		Color:  c.Palette.Pick(s.rng),
	}
}

// Stop deregisters from the clock. Later ticks already in flight are ignored.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped {
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.log.Info("particle field stopped",
		zap.Uint64("ticks", s.tickCount),
		zap.Uint64("frames", s.frameCount),
	)
}

// OnResize propagates a surface size change. Particle positions are left
// where they are unless ClampOnResize is set.
func (s *Simulator) OnResize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := s.surface.Resize(width, height); err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}

	s.width, s.height = float64(width), float64(height)
	if s.cfg.ClampOnResize {
		for i := range s.particles {
			p := &s.particles[i]
			p.Pos.X = clamp(p.Pos.X, 0, s.width)
			p.Pos.Y = clamp(p.Pos.Y, 0, s.height)
		}
	}
	for _, l := range s.layers {
		if r, ok := l.(Resizer); ok {
			r.Resize(s.width, s.height)
		}
	}

	s.log.Debug("surface resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (s *Simulator) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped {
		return
	}
	s.tickCount++

	s.integrate()

	ptr, hasPtr := r2.Vec{}, false
	if s.pointer != nil {
		ptr, hasPtr = s.pointer.Latest()
	}
	if hasPtr && every(s.tickCount, s.cfg.AttractEvery) {
		s.attract(ptr)
	}

	for _, l := range s.layers {
		l.Step(s.tickCount, ptr, hasPtr)
	}
	for _, o := range s.observers {
		o.OnTick(s.tickCount, s.particles)
	}

	if every(s.tickCount, s.cfg.RenderEvery) {
		s.frameCount++
		s.draw(every(s.frameCount, s.cfg.LinkEvery))
	}
}

// integrate advances every particle one tick and reflects the velocity of
// each axis whose bound the new position lies outside of.
func (s *Simulator) integrate() {
	for i := range s.particles {
		p := &s.particles[i]
		p.Pos = r2.Add(p.Pos, p.Vel)

		if p.Pos.X < 0 || p.Pos.X > s.width {
			p.Vel.X = -p.Vel.X
		}
		if p.Pos.Y < 0 || p.Pos.Y > s.height {
			p.Vel.Y = -p.Vel.Y
		}
	}
}

func (s *Simulator) attract(ptr r2.Vec) {
	radius, soft := s.cfg.AttractRadius, s.cfg.Softening
	if soft == 0 {
		return
	}
	for i := range s.particles {
		p := &s.particles[i]
		delta := r2.Sub(ptr, p.Pos)
		d := r2.Norm(delta)
		if d >= radius {
			continue
		}
		p.Vel = r2.Add(p.Vel, r2.Scale((radius-d)/soft, delta))
	}
}

// Draw renders the current state. It does not mutate particles, so repeated
// calls emit identical surface commands.
func (s *Simulator) Draw(withLinks bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draw(withLinks)
}

func (s *Simulator) draw(withLinks bool) {
	s.surface.Clear()
	for _, p := range s.particles {
		s.surface.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, p.Color)
	}
	if withLinks {
		s.drawLinks()
	}
	for _, l := range s.layers {
		l.Draw(s.surface)
	}
}

func (s *Simulator) drawLinks() {
	c := s.cfg.LinkDistance
	for i := 0; i < len(s.particles); i++ {
		a := s.particles[i].Pos
		for j := i + 1; j < len(s.particles); j++ {
			b := s.particles[j].Pos
			d := r2.Norm(r2.Sub(a, b))
			if d >= c {
				continue
			}
			alpha := LinkOpacity(d, c, s.cfg.LinkAlpha)
			s.surface.StrokeLine(a.X, a.Y, b.X, b.Y, s.cfg.LinkColor, alpha, s.cfg.LinkWidth)
		}
	}
}

// Links counts the unordered pairs currently closer than the link distance.
func (s *Simulator) Links() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CountLinks(s.particles, s.cfg.LinkDistance)
}

// CountLinks counts unordered pairs of ps closer than threshold.
func CountLinks(ps []Particle, threshold float64) int {
	n := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if r2.Norm(r2.Sub(ps[i].Pos, ps[j].Pos)) < threshold {
				n++
			}
		}
	}
	return n
}

// Particles returns a copy of the particle set in creation order.
func (s *Simulator) Particles() []Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

func (s *Simulator) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickCount
}

func (s *Simulator) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameCount
}

func (s *Simulator) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Simulator) Config() Config { return s.cfg }

func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.stopped
}

func every(n uint64, k int) bool {
	if k <= 1 {
		return true
	}
	return n%uint64(k) == 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
