package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pfield/internal/clock"
	"github.com/san-kum/pfield/internal/field"
	"github.com/san-kum/pfield/internal/metrics"
	"github.com/san-kum/pfield/internal/pointer"
	"github.com/san-kum/pfield/internal/surface"
)

var ErrNoTicks = errors.New("session: ticks must be positive")

// Config describes a headless run: a field advanced Ticks times on a driven
// clock, optionally chased by a pointer circling the centre.
type Config struct {
	Field  field.Config
	Width  int
	Height int
	Count  int
	Ticks  int
	// SampleEvery controls how often particle snapshots and metric history
	// are taken; 0 disables snapshots.
	SampleEvery int
	Orbit       bool
	OrbitStep   float64
	// FPS paces the session in real time on a clock.Ticker when positive.
	// Zero advances a driven clock as fast as possible.
	FPS    int
	Logger *zap.Logger
}

type Frame struct {
	Tick      uint64           `json:"tick"`
	Particles []field.Particle `json:"particles"`
}

type Result struct {
	Seed         int64              `json:"seed"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	Count        int                `json:"count"`
	Ticks        uint64             `json:"ticks"`
	Rendered     uint64             `json:"rendered"`
	Links        int                `json:"links"`
	// LinkDistance is the threshold Links was counted with.
	LinkDistance float64            `json:"link_distance"`
	Elapsed      time.Duration      `json:"elapsed"`
	Samples      []Frame            `json:"samples"`
	Metrics      map[string]float64 `json:"metrics"`
	History      []metrics.Sample   `json:"history"`
	LastFrame    []surface.Command  `json:"last_frame"`
}

type sampler struct {
	every  uint64
	frames []Frame
}

func (s *sampler) OnTick(tick uint64, ps []field.Particle) {
	if s.every == 0 || tick%s.every != 0 {
		return
	}
	s.frames = append(s.frames, Frame{Tick: tick, Particles: append([]field.Particle(nil), ps...)})
}

// Run drives one session to completion. On cancellation it returns the
// partial result together with the context error.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Ticks <= 0 {
		return nil, ErrNoTicks
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Field.Seed == 0 {
		cfg.Field.Seed = time.Now().UnixNano()
	}

	rec := surface.NewRecorder()
	w, h := float64(cfg.Width), float64(cfg.Height)

	var ptr field.Pointer
	if cfg.Orbit {
		step := cfg.OrbitStep
		if step == 0 {
			step = 0.02
		}
		ptr = pointer.NewOrbit(w/2, h/2, math.Min(w, h)/4, step)
	}

	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}
	mrec := metrics.NewRecorder(every, 0, metrics.Standard(cfg.Field, w, h)...)
	smp := &sampler{every: uint64(max(cfg.SampleEvery, 0))}

	var (
		clk    field.Clock
		driven *clock.Driven
		ticker *clock.Ticker
	)
	if cfg.FPS > 0 {
		ticker = clock.NewTicker(cfg.FPS)
		clk = ticker
	} else {
		driven = clock.NewDriven()
		clk = driven
	}

	sim := field.New(rec, clk, ptr, cfg.Field,
		field.WithLogger(log),
		field.WithObserver(mrec),
		field.WithObserver(smp),
	)
	if err := sim.Start(cfg.Width, cfg.Height, cfg.Count); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	defer sim.Stop()

	start := time.Now()
	var runErr error
	if ticker != nil {
		runErr = pace(ctx, ticker, sim, cfg.Ticks)
	} else {
	loop:
		for i := 0; i < cfg.Ticks; i++ {
			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				break loop
			default:
			}
			driven.Advance()
		}
	}

	result := &Result{
		Seed:         cfg.Field.Seed,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Count:        cfg.Count,
		Ticks:        sim.Ticks(),
		Rendered:     sim.Frames(),
		Links:        sim.Links(),
		LinkDistance: cfg.Field.LinkDistance,
		Elapsed:      time.Since(start),
		Samples:      smp.frames,
		Metrics:      mrec.Values(),
		History:      mrec.History(),
		LastFrame:    rec.LastFrame(),
	}
	log.Debug("session finished",
		zap.Int64("seed", result.Seed),
		zap.Uint64("ticks", result.Ticks),
		zap.Duration("elapsed", result.Elapsed),
		zap.Error(runErr),
	)
	return result, runErr
}

// pace lets the ticker run until the simulator has seen n ticks. The counter
// is registered after the simulator, so it stops it on the nth tick before
// the ticker can fire again.
func pace(ctx context.Context, t *clock.Ticker, sim *field.Simulator, n int) error {
	done := make(chan struct{})
	seen := 0
	var cancel func()
	cancel = t.Schedule(func() {
		seen++
		if seen == n {
			sim.Stop()
			cancel()
			close(done)
		}
	})
	t.Start()
	defer t.Close()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Bench runs one session per seed in parallel and returns the results in
// seed order. The first failure cancels the rest.
func Bench(ctx context.Context, cfg Config, seeds []int64) ([]*Result, error) {
	results := make([]*Result, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			c := cfg
			c.Field.Seed = seed
			res, err := Run(ctx, c)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
