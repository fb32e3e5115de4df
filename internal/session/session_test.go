package session

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/san-kum/pfield/internal/field"
)

func testConfig() Config {
	fc := field.DefaultConfig()
	fc.Seed = 7
	return Config{
		Field:       fc,
		Width:       320,
		Height:      200,
		Count:       30,
		Ticks:       120,
		SampleEvery: 30,
	}
}

func TestRun(t *testing.T) {
	g := gomega.NewWithT(t)

	res, err := Run(context.Background(), testConfig())
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(res.Ticks).To(gomega.Equal(uint64(120)))
	g.Expect(res.Rendered).To(gomega.Equal(uint64(60)))
	g.Expect(res.Samples).To(gomega.HaveLen(4))
	g.Expect(res.Samples[0].Particles).To(gomega.HaveLen(30))
	g.Expect(res.History).To(gomega.HaveLen(4))
	g.Expect(res.Metrics).To(gomega.HaveKey("mean_speed"))
	g.Expect(res.Seed).To(gomega.Equal(int64(7)))
	g.Expect(res.LinkDistance).To(gomega.Equal(field.DefaultConfig().LinkDistance))
	g.Expect(res.LastFrame).NotTo(gomega.BeEmpty())
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Orbit = true

	a, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	last := len(a.Samples) - 1
	for i := range a.Samples[last].Particles {
		if a.Samples[last].Particles[i].Pos != b.Samples[last].Particles[i].Pos {
			t.Fatalf("particle %d diverged between identical runs", i)
		}
	}
}

func TestRunRealtime(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.FPS = 1000
	cfg.Ticks = 20
	cfg.SampleEvery = 10

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 20 {
		t.Errorf("expected exactly 20 ticks, got %d", res.Ticks)
	}
	if len(res.Samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(res.Samples))
	}
}

func TestRunRealtimeCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig()
	cfg.FPS = 10
	if _, err := Run(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSamplesSnapshots(t *testing.T) {
	cfg := testConfig()
	cfg.SampleEvery = 10
	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	first, second := res.Samples[0].Particles, res.Samples[1].Particles
	if first[0].Pos == second[0].Pos {
		t.Error("snapshots should not alias the live particle slice")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"no ticks", func(c *Config) { c.Ticks = 0 }, ErrNoTicks},
		{"bad size", func(c *Config) { c.Width = 0 }, field.ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			if _, err := Run(context.Background(), cfg); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Ticks != 0 {
		t.Errorf("expected empty partial result, got %+v", res)
	}
}

func TestBench(t *testing.T) {
	g := gomega.NewWithT(t)
	cfg := testConfig()
	cfg.SampleEvery = 0

	seeds := []int64{1, 2, 3, 4}
	res, err := Bench(context.Background(), cfg, seeds)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(res).To(gomega.HaveLen(4))
	for i, r := range res {
		g.Expect(r.Seed).To(gomega.Equal(seeds[i]))
		g.Expect(r.Samples).To(gomega.BeEmpty())
	}

	cfg.Ticks = 0
	_, err = Bench(context.Background(), cfg, seeds)
	g.Expect(err).To(gomega.MatchError(ErrNoTicks))
}
