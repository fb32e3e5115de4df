package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pfield/internal/config"
	"github.com/san-kum/pfield/internal/session"
	"github.com/san-kum/pfield/internal/storage"
	"github.com/san-kum/pfield/internal/surface"
)

func sessionConfig(cmd *cobra.Command) (session.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return session.Config{}, err
	}
	scfg := session.Config{
		Field:       cfg.FieldConfig(),
		Width:       cfg.Field.Width,
		Height:      cfg.Field.Height,
		Count:       cfg.Field.Count,
		Ticks:       ticks,
		SampleEvery: sampleEvery,
		Orbit:       orbit,
		Logger:      logger,
	}
	if realtime {
		scfg.FPS = cfg.Host.FPS
	}
	return scfg, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	scfg, err := sessionConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d particles for %d ticks on %dx%d...\n", scfg.Count, scfg.Ticks, scfg.Width, scfg.Height)
	result, err := session.Run(ctx, scfg)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted after %d ticks\n", result.Ticks)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	runID, err := st.Save(preset, result)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("run saved", zap.String("id", runID), zap.Int("samples", len(result.Samples)))

	fmt.Printf("run saved: %s\n", runID)
	fmt.Printf("seed: %d\n", result.Seed)
	fmt.Printf("ticks: %d (%d rendered) in %s\n", result.Ticks, result.Rendered, result.Elapsed.Round(time.Microsecond))
	fmt.Printf("links: %d\n", result.Links)
	for _, name := range []string{"mean_speed", "max_speed", "kinetic_energy", "out_of_bounds", "links"} {
		if v, ok := result.Metrics[name]; ok {
			fmt.Printf("  %-15s %.4f\n", name, v)
		}
	}
	return nil
}

func benchSessions(cmd *cobra.Command, args []string) error {
	scfg, err := sessionConfig(cmd)
	if err != nil {
		return err
	}
	if seeds < 1 {
		return fmt.Errorf("--seeds must be positive, got %d", seeds)
	}
	scfg.SampleEvery = 0

	base := scfg.Field.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	list := make([]int64, seeds)
	for i := range list {
		list[i] = base + int64(i)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("benchmarking %d seeds, %d particles, %d ticks\n\n", seeds, scfg.Count, scfg.Ticks)
	start := time.Now()
	results, err := session.Bench(ctx, scfg, list)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tFRAMES\tLINKS\tMEAN SPEED\tENERGY\tTIME")
	fmt.Fprintln(w, "----\t-----\t------\t-----\t----------\t------\t----")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.4f\t%.2f\t%s\n",
			r.Seed, r.Ticks, r.Rendered, r.Links,
			r.Metrics["mean_speed"], r.Metrics["kinetic_energy"],
			r.Elapsed.Round(time.Microsecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nwall time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	scfg, err := sessionConfig(cmd)
	if err != nil {
		return err
	}
	scfg.SampleEvery = 0

	result, err := session.Run(context.Background(), scfg)
	if err != nil {
		return err
	}

	svg := surface.NewSVG()
	if err := svg.Resize(result.Width, result.Height); err != nil {
		return err
	}
	if err := surface.Replay(svg, result.LastFrame); err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := svg.WriteTo(out); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Printf("wrote %s (seed %d)\n", outPath, result.Seed)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSIZE\tCOUNT\tTICKS\tLINKS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Count,
			run.Ticks,
			run.Links,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	threshold := meta.Threshold()
	sampled, speed, links := storage.SampleStats(rows, threshold)
	if len(sampled) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d (ticks %d..%d)\n\n", len(sampled), sampled[0], sampled[len(sampled)-1])

	for _, p := range []struct {
		data    []float64
		caption string
	}{
		{speed, "mean speed per sample"},
		{links, fmt.Sprintf("links under %.0fpx per sample", threshold)},
	} {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rows, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"tick", "i", "x", "y", "vx", "vy"})
	for _, r := range rows {
		w.Write([]string{
			strconv.FormatUint(r.Tick, 10),
			strconv.Itoa(r.I),
			strconv.FormatFloat(r.Pos.X, 'f', 4, 64),
			strconv.FormatFloat(r.Pos.Y, 'f', 4, 64),
			strconv.FormatFloat(r.Vel.X, 'f', 4, 64),
			strconv.FormatFloat(r.Vel.Y, 'f', 4, 64),
		})
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath != "" {
		if err := st.ExportFile(outPath, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], outPath)
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOUNT\tBAND\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, p.Field.Count, p.Palette.Band, config.PresetDescriptions[name])
	}
	return w.Flush()
}
