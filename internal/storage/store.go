package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/field"
	"github.com/san-kum/pfield/internal/session"
)

var ErrNotFound = errors.New("storage: run not found")

var framesHeader = []string{"tick", "i", "x", "y", "vx", "vy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Preset       string             `json:"preset"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	Count        int                `json:"count"`
	Ticks        uint64             `json:"ticks"`
	Rendered     uint64             `json:"rendered"`
	Links        int                `json:"links"`
	// LinkDistance is the field's link threshold; zero in runs saved
	// before it was recorded.
	LinkDistance float64            `json:"link_distance,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
}

// FrameRow is one particle of one sampled tick.
type FrameRow struct {
	Tick uint64
	I    int
	Pos  r2.Vec
	Vel  r2.Vec
}

// Save writes metadata.json and frames.csv for a finished session under a
// fresh run directory and returns the run id.
func (s *Store) Save(preset string, result *session.Result) (string, error) {
	now := time.Now()
	if preset == "" {
		preset = "custom"
	}
	runID := fmt.Sprintf("%s_%d", preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Preset:       preset,
		Timestamp:    now,
		Seed:         result.Seed,
		Width:        result.Width,
		Height:       result.Height,
		Count:        result.Count,
		Ticks:        result.Ticks,
		Rendered:     result.Rendered,
		Links:        result.Links,
		LinkDistance: result.LinkDistance,
		Metrics:      result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(framesHeader); err != nil {
		return "", err
	}
	for _, f := range result.Samples {
		tick := strconv.FormatUint(f.Tick, 10)
		for i, p := range f.Particles {
			row := []string{
				tick,
				strconv.Itoa(i),
				strconv.FormatFloat(p.Pos.X, 'f', 6, 64),
				strconv.FormatFloat(p.Pos.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Vel.X, 'f', 6, 64),
				strconv.FormatFloat(p.Vel.Y, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads frames.csv back, skipping malformed rows.
func (s *Store) LoadFrames(runID string) ([]FrameRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameRow{}, nil
	}

	rows := make([]FrameRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(framesHeader) {
			continue
		}
		tick, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			continue
		}
		i, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		var vals [4]float64
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+2], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		rows = append(rows, FrameRow{
			Tick: tick,
			I:    i,
			Pos:  r2.Vec{X: vals[0], Y: vals[1]},
			Vel:  r2.Vec{X: vals[2], Y: vals[3]},
		})
	}
	return rows, nil
}

// Series groups frame rows into per-tick position slices, ordered by tick.
func Series(rows []FrameRow) ([]uint64, [][]r2.Vec) {
	byTick := make(map[uint64][]r2.Vec)
	for _, row := range rows {
		ps := byTick[row.Tick]
		for len(ps) <= row.I {
			ps = append(ps, r2.Vec{})
		}
		ps[row.I] = row.Pos
		byTick[row.Tick] = ps
	}
	ticks := make([]uint64, 0, len(byTick))
	for t := range byTick {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	frames := make([][]r2.Vec, len(ticks))
	for i, t := range ticks {
		frames[i] = byTick[t]
	}
	return ticks, frames
}

// Threshold is the link distance the run was simulated with.
func (m *RunMetadata) Threshold() float64 {
	if m.LinkDistance > 0 {
		return m.LinkDistance
	}
	return field.DefaultConfig().LinkDistance
}

// SampleStats computes mean speed and link count for every sampled tick.
func SampleStats(rows []FrameRow, threshold float64) (ticks []uint64, speed, links []float64) {
	sums := make(map[uint64]float64)
	for _, r := range rows {
		sums[r.Tick] += r2.Norm(r.Vel)
	}

	ticks, positions := Series(rows)
	speed = make([]float64, len(ticks))
	links = make([]float64, len(ticks))
	for i, tick := range ticks {
		ps := make([]field.Particle, len(positions[i]))
		for j, pos := range positions[i] {
			ps[j].Pos = pos
		}
		if len(ps) > 0 {
			speed[i] = sums[tick] / float64(len(ps))
		}
		links[i] = float64(field.CountLinks(ps, threshold))
	}
	return ticks, speed, links
}
