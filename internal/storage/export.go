package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/pfield/internal/session"
)

type ExportData struct {
	Run     RunMetadata     `json:"run"`
	Samples []session.Frame `json:"samples,omitempty"`
	Rows    []exportRow     `json:"rows,omitempty"`
}

type exportRow struct {
	Tick uint64  `json:"tick"`
	I    int     `json:"i"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
}

// ExportJSON writes a stored run, metadata and frames, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rows, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Rows: make([]exportRow, len(rows))}
	for i, r := range rows {
		data.Rows[i] = exportRow{Tick: r.Tick, I: r.I, X: r.Pos.X, Y: r.Pos.Y, VX: r.Vel.X, VY: r.Vel.Y}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportFile is ExportJSON into a new file at path.
func (s *Store) ExportFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}

// ExportResult writes an unsaved session result directly.
func ExportResult(w io.Writer, result *session.Result) error {
	data := ExportData{
		Run: RunMetadata{
			Seed:     result.Seed,
			Width:    result.Width,
			Height:   result.Height,
			Count:    result.Count,
			Ticks:    result.Ticks,
			Rendered: result.Rendered,
			Links:    result.Links,
			Metrics:  result.Metrics,
		},
		Samples: result.Samples,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
