package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 36

type styles struct {
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	rec      lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	sparkHi  lipgloss.Style
	sparkMid lipgloss.Style
	sparkLo  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(panelWidth - 1),
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		graph:    lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:  lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		rec:      lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		dim:      lipgloss.NewStyle().Foreground(t.Muted),
		sparkHi:  lipgloss.NewStyle().Foreground(t.Primary),
		sparkMid: lipgloss.NewStyle().Foreground(t.Secondary),
		sparkLo:  lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// sparkline renders the last width values as block characters scaled
// between their min and max.
func (st styles) sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return st.dim.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		c := string(chars[int(norm*float64(len(chars)-1))])
		switch {
		case norm > 0.7:
			b.WriteString(st.sparkHi.Render(c))
		case norm > 0.3:
			b.WriteString(st.sparkMid.Render(c))
		default:
			b.WriteString(st.sparkLo.Render(c))
		}
	}
	return b.String()
}

// bar renders a fill gauge for ratio in [0, 1].
func bar(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
