package viz

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/pfield/internal/clock"
	"github.com/san-kum/pfield/internal/config"
	"github.com/san-kum/pfield/internal/pointer"
	"github.com/san-kum/pfield/internal/scene"
	"github.com/san-kum/pfield/internal/surface"
)

type frameMsg time.Time

// reloadMsg carries a configuration that changed on disk.
type reloadMsg struct{ cfg *config.Config }

type Options struct {
	Config  *config.Config
	Preset  string
	Logger  *zap.Logger
	GIFPath string
	// Watcher, when set, restarts the field with each reloaded config.
	Watcher *config.Watcher
}

// Model hosts one particle field in the terminal.
type Model struct {
	cfg     *config.Config
	preset  string
	log     *zap.Logger
	gifPath string

	clock   *clock.Driven
	tracker *pointer.Tracker
	canvas  *surface.Braille
	scene   *scene.Scene
	gif     *surface.GIFRecorder

	theme      int
	st         styles
	help       help.Model
	cols, rows int
	lastFrame  uint64
	status     string

	started   bool
	running   bool
	recording bool
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gifPath := opts.GIFPath
	if gifPath == "" {
		gifPath = "pfield.gif"
	}
	theme := themeIndex(cfg.Host.Theme)

	m := Model{
		cfg:     cfg,
		preset:  opts.Preset,
		log:     log,
		gifPath: gifPath,
		clock:   clock.NewDriven(),
		tracker: pointer.NewTracker(),
		canvas:  surface.NewBraille(cfg.Host.Scale),
		gif:     surface.NewGIFRecorder(),
		theme:   theme,
		st:      newStyles(Themes[theme]),
		help:    help.New(),
		running: true,
	}
	m.scene = scene.New(cfg, m.canvas, m.clock, m.tracker, log)
	return m
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.Host.FPS), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.mouse(msg)
	case reloadMsg:
		m.cfg = msg.cfg
		m.restart()
		m.status = "config reloaded"
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.scene.Stop()
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.running = !m.running
		case key.Matches(msg, keys.Restart):
			m.restart()
		case key.Matches(msg, keys.Theme):
			m.theme = (m.theme + 1) % len(Themes)
			m.st = newStyles(Themes[m.theme])
			if m.cfg.Palette.Custom == nil {
				m.cfg.Palette.Band = Themes[m.theme].Band
			}
			m.status = "theme " + Themes[m.theme].Name + " (r to apply palette)"
		case key.Matches(msg, keys.Record):
			if m.recording {
				m.saveGIF()
				m.recording = false
			} else {
				m.gif.Reset()
				m.recording = true
				m.status = "recording"
			}
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case frameMsg:
		if m.running && m.started {
			m.clock.Advance()
			if f := m.scene.Sim.Frames(); f != m.lastFrame {
				m.lastFrame = f
				if m.recording {
					m.gif.Capture(m.canvas)
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// pixels is the logical surface size covered by the canvas cells.
func (m *Model) pixels() (int, int) {
	s := m.canvas.Scale
	return int(float64(m.cols*2) * s), int(float64(m.rows*4) * s)
}

func (m *Model) resize(termW, termH int) {
	m.cols = max(termW-panelWidth, 10)
	m.rows = max(termH, 4)
	w, h := m.pixels()

	var err error
	if m.started {
		err = m.scene.Resize(w, h)
	} else {
		err = m.scene.Start(w, h)
		m.started = err == nil
	}
	if err != nil {
		m.status = err.Error()
		m.log.Warn("resize failed", zap.Int("width", w), zap.Int("height", h), zap.Error(err))
	}
}

// mouse maps a terminal cell to the centre of its dot block.
func (m *Model) mouse(msg tea.MouseMsg) {
	if msg.X < 0 || msg.X >= m.cols || msg.Y < 0 || msg.Y >= m.rows {
		m.tracker.Leave()
		return
	}
	s := m.canvas.Scale
	x := (float64(msg.X) + 0.5) * 2 * s
	y := (float64(msg.Y) + 0.5) * 4 * s
	m.tracker.Move(x, y)
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.scene.Click(x, y)
	}
}

func (m *Model) restart() {
	m.scene.Stop()
	m.scene = scene.New(m.cfg, m.canvas, m.clock, m.tracker, m.log)
	m.started, m.lastFrame = false, 0
	if m.cols > 0 {
		w, h := m.pixels()
		if err := m.scene.Start(w, h); err != nil {
			m.status = err.Error()
			return
		}
		m.started = true
	}
	m.status = "restarted"
}

func (m *Model) saveGIF() {
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := m.gif.Encode(f); err != nil {
		m.status = err.Error()
		return
	}
	m.log.Info("gif saved", zap.String("path", m.gifPath), zap.Int("frames", m.gif.Len()))
	m.status = fmt.Sprintf("saved %s (%d frames)", m.gifPath, m.gif.Len())
}

func (m Model) View() string {
	if !m.started {
		return m.st.dim.Render("waiting for terminal size...")
	}
	canvasView := strings.TrimSuffix(m.canvas.String(), "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(m.stats()))
}

func (m Model) stats() string {
	var s strings.Builder
	title := "PARTICLE FIELD"
	if m.preset != "" {
		title += " · " + strings.ToUpper(m.preset)
	}
	s.WriteString(m.st.header.Render(title) + "\n")

	switch {
	case m.recording:
		s.WriteString(m.st.rec.Render(fmt.Sprintf("● REC %d", m.gif.Len())))
	case m.running:
		s.WriteString(m.st.running.Render("RUNNING"))
	default:
		s.WriteString(m.st.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	sim := m.scene.Sim
	last := m.scene.Metrics.Last()
	n := len(sim.Particles())
	w, h := sim.Size()
	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Size", fmt.Sprintf("%.0fx%.0f", w, h))
	row("Particles", fmt.Sprintf("%d", n))
	row("Ticks", fmt.Sprintf("%d", sim.Ticks()))
	row("Frames", fmt.Sprintf("%d", sim.Frames()))
	row("Links", fmt.Sprintf("%.0f", last["links"]))
	row("Mean speed", fmt.Sprintf("%.3f", last["mean_speed"]))
	row("Max speed", fmt.Sprintf("%.3f", last["max_speed"]))
	row("Energy", fmt.Sprintf("%.1f", last["kinetic_energy"]))
	row("Outside", fmt.Sprintf("%.0f", last["out_of_bounds"]))

	if pairs := n * (n - 1) / 2; pairs > 0 {
		row("Density", bar(last["links"]/float64(pairs), 14))
	}

	if speeds := m.scene.Metrics.Series("mean_speed"); len(speeds) > 1 {
		chart := asciigraph.Plot(speeds,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-14),
			asciigraph.Caption("mean speed"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}
	s.WriteString(m.st.label.Render("Links") + m.st.sparkline(m.scene.Metrics.Series("links"), panelWidth-18) + "\n")

	if m.status != "" {
		s.WriteString("\n" + m.st.selected.Render(m.status) + "\n")
	}
	s.WriteString(m.st.help.Render(m.help.View(keys)))
	return s.String()
}

// Run hosts the field until the user quits.
func Run(opts Options) error {
	return run(NewModel(opts), opts)
}

func run(model tea.Model, opts Options) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if w := opts.Watcher; w != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx, func(cfg *config.Config) { p.Send(reloadMsg{cfg: cfg}) })
	}
	_, err := p.Run()
	return err
}
