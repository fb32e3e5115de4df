package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/pfield/internal/config"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Field.Seed = 5
	cfg.Field.Count = 12
	cfg.Effects.Burst.Enabled = true
	return NewModel(Options{Config: cfg, GIFPath: t.TempDir() + "/out.gif"})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestWindowSizeStartsField(t *testing.T) {
	m := testModel(t)
	if m.View() == "" || m.started {
		t.Fatal("model should wait for a size")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 40, Height: 20})
	if !m.started {
		t.Fatalf("expected field started, status %q", m.status)
	}
	w, h := m.scene.Sim.Size()
	// 40 cells * 2 dots * scale 4, 20 rows * 4 dots * scale 4
	if w != 320 || h != 320 {
		t.Errorf("expected 320x320 surface, got %.0fx%.0f", w, h)
	}
	if m.canvas.Width != 40 || m.canvas.Height != 20 {
		t.Errorf("expected 40x20 cells, got %dx%d", m.canvas.Width, m.canvas.Height)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 20, Height: 10})
	if w, _ := m.scene.Sim.Size(); w != 160 {
		t.Errorf("expected resize to 160 wide, got %.0f", w)
	}
}

func TestFramesAdvanceClock(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 40, Height: 20})

	var cmd tea.Cmd
	for i := 0; i < 4; i++ {
		m, cmd = update(t, m, frameMsg(time.Now()))
	}
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if m.scene.Sim.Ticks() != 4 || m.scene.Sim.Frames() != 2 {
		t.Errorf("expected 4 ticks and 2 frames, got %d and %d", m.scene.Sim.Ticks(), m.scene.Sim.Frames())
	}
	if m.canvas.Dots() == 0 {
		t.Error("expected particles on the canvas")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, frameMsg(time.Now()))
	if m.scene.Sim.Ticks() != 4 {
		t.Error("paused model should not tick")
	}
}

func TestMouseFeedsPointer(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 40, Height: 20})

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion})
	p, ok := m.tracker.Latest()
	if !ok || p != (r2.Vec{X: 84, Y: 88}) {
		t.Errorf("expected pointer at (84, 88), got %v %v", p, ok)
	}

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.scene.Burst.Live() == 0 {
		t.Error("expected click to fire a burst")
	}

	m, _ = update(t, m, tea.MouseMsg{X: 45, Y: 5, Action: tea.MouseActionMotion})
	if _, ok := m.tracker.Latest(); ok {
		t.Error("pointer over the panel should be unknown")
	}
}

func TestKeys(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 40, Height: 20})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.theme != 1 || m.cfg.Palette.Band != Themes[1].Band {
		t.Errorf("expected theme %s, got %d", Themes[1].Name, m.theme)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	for i := 0; i < 4; i++ {
		m, _ = update(t, m, frameMsg(time.Now()))
	}
	if m.gif.Len() != 2 {
		t.Errorf("expected 2 captured frames, got %d", m.gif.Len())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if m.recording || !strings.HasPrefix(m.status, "saved") {
		t.Errorf("expected recording saved, status %q", m.status)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !m.started || m.scene.Sim.Ticks() != 0 {
		t.Error("restart should begin a new field")
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestReloadAndHelp(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 40, Height: 20})

	cfg := config.GetPreset("sparse")
	cfg.Field.Seed = 8
	m, _ = update(t, m, reloadMsg{cfg: cfg})
	if m.status != "config reloaded" || len(m.scene.Sim.Particles()) != 25 {
		t.Errorf("expected sparse field after reload, got %d particles (%q)", len(m.scene.Sim.Particles()), m.status)
	}
	if m.scene.Shapes == nil {
		t.Error("reloaded effects should be wired")
	}

	short := m.View()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.help.ShowAll || !strings.Contains(m.View(), "gif") || strings.Contains(short, "gif") {
		t.Error("? should expand the key help")
	}
}

func TestViewShowsStats(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 40, Height: 20})
	for i := 0; i < 20; i++ {
		m, _ = update(t, m, frameMsg(time.Now()))
	}
	view := m.View()
	for _, want := range []string{"PARTICLE FIELD", "Particles", "mean speed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMenuHandsOverToLive(t *testing.T) {
	menu := NewMenu(Options{})
	menu.Update(tea.WindowSizeMsg{Width: panelWidth + 40, Height: 20})
	menu.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := menu.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if menu.live == nil || cmd == nil {
		t.Fatal("expected live model after selecting a preset")
	}
	if menu.live.preset != menu.presets[1] {
		t.Errorf("expected preset %s, got %s", menu.presets[1], menu.live.preset)
	}
	if !menu.live.started {
		t.Error("live model should inherit the terminal size")
	}
}
