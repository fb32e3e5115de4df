package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pfield/internal/config"
)

var (
	menuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuArrow = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuItem  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Menu lets the user pick a preset before handing over to the live view.
type Menu struct {
	opts          Options
	presets       []string
	cursor        int
	width, height int
	live          *Model
}

func NewMenu(opts Options) *Menu {
	return &Menu{opts: opts, presets: config.ListPresets()}
}

func (m *Menu) Init() tea.Cmd { return nil }

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m, m.start()
		}
	}
	return m, nil
}

func (m *Menu) start() tea.Cmd {
	name := m.presets[m.cursor]
	opts := m.opts
	opts.Config = config.GetPreset(name)
	opts.Preset = name
	if m.opts.Config != nil {
		opts.Config.Host = m.opts.Config.Host
	}
	live := NewModel(opts)
	if m.width > 0 {
		next, _ := live.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		live = next.(Model)
	}
	m.live = &live
	return live.Init()
}

func (m *Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("PFIELD") + "\n    " + menuSub.Render("particle field") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := config.PresetDescriptions[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuArrow.Render("▸"), menuItem.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(desc)))
		}
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" select  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

// RunMenu shows the preset picker, then the chosen field.
func RunMenu(opts Options) error {
	return run(NewMenu(opts), opts)
}
