package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/genviz/internal/catalog"
	"github.com/san-kum/genviz/internal/config"
)

const (
	stateMenu = iota
	statePreset
	stateLive
)

const defaultPreset = "(default)"

// app is the picker shown before the live preview: scene, then preset.
type app struct {
	deps          Deps
	state         int
	cursor        int
	scenes        []string
	selected      string
	presets       []string
	presetCursor  int
	width, height int
	live          Model
	err           error
}

func NewInteractiveApp(deps Deps) *app {
	return &app{deps: deps, state: stateMenu, scenes: ordered(deps.Catalog)}
}

// ordered lists the registered scenes in display order, then any extras.
func ordered(cat *catalog.Registry) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	all := cat.List()
	for _, n := range all {
		seen[n] = true
	}
	for _, n := range catalog.Order {
		if seen[n] {
			names = append(names, n)
			delete(seen, n)
		}
	}
	for _, n := range all {
		if seen[n] {
			names = append(names, n)
		}
	}
	return names
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		if size, ok := msg.(tea.WindowSizeMsg); ok {
			m.width, m.height = size.Width, size.Height
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		return m.presetKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.scenes[m.cursor]
		m.presets = append([]string{defaultPreset}, config.ListPresets(m.selected)...)
		m.state, m.presetCursor, m.err = statePreset, 0, nil
	}
	return m, nil
}

func (m app) presetKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case "down", "j":
		if m.presetCursor < len(m.presets)-1 {
			m.presetCursor++
		}
	case "enter", " ", "s":
		return m.start()
	}
	return m, nil
}

func (m app) start() (app, tea.Cmd) {
	cfg := *m.deps.Config
	if p := m.presets[m.presetCursor]; p != defaultPreset {
		config.ApplyPreset(&cfg, m.selected, p)
	}
	cfg.Scene = m.selected
	deps := m.deps
	deps.Config = &cfg

	live, err := NewModel(deps, m.selected)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state = live, stateLive
	cmds := []tea.Cmd{m.live.Init()}
	if m.width > 0 {
		w, h := m.width, m.height
		cmds = append(cmds, func() tea.Msg { return tea.WindowSizeMsg{Width: w, Height: h} })
	}
	return m, tea.Batch(cmds...)
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePreset:
		return m.viewPresets()
	}
	return m.live.View()
}

func (m app) list(title, subtitle string, items []string, cursor int, describe func(string) string) string {
	t := CurrentTheme
	h := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.Muted)
	pointer := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	active := lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.Secondary)

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render(title) + "\n    " + sub.Render(subtitle) + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range items {
		d := describe(name)
		if i == cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pointer.Render("▸"), active.Render(fmt.Sprintf("%-12s", name)), desc.Render(d)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-12s", name)), sub.Render(d)))
		}
	}
	return b.String()
}

func (m app) viewMenu() string {
	s := m.list("GENVIZ", "generative backdrops", m.scenes, m.cursor, m.deps.Catalog.Describe)
	return s + "\n    " + KeyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n"
}

func (m app) viewPresets() string {
	s := m.list(strings.ToUpper(m.selected), m.deps.Catalog.Describe(m.selected), m.presets, m.presetCursor, func(string) string { return "" })
	if m.err != nil {
		s += "\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n"
	}
	return s + "\n    " + KeyHints("j/k", "select", "enter", "start", "esc", "back") + "\n"
}

// KeyHints renders alternating key/action pairs.
func KeyHints(pairs ...string) string {
	key := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
	action := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(key.Render(pairs[i]) + action.Render(" "+pairs[i+1]+"  "))
	}
	return strings.TrimRight(b.String(), " ")
}

// RunInteractive opens the picker. Extra options are passed to the program.
func RunInteractive(deps Deps, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(NewInteractiveApp(deps), opts...).Run()
	return err
}

// Run opens the live preview directly on the named scene.
func Run(deps Deps, name string, opts ...tea.ProgramOption) error {
	m, err := NewModel(deps, name)
	if err != nil {
		return err
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	_, err = tea.NewProgram(m, opts...).Run()
	return err
}
