package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/genviz/internal/catalog"
	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/resources"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 42
	historyCapacity = 600
	maxRecorded     = 240
	// Each braille dot samples a 2x2 block of the scene surface.
	oversample = 2
)

type TickMsg time.Time

// Deps bundles what the preview needs to build and persist scenes.
type Deps struct {
	Catalog   *catalog.Registry
	Config    *config.Config
	Resources *resources.Registry
	// Store receives recordings. A nil store disables the G key.
	Store *storage.Store
	Log   *logrus.Entry
}

// Model drives one scene at a time inside the terminal.
type Model struct {
	deps          Deps
	names         []string
	index         int
	sc            scene.Scene
	vp            dynamo.Viewport
	width, height int
	canvas        *Canvas
	running       bool
	frame         uint64
	frameMS       []float64
	budget        *metrics.Budget
	recording     bool
	recorded      []*image.RGBA
	recordedMS    []float64
	status        string
	showHelp      bool
	quitting      bool
}

// NewModel builds the named scene at the default terminal size.
func NewModel(deps Deps, name string) (Model, error) {
	if deps.Log == nil {
		deps.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if deps.Resources == nil {
		deps.Resources = resources.Default()
	}
	m := Model{
		deps:    deps,
		names:   ordered(deps.Catalog),
		width:   width,
		height:  height,
		canvas:  NewCanvas(width, height),
		running: deps.Config.Running,
		frameMS: make([]float64, 0, historyCapacity),
		budget:  metrics.NewBudget(deps.Config.FPS),
	}
	m.vp = m.viewport()
	m.index = m.indexOf(name)
	if m.index < 0 {
		return m, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownScene)
	}
	if err := m.load(m.index); err != nil {
		return m, err
	}
	return m, nil
}

func (m *Model) indexOf(name string) int {
	for i, n := range m.names {
		if n == name {
			return i
		}
	}
	return -1
}

func (m *Model) viewport() dynamo.Viewport {
	return dynamo.NewViewport(float64(m.width*2*oversample), float64(m.height*4*oversample), 1)
}

// Scene returns the scene currently on screen.
func (m Model) Scene() scene.Scene { return m.sc }

// load swaps in a freshly built scene. On failure the old one stays.
func (m *Model) load(i int) error {
	name := m.names[i]
	next, err := m.deps.Catalog.New(name, m.deps.Config, m.deps.Resources, m.deps.Log)
	if err != nil {
		return err
	}
	next.SetRunning(m.running)
	if err := next.Resize(m.vp); err != nil {
		m.deps.Log.WithError(err).WithField("scene", name).Warn("resize failed")
	}
	if m.sc != nil {
		m.sc.Release()
	}
	m.sc = next
	m.index = i
	m.frameMS = m.frameMS[:0]
	m.budget.Reset()
	m.stopRecording(false)
	return nil
}

func (m *Model) switchTo(i int) {
	n := len(m.names)
	i = ((i % n) + n) % n
	if err := m.load(i); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	fps := max(m.deps.Config.FPS, 1)
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the scene.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-6, msg.Height-4)
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.stopRecording(true)
			m.sc.Release()
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.sc.SetRunning(m.running)
		case "r":
			m.switchTo(m.index)
		case "tab", "n":
			m.switchTo(m.index + 1)
		case "shift+tab", "p":
			m.switchTo(m.index - 1)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if i := int(key[0] - '1'); i < len(m.names) {
				m.switchTo(i)
			}
		case "up", "k":
			m.drag(0, 1)
		case "down", "j":
			m.drag(0, -1)
		case "left", "h":
			m.drag(1, 0)
		case "right", "l":
			m.drag(-1, 0)
		case "+", "=":
			m.wheel(m.vp.Width/2, m.vp.Height/2, -1)
		case "-", "_":
			m.wheel(m.vp.Width/2, m.vp.Height/2, 1)
		case "enter", "b":
			m.tap(m.vp.Width/2, m.vp.Height/2)
		case "t":
			NextTheme()
		case "g":
			if m.recording {
				m.stopRecording(true)
			} else if m.deps.Store != nil {
				m.recording = true
				m.status = ""
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(cols, rows int) {
	cols, rows = max(cols, 20), max(rows, 6)
	if cols == m.width && rows == m.height {
		return
	}
	m.width, m.height = cols, rows
	m.canvas = NewCanvas(cols, rows)
	m.vp = m.viewport()
	if err := m.sc.Resize(m.vp); err != nil {
		m.status = err.Error()
	}
	m.stopRecording(false)
}

// step runs one frame and refreshes the braille canvas from the surface.
func (m *Model) step() {
	start := time.Now()
	scene.Frame(m.sc)
	elapsed := time.Since(start)
	m.frame++

	m.budget.Observe(m.sc, elapsed)
	ms := float64(elapsed) / float64(time.Millisecond)
	m.frameMS = append(m.frameMS, ms)
	if len(m.frameMS) > historyCapacity {
		m.frameMS = m.frameMS[1:]
	}

	surf := m.sc.Surface()
	m.canvas.FromSurface(surf.Image())
	if m.recording {
		if snap := surf.Snapshot(); snap != nil {
			m.recorded = append(m.recorded, snap)
			m.recordedMS = append(m.recordedMS, ms)
		}
		if len(m.recorded) >= maxRecorded {
			m.stopRecording(true)
		}
	}
}

func (m *Model) stopRecording(save bool) {
	frames, timings := m.recorded, m.recordedMS
	m.recording, m.recorded, m.recordedMS = false, nil, nil
	if !save || len(frames) == 0 || m.deps.Store == nil {
		return
	}
	cfg := m.deps.Config
	id, err := m.deps.Store.Save(&storage.Capture{
		Meta: storage.CaptureMetadata{
			Scene:      m.names[m.index],
			Seed:       cfg.Seed,
			Width:      m.vp.Width,
			Height:     m.vp.Height,
			PixelRatio: m.vp.Scale,
			FPS:        cfg.FPS,
			Metrics:    map[string]float64{m.budget.Name(): m.budget.Value()},
		},
		Frames:  frames,
		Timings: timings,
	})
	if err != nil {
		m.deps.Log.WithError(err).Error("save recording")
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + id
}

func (m *Model) pointer() (scene.PointerHandler, bool) {
	ph, ok := m.sc.(scene.PointerHandler)
	return ph, ok
}

// drag pans by an eighth of the view in the given direction.
func (m *Model) drag(dx, dy float64) {
	ph, ok := m.pointer()
	if !ok {
		return
	}
	cx, cy := m.vp.Width/2, m.vp.Height/2
	ph.PointerDown(cx, cy)
	ph.PointerMove(cx+dx*m.vp.Width/8, cy+dy*m.vp.Height/8)
	ph.PointerUp()
}

func (m *Model) wheel(x, y, deltaY float64) {
	if ph, ok := m.pointer(); ok {
		ph.Wheel(x, y, deltaY)
	}
}

func (m *Model) tap(x, y float64) {
	if ph, ok := m.pointer(); ok {
		ph.PointerDown(x, y)
		ph.PointerUp()
	}
}

// cellToLogical maps a terminal cell to surface coordinates. The canvas
// starts after the style padding of one row and two columns.
func (m *Model) cellToLogical(col, row int) (float64, float64, bool) {
	c, r := col-2, row-1
	if c < 0 || r < 0 || c >= m.width || r >= m.height {
		return 0, 0, false
	}
	x := (float64(c) + 0.5) / float64(m.width) * m.vp.Width
	y := (float64(r) + 0.5) / float64(m.height) * m.vp.Height
	return x, y, true
}

func (m *Model) mouse(msg tea.MouseMsg) {
	ph, ok := m.pointer()
	if !ok {
		return
	}
	x, y, inside := m.cellToLogical(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionRelease:
		ph.PointerUp()
	case !inside:
		return
	case msg.Button == tea.MouseButtonWheelUp:
		ph.Wheel(x, y, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		ph.Wheel(x, y, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		ph.PointerDown(x, y)
	case msg.Action == tea.MouseActionMotion:
		ph.PointerMove(x, y)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := themeStyles(CurrentTheme)
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	name := m.names[m.index]
	s.WriteString(st.header.Render(GradientText(strings.ToUpper(name), CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")
	s.WriteString(st.label.Render(m.deps.Catalog.Describe(name)) + "\n\n")

	switch {
	case m.recording:
		s.WriteString(st.recording.Render(fmt.Sprintf("%s REC %d", AnimatedSpinner(m.frame), len(m.recorded))))
	case m.running:
		s.WriteString(st.running.Render("RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.frameMS) > 1 {
		chart := asciigraph.Plot(m.frameMS, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("frame ms"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(SparklineChart(st, m.frameMS, 30) + "\n\n")

	last := 0.0
	if len(m.frameMS) > 0 {
		last = m.frameMS[len(m.frameMS)-1]
	}
	s.WriteString(st.label.Render("Frame") + st.value.Render(fmt.Sprintf("%d", m.frame)) + "\n")
	s.WriteString(st.label.Render("Last") + st.value.Render(fmt.Sprintf("%.2f ms", last)) + "\n")
	s.WriteString(st.label.Render("Budget") + ProgressBar(st, m.budget.Value(), 16) + "\n")
	s.WriteString(st.label.Render("Surface") + st.value.Render(fmt.Sprintf("%.0fx%.0f", m.vp.Width, m.vp.Height)) + "\n")
	s.WriteString(st.label.Render("Theme") + st.value.Render(CurrentTheme.Name) + "\n")
	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString("\n" + Separator(st, 30))
	s.WriteString(st.help.Render("\nSP:Pause R:Reset Q:Quit\nTAB/1-9:Scene T:Theme\nG:Record ?:Help"))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume motion      ║
║  R        - Rebuild scene            ║
║  Q        - Quit                     ║
║  Tab/N    - Next scene               ║
║  1-9      - Jump to scene            ║
║  Arrows   - Pan (fractal)            ║
║  +/-      - Zoom in/out (fractal)    ║
║  Enter    - Burst (flowfield)        ║
║  G        - Toggle recording         ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
