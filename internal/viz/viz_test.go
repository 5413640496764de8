package viz

import (
	"errors"
	"image"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/genviz/internal/catalog"
	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/fractal"
	"github.com/san-kum/genviz/internal/resources"
	"github.com/san-kum/genviz/internal/storage"
)

func deps(t *testing.T) Deps {
	t.Helper()
	cfg := config.DefaultConfig()
	return Deps{
		Catalog:   catalog.NewRegistry(),
		Config:    cfg,
		Resources: resources.New(""),
		Store:     storage.New(t.TempDir()),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestBrailleBit(t *testing.T) {
	if BrailleBit(0, 0) != 0x1 || BrailleBit(1, 3) != 0x80 {
		t.Error("unexpected dot masks")
	}
}

func TestFromSurfaceDark(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 8))
	// one bright pixel on black
	i := img.PixOffset(0, 0)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 255

	c := NewCanvas(2, 2)
	c.FromSurface(img)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[1][1] != 0x2800 {
		t.Errorf("dark cell lit: %U", c.Grid[1][1])
	}
}

func TestFromSurfaceInvertsBright(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 8))
	for p := range img.Pix {
		img.Pix[p] = 255
	}
	i := img.PixOffset(3, 7)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 0, 0, 0

	c := NewCanvas(2, 2)
	c.FromSurface(img)
	if c.Grid[1][1] != 0x2880 {
		t.Errorf("ink cell = %U, want U+2880", c.Grid[1][1])
	}
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("paper cell lit: %U", c.Grid[0][0])
	}
}

func TestFromSurfaceNil(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.FromSurface(nil)
	if c.Grid[0][0] != 0x2800 {
		t.Error("canvas not cleared")
	}
}

func TestNewModelUnknownScene(t *testing.T) {
	if _, err := NewModel(deps(t), "nope"); !errors.Is(err, dynamo.ErrUnknownScene) {
		t.Errorf("err = %v", err)
	}
}

func TestModelTicks(t *testing.T) {
	m, err := NewModel(deps(t), "automaton")
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, TickMsg{}, TickMsg{}, TickMsg{})
	if m.frame != 3 || len(m.frameMS) != 3 {
		t.Errorf("frame=%d history=%d", m.frame, len(m.frameMS))
	}
	lit := false
	for _, row := range m.canvas.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit = true
			}
		}
	}
	if !lit {
		t.Error("canvas is blank after rendering")
	}
	if v := m.View(); !strings.Contains(v, "RUNNING") {
		t.Error("status panel missing")
	}
}

func TestModelToggleRunning(t *testing.T) {
	m, err := NewModel(deps(t), "cosmos")
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, key(" "))
	if m.running || m.Scene().Running() {
		t.Error("space should pause the scene")
	}
	m = send(m, key(" "))
	if !m.running || !m.Scene().Running() {
		t.Error("space should resume the scene")
	}
}

func TestModelSwitchScenes(t *testing.T) {
	m, err := NewModel(deps(t), catalog.Order[0])
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, key("tab"))
	if got := m.Scene().Name(); got != catalog.Order[1] {
		t.Errorf("after tab = %s, want %s", got, catalog.Order[1])
	}
	m = send(m, key("4"))
	if got := m.Scene().Name(); got != catalog.Order[3] {
		t.Errorf("after 4 = %s, want %s", got, catalog.Order[3])
	}
	m = send(m, key("p"))
	if got := m.Scene().Name(); got != catalog.Order[2] {
		t.Errorf("after p = %s, want %s", got, catalog.Order[2])
	}
}

func TestModelPausedKeepsSceneAcrossSwitch(t *testing.T) {
	m, err := NewModel(deps(t), "fractal")
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, key(" "), key("tab"))
	if m.Scene().Running() {
		t.Error("new scene should inherit the paused flag")
	}
}

func TestModelWindowResize(t *testing.T) {
	m, err := NewModel(deps(t), "ember")
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, tea.WindowSizeMsg{Width: 120 + statsWidth + 6, Height: 34})
	if m.width != 120 || m.height != 30 {
		t.Fatalf("canvas = %dx%d", m.width, m.height)
	}
	w, h := m.Scene().Surface().Viewport().Logical()
	if w != 120*2*oversample || h != 30*4*oversample {
		t.Errorf("surface = %dx%d", w, h)
	}
}

func TestModelRecording(t *testing.T) {
	d := deps(t)
	m, err := NewModel(d, "flowfield")
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, key("g"), TickMsg{}, TickMsg{}, key("g"))
	if m.recording {
		t.Fatal("still recording")
	}
	if !strings.HasPrefix(m.status, "saved ") {
		t.Fatalf("status = %q", m.status)
	}
	runs, err := d.Store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Scene != "flowfield" || runs[0].Frames != 2 {
		t.Errorf("runs = %+v", runs)
	}
}

func TestModelZoomKeys(t *testing.T) {
	m, err := NewModel(deps(t), "fractal")
	if err != nil {
		t.Fatal(err)
	}
	ex := m.Scene().(*fractal.Explorer)
	before := ex.Camera().Scale
	m = send(m, key("+"))
	if got := ex.Camera().Scale; got >= before {
		t.Errorf("scale %v -> %v, want zoom in", before, got)
	}
	m = send(m, key("-"), key("-"))
	if got := ex.Camera().Scale; got <= before {
		t.Errorf("scale %v -> %v, want zoom out", before, got)
	}
}

func TestCellToLogical(t *testing.T) {
	m, err := NewModel(deps(t), "fractal")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := m.cellToLogical(0, 0); ok {
		t.Error("padding cell mapped inside the canvas")
	}
	x, y, ok := m.cellToLogical(2, 1)
	if !ok {
		t.Fatal("first canvas cell rejected")
	}
	cw := m.vp.Width / float64(m.width)
	ch := m.vp.Height / float64(m.height)
	if x != cw/2 || y != ch/2 {
		t.Errorf("got (%v, %v)", x, y)
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("paper")
	SetTheme("night")
	if CurrentTheme.Name != "night" {
		t.Fatal("SetTheme ignored")
	}
	NextTheme()
	if CurrentTheme.Name != "ember" {
		t.Errorf("next = %s", CurrentTheme.Name)
	}
	if GetTheme("missing").Name != "paper" {
		t.Error("fallback should be paper")
	}
}

func TestSparklineWidth(t *testing.T) {
	st := themeStyles(ThemeMinimal)
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i)
	}
	out := SparklineChart(st, values, 10)
	n := 0
	for _, r := range out {
		if r >= '▁' && r <= '█' {
			n++
		}
	}
	if n != 10 {
		t.Errorf("bars = %d, want 10", n)
	}
}

func TestOrderedNames(t *testing.T) {
	names := ordered(catalog.NewRegistry())
	for i, n := range catalog.Order {
		if names[i] != n {
			t.Fatalf("names = %v", names)
		}
	}
}
