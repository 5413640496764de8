package automaton

import (
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/surface"
	"github.com/sirupsen/logrus"
)

const Name = "automaton"

type Options struct {
	Rule       uint8
	Cell       float64
	Base       float64
	Gutter     float64
	BatchEvery int
	BatchRows  int
	Background surface.Color
	Ink        surface.Color
}

func DefaultOptions() Options {
	return Options{
		Rule:       30,
		Cell:       4,
		Base:       24,
		Gutter:     8,
		BatchEvery: 8,
		BatchRows:  4,
		Background: surface.RGB255(0xff, 0xff, 0xff, 1),
		Ink:        surface.RGB255(0x0a, 0x0a, 0x0a, 1),
	}
}

// Grower draws each new generation once onto a persistent surface.
type Grower struct {
	scene.Base
	opts    Options
	rule    [8]uint8
	grid    *Grid
	tick    int
	reseed  bool
	pending []int
}

func New(opts Options, log *logrus.Entry) *Grower {
	d := DefaultOptions()
	if opts.Cell <= 0 {
		opts.Cell = d.Cell
	}
	if opts.BatchEvery <= 0 {
		opts.BatchEvery = d.BatchEvery
	}
	if opts.BatchRows <= 0 {
		opts.BatchRows = d.BatchRows
	}
	if opts.Background == (surface.Color{}) && opts.Ink == (surface.Color{}) {
		opts.Background, opts.Ink = d.Background, d.Ink
	}
	return &Grower{Base: scene.NewBase(Name, log), opts: opts, rule: RuleTable(opts.Rule)}
}

func (g *Grower) Grid() *Grid { return g.grid }

// Resize reseeds the automaton for the new geometry.
func (g *Grower) Resize(vp dynamo.Viewport) error {
	cols, rows := Dimensions(vp.Width, vp.Height, g.opts)
	g.grid = NewGrid(cols, rows)
	g.tick = 0
	g.reseed = true
	g.pending = g.pending[:0]
	g.Log().WithFields(logrus.Fields{"cols": cols, "rows": rows}).Debug("reseeded")
	return g.Allocate(vp)
}

// Step advances a batch of rows every BatchEvery ticks while running.
func (g *Grower) Step() {
	if g.grid == nil {
		return
	}
	if g.Running() && !g.grid.Done() && g.tick%g.opts.BatchEvery == 0 {
		g.pending = append(g.pending, g.grid.Advance(g.rule, g.opts.BatchRows)...)
	}
	g.tick++
}

// Render paints only rows not yet on the surface.
func (g *Grower) Render() {
	if !g.Ready() || g.grid == nil {
		return
	}
	s := g.Surface()
	if g.reseed {
		s.Fill(g.opts.Background, surface.Copy)
		g.drawRow(s, 0)
		g.reseed = false
	}
	for _, y := range g.pending {
		g.drawRow(s, y)
	}
	g.pending = g.pending[:0]
}

func (g *Grower) drawRow(s *surface.Surface, y int) {
	c := g.opts.Cell
	left := g.opts.Base + float64(y)*c
	if left >= s.Viewport().Width {
		return
	}
	row := g.grid.Cells[y]
	for x, ok := row.NextSet(0); ok && int(x) < g.grid.Cols; x, ok = row.NextSet(x + 1) {
		s.FillRect(left, g.opts.Gutter+float64(x)*c, c, c, g.opts.Ink, surface.SourceOver)
	}
}

func (g *Grower) Release() {
	g.grid = nil
	g.pending = nil
	g.Base.Release()
}

var _ scene.Scene = (*Grower)(nil)
