// Package automaton grows an elementary cellular automaton one generation per
// row and keeps the full history on screen.
package automaton

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// RuleTable expands a Wolfram code. Entry l<<2|c<<1|r is the next state of a
// cell whose left, centre and right neighbours are l, c and r.
func RuleTable(code uint8) [8]uint8 {
	var t [8]uint8
	for i := range t {
		t[i] = (code >> i) & 1
	}
	return t
}

// NextRow computes the generation after prev into next. The row wraps at
// the edges.
func NextRow(prev, next *bitset.BitSet, cols int, rule [8]uint8) {
	if cols <= 0 {
		return
	}
	n := uint(cols)
	bit := func(i uint) uint8 {
		if prev.Test(i) {
			return 1
		}
		return 0
	}
	for x := uint(0); x < n; x++ {
		l := bit((x + n - 1) % n)
		c := bit(x)
		r := bit((x + 1) % n)
		next.SetTo(x, rule[l<<2|c<<1|r] == 1)
	}
}

// Grid holds every generation computed so far. Rows below WriteRow never
// change.
type Grid struct {
	Cols     int
	Rows     int
	Cells    []*bitset.BitSet
	WriteRow int
}

// NewGrid seeds row 0 with a single live cell at the centre column.
func NewGrid(cols, rows int) *Grid {
	cols, rows = max(1, cols), max(1, rows)
	g := &Grid{Cols: cols, Rows: rows, Cells: make([]*bitset.BitSet, rows)}
	for i := range g.Cells {
		g.Cells[i] = bitset.New(uint(cols))
	}
	g.Cells[0].Set(uint(cols >> 1))
	return g
}

// Live reports whether the cell at (row, col) is set.
func (g *Grid) Live(row, col int) bool {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return false
	}
	return g.Cells[row].Test(uint(col))
}

// Done reports whether the last row has been written.
func (g *Grid) Done() bool { return g.WriteRow >= g.Rows-1 }

// Advance computes up to n further rows and returns their indices.
func (g *Grid) Advance(rule [8]uint8, n int) []int {
	target := min(g.Rows-1, g.WriteRow+n)
	var rows []int
	for g.WriteRow < target {
		NextRow(g.Cells[g.WriteRow], g.Cells[g.WriteRow+1], g.Cols, rule)
		g.WriteRow++
		rows = append(rows, g.WriteRow)
	}
	return rows
}

// Dimensions returns the grid size that fits a w x h surface. The history
// grows left to right, so columns span the height.
func Dimensions(w, h float64, o Options) (cols, rows int) {
	if o.Cell <= 0 {
		return 1, 1
	}
	cols = max(1, int(math.Floor((h-2*o.Gutter)/o.Cell)))
	rows = max(1, int(math.Floor((w-o.Base)/o.Cell)))
	return cols, rows
}
