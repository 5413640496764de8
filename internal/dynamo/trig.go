package dynamo

import "math"

// TrigTable provides precomputed sine values with linear interpolation.
// Cosine is read from the same table a quarter turn ahead.
type TrigTable struct {
	sin []float64
	n   int
}

// DefaultTrigTable has 4096 entries (~0.0015 rad resolution).
var DefaultTrigTable = NewTrigTable(4096)

// NewTrigTable creates a lookup table with n samples over one period.
func NewTrigTable(n int) *TrigTable {
	if n < 4 {
		n = 4
	}
	t := &TrigTable{sin: make([]float64, n), n: n}
	for i := range t.sin {
		t.sin[i] = math.Sin(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

func (t *TrigTable) lookup(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n
	return t.sin[i0]*(1-frac) + t.sin[i1]*frac
}

// Sin returns approximate sin(x).
func (t *TrigTable) Sin(x float64) float64 { return t.lookup(x) }

// Cos returns approximate cos(x).
func (t *TrigTable) Cos(x float64) float64 { return t.lookup(x + math.Pi/2) }

// FastSin uses the default table.
func FastSin(x float64) float64 { return DefaultTrigTable.Sin(x) }

// FastCos uses the default table.
func FastCos(x float64) float64 { return DefaultTrigTable.Cos(x) }
