package viz

import (
	"image"
	"strings"
)

const blank rune = 0x2800

// dots maps a sub-pixel (dy, dx) of a 2x4 braille cell to its dot bit.
var dots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// BrailleBit returns the dot mask for sub-pixel (dx, dy) of a cell.
func BrailleBit(dx, dy int) int { return int(dots[dy][dx]) }

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights sub-pixel (x, y). Out-of-range points are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.Grid[y/4][x/2] |= dots[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = blank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// FromSurface thresholds img onto the canvas, sampling one source pixel per
// sub-pixel. Bright images are inverted so the dots always trace the ink.
func (c *Canvas) FromSurface(img *image.RGBA) {
	c.Clear()
	if img == nil || img.Rect.Empty() {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	b := img.Rect
	lum := make([]float64, sw*sh)
	mean := 0.0
	for y := range sh {
		py := b.Min.Y + y*b.Dy()/sh
		for x := range sw {
			p := img.Pix[img.PixOffset(b.Min.X+x*b.Dx()/sw, py):]
			v := (0.2126*float64(p[0]) + 0.7152*float64(p[1]) + 0.0722*float64(p[2])) / 255
			lum[y*sw+x] = v
			mean += v
		}
	}
	invert := mean/float64(len(lum)) > 0.5
	for i, v := range lum {
		if invert {
			v = 1 - v
		}
		if v > 0.25 {
			c.Set(i%sw, i/sw)
		}
	}
}
