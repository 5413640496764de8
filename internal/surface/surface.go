package surface

import (
	"fmt"
	"image"
	"math"

	"github.com/san-kum/genviz/internal/dynamo"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Op selects how a source colour combines with the destination.
type Op int

const (
	// SourceOver paints the source over the destination.
	SourceOver Op = iota
	// Lighter adds source to destination, saturating at full intensity.
	Lighter
	// Copy replaces the destination.
	Copy
)

// Surface is a raster target backed by premultiplied RGBA in device pixels.
// Every drawing call takes logical coordinates and scales them once.
type Surface struct {
	vp  dynamo.Viewport
	img *image.RGBA
}

// New allocates a surface for vp.
func New(vp dynamo.Viewport) (*Surface, error) {
	if vp.Empty() {
		return nil, fmt.Errorf("allocate %vx%v: %w", vp.Width, vp.Height, dynamo.ErrSurfaceUnavailable)
	}
	w, h := vp.DeviceSize()
	return &Surface{vp: vp, img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

// Available reports whether the surface can be drawn to.
func (s *Surface) Available() bool { return s != nil && s.img != nil }

// Viewport returns the logical viewport the surface was allocated for.
func (s *Surface) Viewport() dynamo.Viewport {
	if s == nil {
		return dynamo.Viewport{}
	}
	return s.vp
}

// Image exposes the backing raster. Callers must not retain it past Release.
func (s *Surface) Image() *image.RGBA {
	if !s.Available() {
		return nil
	}
	return s.img
}

// Snapshot returns a copy of the current raster.
func (s *Surface) Snapshot() *image.RGBA {
	if !s.Available() {
		return nil
	}
	c := image.NewRGBA(s.img.Rect)
	copy(c.Pix, s.img.Pix)
	return c
}

// Release drops the backing raster.
func (s *Surface) Release() {
	if s != nil {
		s.img = nil
	}
}

// Clear sets every pixel to transparent.
func (s *Surface) Clear() {
	if !s.Available() {
		return
	}
	clear(s.img.Pix)
}

// Fill paints the whole surface.
func (s *Surface) Fill(c Color, op Op) {
	if !s.Available() {
		return
	}
	s.fillDevice(s.img.Rect, c, op)
}

// FillRect paints a logical rectangle.
func (s *Surface) FillRect(x, y, w, h float64, c Color, op Op) {
	if !s.Available() || w <= 0 || h <= 0 {
		return
	}
	k := s.vp.Scale
	r := image.Rect(
		int(math.Round(x*k)), int(math.Round(y*k)),
		int(math.Round((x+w)*k)), int(math.Round((y+h)*k)),
	).Intersect(s.img.Rect)
	s.fillDevice(r, c, op)
}

func (s *Surface) fillDevice(r image.Rectangle, c Color, op Op) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s.blend(i, c, op)
			i += 4
		}
	}
}

// FillRadial paints a disc of radius fillRadius centred on (cx, cy), coloured
// by g sampled at distance/gradRadius.
func (s *Surface) FillRadial(cx, cy, gradRadius, fillRadius float64, g Gradient, op Op) {
	if !s.Available() || gradRadius <= 0 || fillRadius <= 0 {
		return
	}
	k := s.vp.Scale
	dcx, dcy := cx*k, cy*k
	gr, fr := gradRadius*k, fillRadius*k

	r := image.Rect(
		int(math.Floor(dcx-fr)), int(math.Floor(dcy-fr)),
		int(math.Ceil(dcx+fr))+1, int(math.Ceil(dcy+fr))+1,
	).Intersect(s.img.Rect)

	fr2 := fr * fr
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dy := float64(y) + 0.5 - dcy
		i := s.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := float64(x) + 0.5 - dcx
			d2 := dx*dx + dy*dy
			if d2 <= fr2 {
				s.blend(i, g.At(math.Sqrt(d2)/gr), op)
			}
			i += 4
		}
	}
}

// Plot paints one logical pixel.
func (s *Surface) Plot(x, y float64, c Color, op Op) {
	s.FillRect(math.Floor(x), math.Floor(y), 1, 1, c, op)
}

// StrokeLine draws a one-device-pixel line between logical points.
func (s *Surface) StrokeLine(x0, y0, x1, y1 float64, c Color, op Op) {
	if !s.Available() {
		return
	}
	k := s.vp.Scale
	s.bresenham(int(math.Round(x0*k)), int(math.Round(y0*k)), int(math.Round(x1*k)), int(math.Round(y1*k)), c, op)
}

// StrokePolyline draws connected segments; shared vertices are painted once.
func (s *Surface) StrokePolyline(pts []dynamo.Vec2, c Color, op Op) {
	if !s.Available() || len(pts) < 2 {
		return
	}
	k := s.vp.Scale
	px, py := int(math.Round(pts[0].X*k)), int(math.Round(pts[0].Y*k))
	s.setDevice(px, py, c, op)
	for _, p := range pts[1:] {
		nx, ny := int(math.Round(p.X*k)), int(math.Round(p.Y*k))
		if nx == px && ny == py {
			continue
		}
		s.bresenhamFrom(px, py, nx, ny, c, op, true)
		px, py = nx, ny
	}
}

func (s *Surface) bresenham(x0, y0, x1, y1 int, c Color, op Op) {
	s.bresenhamFrom(x0, y0, x1, y1, c, op, false)
}

func (s *Surface) bresenhamFrom(x0, y0, x1, y1 int, c Color, op Op, skipFirst bool) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	first := true
	for {
		if !(first && skipFirst) {
			s.setDevice(x0, y0, c, op)
		}
		first = false
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (s *Surface) setDevice(x, y int, c Color, op Op) {
	if !(image.Point{x, y}.In(s.img.Rect)) {
		return
	}
	s.blend(s.img.PixOffset(x, y), c, op)
}

func (s *Surface) blend(i int, c Color, op Op) {
	p := s.img.Pix[i : i+4 : i+4]
	a := clamp01(c.A)
	sr, sg, sb := clamp01(c.R)*a, clamp01(c.G)*a, clamp01(c.B)*a

	dr := float64(p[0]) / 255
	dg := float64(p[1]) / 255
	db := float64(p[2]) / 255
	da := float64(p[3]) / 255

	switch op {
	case Lighter:
		dr, dg, db, da = math.Min(1, dr+sr), math.Min(1, dg+sg), math.Min(1, db+sb), math.Min(1, da+a)
	case Copy:
		dr, dg, db, da = sr, sg, sb, a
	default:
		inv := 1 - a
		dr, dg, db, da = sr+dr*inv, sg+dg*inv, sb+db*inv, a+da*inv
	}

	p[0] = uint8(math.Round(dr * 255))
	p[1] = uint8(math.Round(dg * 255))
	p[2] = uint8(math.Round(db * 255))
	p[3] = uint8(math.Round(da * 255))
}

// DrawSurface composites src over s at the origin. Both must share a viewport.
func (s *Surface) DrawSurface(src *Surface) {
	if !s.Available() || !src.Available() {
		return
	}
	draw.Draw(s.img, s.img.Rect, src.img, image.Point{}, draw.Over)
}

// DrawRotated90 composites a logical-resolution raster rotated 90° clockwise
// about its centre, scaled to device pixels. Pixels falling outside the
// surface are cropped.
func (s *Surface) DrawRotated90(src *image.RGBA) {
	if !s.Available() || src == nil || src.Rect.Empty() {
		return
	}
	w := float64(src.Rect.Dx())
	h := float64(src.Rect.Dy())
	k := s.vp.Scale

	// (x, y) -> ((w+h)/2 - y, (h-w)/2 + x), then scaled by k.
	m := f64.Aff3{
		0, -k, k * (w + h) / 2,
		k, 0, k * (h - w) / 2,
	}
	draw.NearestNeighbor.Transform(s.img, m, src, src.Rect, draw.Over, nil)
}

// Luminance returns the mean perceived brightness of a device-pixel block
// composited over black, in [0, 1].
func (s *Surface) Luminance(r image.Rectangle) float64 {
	if !s.Available() {
		return 0
	}
	r = r.Intersect(s.img.Rect)
	if r.Empty() {
		return 0
	}
	sum := 0.0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			p := s.img.Pix[i : i+3 : i+3]
			sum += 0.2126*float64(p[0]) + 0.7152*float64(p[1]) + 0.0722*float64(p[2])
			i += 4
		}
	}
	return sum / 255 / float64(r.Dx()*r.Dy())
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
