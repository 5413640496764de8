// Package fractal renders a slowly zooming, draggable Mandelbrot view shaded
// in continuous greyscale and presented rotated a quarter turn clockwise.
package fractal

import (
	"image"
	"math"

	"github.com/san-kum/genviz/internal/dynamo"
)

var invLog2 = 1 / math.Log(2)

// Escape iterates z <- z^2 + c from zero. It returns the iteration count and
// |z|^2 at exit; iter == maxIter means the orbit stayed bounded.
func Escape(x0, y0 float64, maxIter int) (int, float64) {
	var x, y, x2, y2 float64
	iter := 0
	for x2+y2 <= 4 && iter < maxIter {
		y = 2*x*y + y0
		x = x2 - y2 + x0
		x2 = x * x
		y2 = y * y
		iter++
	}
	return iter, x2 + y2
}

// Shade maps an escape result to a grey level. Bounded points are black;
// escaping points fade from white far out to dark near the boundary.
func Shade(iter int, mag2 float64, maxIter int) uint8 {
	if iter >= maxIter || maxIter <= 0 {
		return 0
	}
	mu := float64(iter) - math.Log(math.Log(math.Sqrt(mag2)))*invLog2
	v := mu / float64(maxIter)
	if v < 0 || math.IsNaN(v) {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(math.Round(255 * (1 - v)))
}

// Rasterize fills img with the view seen by cam, one opaque grey pixel per
// point. Rows are split across workers; output does not depend on the split.
func Rasterize(img *image.RGBA, cam Camera, maxIter, workers int) {
	if img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	fw, fh := float64(w), float64(h)
	aspect := fw / fh

	dynamo.ParallelForN(h, 4, workers, func(start, end int) {
		for py := start; py < end; py++ {
			y0 := cam.CY + (float64(py)/fh-0.5)*cam.Scale
			i := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+py)
			for px := 0; px < w; px++ {
				x0 := cam.CX + (float64(px)/fw-0.5)*cam.Scale*aspect
				iter, mag2 := Escape(x0, y0, maxIter)
				g := Shade(iter, mag2, maxIter)
				p := img.Pix[i : i+4 : i+4]
				p[0], p[1], p[2], p[3] = g, g, g, 255
				i += 4
			}
		}
	})
}
