package export

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

var errNoFrames = errors.New("export: no frames")

// WritePNG encodes img losslessly.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return errNoFrames
	}
	return png.Encode(w, img)
}

// Flatten composites a premultiplied frame over an opaque background.
func Flatten(src *image.RGBA, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	draw.Draw(dst, dst.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Over)
	return dst
}

// WriteGIF encodes frames as a looping animation. Each frame is dithered to
// the web-safe palette; delay is in hundredths of a second.
func WriteGIF(w io.Writer, frames []*image.RGBA, delay int) error {
	if len(frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		p := image.NewPaletted(frame.Rect, palette.WebSafe)
		draw.FloydSteinberg.Draw(p, p.Rect, frame, frame.Rect.Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
