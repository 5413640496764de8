package export

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"strings"
	"testing"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/viz"
)

func frame(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	src := frame(color.RGBA{200, 10, 30, 255})
	if err := WritePNG(&buf, src); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Rect {
		t.Errorf("bounds = %v", img.Bounds())
	}
	r, g, b, _ := img.At(3, 3).RGBA()
	if r>>8 != 200 || g>>8 != 10 || b>>8 != 30 {
		t.Errorf("pixel = %d %d %d", r>>8, g>>8, b>>8)
	}
	if WritePNG(&buf, nil) == nil {
		t.Error("expected error for nil image")
	}
}

func TestWriteGIF(t *testing.T) {
	frames := []*image.RGBA{
		frame(color.RGBA{0, 0, 0, 255}),
		frame(color.RGBA{255, 255, 255, 255}),
		frame(color.RGBA{0, 0, 255, 255}),
	}
	var buf bytes.Buffer
	if err := WriteGIF(&buf, frames, 3); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("frames = %d, want 3", len(anim.Image))
	}
	if anim.Delay[0] != 3 {
		t.Errorf("delay = %d", anim.Delay[0])
	}
	if err := WriteGIF(&buf, nil, 3); err == nil {
		t.Error("expected error for no frames")
	}
}

func TestFlatten(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Pix[0], src.Pix[3] = 128, 128 // half red, premultiplied
	out := Flatten(src, color.White)
	got := out.RGBAAt(0, 0)
	if got.A != 255 || got.R < 250 || got.G > 130 || got.G < 125 {
		t.Errorf("flattened = %v", got)
	}
	if out.RGBAAt(1, 0) != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background = %v", out.RGBAAt(1, 0))
	}
}

func TestStreamlinesToSVG(t *testing.T) {
	lines := [][]dynamo.Vec2{
		{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}},
		{{X: 9, Y: 9}},
	}
	svg := StreamlinesToSVG(lines, 100, 50, "#000000", 0.35)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("not an svg document")
	}
	if n := strings.Count(svg, "<path"); n != 1 {
		t.Errorf("paths = %d, want 1", n)
	}
	if !strings.Contains(svg, `d="M1.0,2.0 L3.0,4.0 L5.0,6.0"`) {
		t.Errorf("path data missing: %s", svg)
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2, "#ffffff", "#111111")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	if CanvasToSVG(nil, 1, "", "") != "" {
		t.Error("nil canvas should give empty output")
	}
}
