package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/viz"
)

func svgOpen(sb *strings.Builder, w, h float64, bg string) {
	fmt.Fprintf(sb, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%.0f\" height=\"%.0f\" viewBox=\"0 0 %.0f %.0f\">\n"+
		"<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", w, h, w, h, bg)
}

// CanvasToSVG draws every lit braille dot as a circle, spacing dots by
// pitch units.
func CanvasToSVG(canvas *viz.Canvas, pitch float64, bg, fg string) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	svgOpen(&sb, float64(canvas.Width*2)*pitch, float64(canvas.Height*4)*pitch, bg)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fg)

	r := pitch * 0.4
	for row, cells := range canvas.Grid {
		for col, cell := range cells {
			mask := int(cell - 0x2800)
			if mask <= 0 {
				continue
			}
			for dy := range 4 {
				for dx := range 2 {
					if mask&viz.BrailleBit(dx, dy) == 0 {
						continue
					}
					x := (float64(col*2+dx) + 0.5) * pitch
					y := (float64(row*4+dy) + 0.5) * pitch
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", x, y, r)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// StreamlinesToSVG draws polylines in surface coordinates on a white
// background, one path per line. Lines with fewer than two points are
// skipped.
func StreamlinesToSVG(lines [][]dynamo.Vec2, width, height float64, stroke string, opacity float64) string {
	var sb strings.Builder
	svgOpen(&sb, width, height, "#ffffff")
	fmt.Fprintf(&sb, "<g fill=\"none\" stroke=\"%s\" stroke-width=\"1.25\" stroke-opacity=\"%.3f\">\n", stroke, opacity)

	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		fmt.Fprintf(&sb, "<path d=\"M%.1f,%.1f", line[0].X, line[0].Y)
		for _, p := range line[1:] {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
