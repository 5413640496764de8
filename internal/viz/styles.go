package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are rebuilt from the current theme on every view so that cycling
// themes takes effect immediately.
type styles struct {
	canvas, stats, header, label, value, graph, help lipgloss.Style
	running, paused, recording                       lipgloss.Style
	sparkHigh, sparkMid, sparkLow                    lipgloss.Style
}

func themeStyles(t Theme) styles {
	return styles{
		canvas:    lipgloss.NewStyle().Padding(1, 2).Foreground(t.Canvas),
		stats:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(statsWidth),
		header:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		graph:     lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:      lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:   lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		recording: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		sparkHigh: lipgloss.NewStyle().Foreground(t.Success),
		sparkMid:  lipgloss.NewStyle().Foreground(t.Warning),
		sparkLow:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// GradientText colours each rune of text along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, err := colorful.Hex(string(start))
	if err != nil {
		a = colorful.Color{R: 1, G: 1, B: 1}
	}
	b, err := colorful.Hex(string(end))
	if err != nil {
		b = a
	}

	var out strings.Builder
	n := max(len(runes)-1, 1)
	for i, r := range runes {
		c := a.BlendLab(b, float64(i)/float64(n)).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame uint64) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%uint64(len(spinners))]
}

// ProgressBar renders a fraction in [0, 1] as a coloured bar.
func ProgressBar(st styles, percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return st.sparkHigh.Render(bar)
	} else if percent > 0.4 {
		return st.sparkMid.Render(bar)
	}
	return st.sparkLow.Render(bar)
}

// SparklineChart renders the last width values as block characters. Low
// values are good here, so the colours run the other way round.
func SparklineChart(st styles, values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(st.sparkLow.Render(c))
		case norm > 0.3:
			result.WriteString(st.sparkMid.Render(c))
		default:
			result.WriteString(st.sparkHigh.Render(c))
		}
	}
	return result.String()
}

func Separator(st styles, width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return st.help.Render(left + " ◆ " + right)
}
