package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatgrid/internal/palette"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("209")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	StatusRecording = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444")).
			Blink(true)
)

func headerStyle(t Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1)
}

func statusStyle(t Theme, running bool) lipgloss.Style {
	if running {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
}

// GradientText colours each rune of text along the given colour map.
func GradientText(text string, colors palette.Map) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var result strings.Builder
	for i, r := range runes {
		x := 0.0
		if len(runes) > 1 {
			x = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.At(x).Hex()))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// ProgressBar renders a fraction in 0..1 as a bar, coloured by the fraction.
func ProgressBar(fraction float64, width int, colors palette.Map) string {
	fraction = max(0, min(1, fraction))
	filled := int(fraction * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colors.At(fraction).Hex())).Render(bar)
}

// SparklineChart renders a mini sparkline of the most recent values that
// fit in width.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(len(chars)-1, idx))
		result.WriteRune(chars[idx])
	}
	return result.String()
}

// Separator draws a thin rule with a centre mark.
func Separator(width int, t Theme) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return lipgloss.NewStyle().Foreground(t.Muted).Render(left + " ◆ " + right)
}
