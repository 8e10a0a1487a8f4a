// Package diagram renders righting arm curves for the terminal and as image
// files.
package diagram

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gostab/internal/hydro"
	"github.com/guptarohit/asciigraph"
)

// DrawGZCurve renders the righting arm curve as a terminal chart. Points are
// spaced evenly along the x axis, so the caption carries the angle range.
func DrawGZCurve(curve *hydro.Curve, height, width int) string {
	if curve == nil || len(curve.Results) == 0 {
		return ""
	}

	angles := curve.Angles()
	caption := fmt.Sprintf("GZ (m) vs heel %.1f° .. %.1f°", angles[0], angles[len(angles)-1])
	if curve.DeckImmersed {
		caption += fmt.Sprintf(", deck edge at %.1f°", curve.DeckImmersionAngle)
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(asciigraph.Plot(curve.GZ(), opts...))
	sb.WriteString("\n")
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// pad right-fills s to n runes; %-*s counts bytes, which breaks on "°".
func pad(s string, n int) string {
	if k := len([]rune(s)); k < n {
		return s + strings.Repeat(" ", n-k)
	}
	return s
}
