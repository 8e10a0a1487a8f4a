package diagram

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexiusacademia/gostab/internal/hydro"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrEmptyCurve is returned when there is nothing to draw
var ErrEmptyCurve = errors.New("curve has no results")

type label struct {
	x, y float64
	text string
}

// ExportGZCurve plots the righting arm curve to an image file. The format
// follows the extension (.png, .svg, .pdf); anything else gets ".png" added.
// The path actually written is returned.
func ExportGZCurve(curve *hydro.Curve, title, filename string) (string, error) {
	if curve == nil || len(curve.Results) == 0 {
		return "", ErrEmptyCurve
	}

	p := plot.New()
	if title == "" {
		title = "Righting Arm Curve"
	}
	p.Title.Text = title
	p.X.Label.Text = "Heel angle (deg)"
	p.Y.Label.Text = "GZ (m)"
	p.Add(plotter.NewGrid())

	angles := curve.Angles()
	gz := curve.GZ()

	pts := make(plotter.XYs, len(angles))
	for i := range angles {
		pts[i] = plotter.XY{X: angles[i], Y: gz[i]}
	}

	gzLine, err := plotter.NewLine(pts)
	if err != nil {
		return "", err
	}
	gzLine.LineStyle.Width = vg.Points(2)
	gzLine.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	p.Add(gzLine)

	marks, err := plotter.NewScatter(pts)
	if err != nil {
		return "", err
	}
	marks.GlyphStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	marks.GlyphStyle.Radius = vg.Points(2.5)
	marks.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(marks)

	minA, maxA := angles[0], angles[len(angles)-1]
	minGZ, maxGZ := floats.Min(gz), floats.Max(gz)
	if minGZ > 0 {
		minGZ = 0
	}

	// Zero righting arm reference line
	zeroLine, err := plotter.NewLine(plotter.XYs{{X: minA, Y: 0}, {X: maxA, Y: 0}})
	if err != nil {
		return "", err
	}
	zeroLine.LineStyle.Width = vg.Points(1)
	zeroLine.LineStyle.Color = color.Gray{Y: 128}
	p.Add(zeroLine)

	var labels []label

	if a, g, ok := curve.Max(); ok {
		maxMark, err := plotter.NewScatter(plotter.XYs{{X: a, Y: g}})
		if err != nil {
			return "", err
		}
		maxMark.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
		maxMark.GlyphStyle.Radius = vg.Points(4)
		p.Add(maxMark)
		labels = append(labels, label{a, g, fmt.Sprintf(" GZmax=%.3fm @ %.1f°", g, a)})
	}

	if curve.DeckImmersed {
		deckLine, err := plotter.NewLine(plotter.XYs{
			{X: curve.DeckImmersionAngle, Y: minGZ},
			{X: curve.DeckImmersionAngle, Y: maxGZ},
		})
		if err != nil {
			return "", err
		}
		deckLine.LineStyle.Width = vg.Points(1.5)
		deckLine.LineStyle.Color = color.RGBA{R: 255, G: 165, B: 0, A: 255}
		deckLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(deckLine)
		labels = append(labels, label{curve.DeckImmersionAngle, minGZ + 0.1*(maxGZ-minGZ), fmt.Sprintf(" deck edge %.1f°", curve.DeckImmersionAngle)})
	}

	for _, lbl := range labels {
		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: lbl.x, Y: lbl.y}},
			Labels: []string{lbl.text},
		})
		if err != nil {
			return "", err
		}
		p.Add(l)
	}

	width := 8 * vg.Inch
	height := 5 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
	default:
		filename += ".png"
	}
	if err := p.Save(width, height, filename); err != nil {
		return "", err
	}
	return filename, nil
}
