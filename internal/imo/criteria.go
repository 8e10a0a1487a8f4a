package imo

import (
	"errors"
	"math"
)

// IMO 2008 Intact Stability Code, Part A, Section 2.2 general criteria

const (
	// Areas under the righting lever curve (m-rad), 2.2.1
	Area30Min   = 0.055 // up to 30°
	Area40Min   = 0.090 // up to 40°
	Area3040Min = 0.030 // between 30° and 40°

	// Righting lever at or beyond 30° (m), 2.2.2
	GZ30Min = 0.20

	// Angle of maximum righting lever (deg), 2.2.3
	MaxGZAngleMin = 25.0

	// Initial metacentric height (m), 2.2.4
	GM0Min = 0.15

	// Largest heel (deg) trusted for the small-angle GM estimate
	GMEstimateMaxAngle = 10.0
)

// RightingArm is the part of a GZ curve the criteria need
type RightingArm interface {
	Angles() []float64
	GZ() []float64
	GZAt(deg float64) (float64, error)
	Area(fromDeg, toDeg float64) (float64, error)
	Max() (angle, gz float64, ok bool)
}

// Criterion is the outcome of one stability check
type Criterion struct {
	ID          string
	Description string
	Unit        string
	Required    float64
	Actual      float64

	// Evaluated is false when the curve does not cover the angles the
	// criterion needs; Pass is then meaningless.
	Evaluated bool
	Pass      bool
}

// Check evaluates the general intact stability criteria against a curve.
func Check(c RightingArm) []Criterion {
	return []Criterion{
		areaCriterion(c, "2.2.1.1", "Area under GZ from 0° to 30°", 0, 30, Area30Min),
		areaCriterion(c, "2.2.1.2", "Area under GZ from 0° to 40°", 0, 40, Area40Min),
		areaCriterion(c, "2.2.1.3", "Area under GZ from 30° to 40°", 30, 40, Area3040Min),
		gz30Criterion(c),
		maxAngleCriterion(c),
		gmCriterion(c),
	}
}

// Passed reports whether every evaluated criterion passed and at least one was evaluated
func Passed(criteria []Criterion) bool {
	evaluated := 0
	for _, cr := range criteria {
		if !cr.Evaluated {
			continue
		}
		evaluated++
		if !cr.Pass {
			return false
		}
	}
	return evaluated > 0
}

func areaCriterion(c RightingArm, id, desc string, from, to, required float64) Criterion {
	cr := Criterion{ID: id, Description: desc, Unit: "m-rad", Required: required}
	area, err := c.Area(from, to)
	if err != nil {
		return cr
	}
	cr.Actual = area
	cr.Evaluated = true
	cr.Pass = area >= required
	return cr
}

func gz30Criterion(c RightingArm) Criterion {
	cr := Criterion{
		ID:          "2.2.2",
		Description: "GZ at an angle of 30° or more",
		Unit:        "m",
		Required:    GZ30Min,
	}

	angles, gz := c.Angles(), c.GZ()
	best := math.Inf(-1)
	for i, a := range angles {
		if a >= 30 {
			best = math.Max(best, gz[i])
		}
	}
	if math.IsInf(best, -1) {
		return cr
	}
	cr.Actual = best
	cr.Evaluated = true
	cr.Pass = best >= GZ30Min
	return cr
}

func maxAngleCriterion(c RightingArm) Criterion {
	cr := Criterion{
		ID:          "2.2.3",
		Description: "Angle of maximum GZ",
		Unit:        "deg",
		Required:    MaxGZAngleMin,
	}
	angle, _, ok := c.Max()
	if !ok {
		return cr
	}
	cr.Actual = angle
	cr.Evaluated = true
	cr.Pass = angle >= MaxGZAngleMin
	return cr
}

func gmCriterion(c RightingArm) Criterion {
	cr := Criterion{
		ID:          "2.2.4",
		Description: "Initial GM (estimated from GZ/sin θ)",
		Unit:        "m",
		Required:    GM0Min,
	}
	gm, err := EstimateGM(c)
	if err != nil {
		return cr
	}
	cr.Actual = gm
	cr.Evaluated = true
	cr.Pass = gm >= GM0Min
	return cr
}

// ErrNoSmallAngle is returned when no heel in (0°, 10°] is available
var ErrNoSmallAngle = errors.New("no small positive heel angle to estimate GM")

// EstimateGM approximates the initial metacentric height from the smallest
// positive heel up to GMEstimateMaxAngle using GZ ≈ GM·sin θ.
func EstimateGM(c RightingArm) (float64, error) {
	angles, gz := c.Angles(), c.GZ()
	for i, a := range angles {
		if a <= 0 {
			continue
		}
		if a > GMEstimateMaxAngle {
			break
		}
		return gz[i] / math.Sin(a*math.Pi/180), nil
	}
	return 0, ErrNoSmallAngle
}
