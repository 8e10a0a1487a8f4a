package hydro

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// ErrOutOfRange is returned when a query falls outside the swept angles
var ErrOutOfRange = errors.New("angle outside the computed curve")

// Curve is the ordered result of a heel sweep
type Curve struct {
	KG    float64
	Draft float64

	Results []HeelResult // in input angle order

	// DeckImmersionAngle is the smallest swept angle at which the deck edge
	// reaches the waterline. Only meaningful when DeckImmersed is true.
	DeckImmersionAngle float64
	DeckImmersed       bool

	Skipped []float64 // angles dropped for a degenerate submerged volume
}

// Angles returns the heel angles (deg) that produced a result
func (c *Curve) Angles() []float64 {
	out := make([]float64, len(c.Results))
	for i, r := range c.Results {
		out[i] = r.Angle
	}
	return out
}

// GZ returns the righting arms in angle order
func (c *Curve) GZ() []float64 {
	out := make([]float64, len(c.Results))
	for i, r := range c.Results {
		out[i] = r.GZ
	}
	return out
}

// Max returns the largest righting arm and the angle where it occurs
func (c *Curve) Max() (angle, gz float64, ok bool) {
	if len(c.Results) == 0 {
		return 0, 0, false
	}
	i := floats.MaxIdx(c.GZ())
	return c.Results[i].Angle, c.Results[i].GZ, true
}

// GZAt interpolates the righting arm linearly between swept angles
func (c *Curve) GZAt(deg float64) (float64, error) {
	n := len(c.Results)
	if n == 0 || deg < c.Results[0].Angle || deg > c.Results[n-1].Angle {
		return 0, fmt.Errorf("%w: %.2f°", ErrOutOfRange, deg)
	}
	for i := 1; i < n; i++ {
		a, b := c.Results[i-1], c.Results[i]
		if deg <= b.Angle {
			t := (deg - a.Angle) / (b.Angle - a.Angle)
			return a.GZ + t*(b.GZ-a.GZ), nil
		}
	}
	return c.Results[n-1].GZ, nil
}

// Area integrates GZ between two heel angles by the trapezoidal rule.
// The result is in metre-radians, the unit used by stability criteria.
func (c *Curve) Area(fromDeg, toDeg float64) (float64, error) {
	if !(toDeg > fromDeg) {
		return 0, fmt.Errorf("invalid area range %.2f° to %.2f°", fromDeg, toDeg)
	}
	gzFrom, err := c.GZAt(fromDeg)
	if err != nil {
		return 0, err
	}
	gzTo, err := c.GZAt(toDeg)
	if err != nil {
		return 0, err
	}

	x := []float64{mgl64.DegToRad(fromDeg)}
	f := []float64{gzFrom}
	for _, r := range c.Results {
		if r.Angle > fromDeg && r.Angle < toDeg {
			x = append(x, mgl64.DegToRad(r.Angle))
			f = append(f, r.GZ)
		}
	}
	x = append(x, mgl64.DegToRad(toDeg))
	f = append(f, gzTo)

	return integrate.Trapezoidal(x, f), nil
}

// VanishingAngle returns the first heel angle above zero where GZ turns from
// positive to non-positive, interpolated between swept angles.
func (c *Curve) VanishingAngle() (float64, bool) {
	for i := 1; i < len(c.Results); i++ {
		a, b := c.Results[i-1], c.Results[i]
		if b.Angle <= 0 || a.GZ <= 0 || b.GZ > 0 {
			continue
		}
		t := a.GZ / (a.GZ - b.GZ)
		return a.Angle + t*(b.Angle-a.Angle), true
	}
	return 0, false
}
