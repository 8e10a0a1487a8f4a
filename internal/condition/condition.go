package condition

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Condition is a loading condition: where the centre of gravity sits, where
// the waterline is, and which heel angles to sweep.
//
// The heel angles are either listed explicitly in Angles or generated from
// Start, End and Step (all in degrees). Example JSON:
//
//	{
//	  "name": "Departure, full load",
//	  "kg": 6.2,
//	  "draft": 4.5,
//	  "start": 0,
//	  "end": 60,
//	  "step": 5
//	}
type Condition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	KG    float64 `json:"kg"`    // vertical centre of gravity above keel (m)
	Draft float64 `json:"draft"` // waterline height (m)

	Start float64 `json:"start"` // deg
	End   float64 `json:"end"`   // deg
	Step  float64 `json:"step"`  // deg

	Angles []float64 `json:"angles,omitempty"` // deg, strictly increasing
}

// ValidationError represents an invalid loading condition
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// MaxAngles caps the generated sweep so a tiny step cannot run away
const MaxAngles = 10000

// LoadFromFile loads a loading condition from a JSON file
func LoadFromFile(path string) (*Condition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Condition
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks the condition before a sweep
func (c *Condition) Validate() error {
	if c.KG < 0 {
		return &ValidationError{fmt.Sprintf("KG must not be negative, got %.3f", c.KG)}
	}
	if math.IsNaN(c.Draft) || math.IsInf(c.Draft, 0) {
		return &ValidationError{"draft must be a finite number"}
	}

	if len(c.Angles) > 0 {
		for i := 1; i < len(c.Angles); i++ {
			if !(c.Angles[i] > c.Angles[i-1]) {
				return &ValidationError{fmt.Sprintf("heel angles must be strictly increasing: %.2f follows %.2f",
					c.Angles[i], c.Angles[i-1])}
			}
		}
		return nil
	}

	if c.Step <= 0 {
		return &ValidationError{fmt.Sprintf("heel step must be positive, got %.3f", c.Step)}
	}
	if c.End < c.Start {
		return &ValidationError{fmt.Sprintf("heel end %.2f is below start %.2f", c.End, c.Start)}
	}
	if (c.End-c.Start)/c.Step >= MaxAngles {
		return &ValidationError{fmt.Sprintf("heel range gives more than %d angles", MaxAngles)}
	}
	return nil
}

// HeelAngles returns the sweep in degrees. Without an explicit list the range
// runs from Start to End inclusive, with a small tolerance so an End that is
// a multiple of Step is not lost to rounding.
func (c *Condition) HeelAngles() []float64 {
	if len(c.Angles) > 0 {
		return append([]float64(nil), c.Angles...)
	}

	var angles []float64
	for i := 0; ; i++ {
		a := c.Start + float64(i)*c.Step
		if a > c.End+1e-6 {
			break
		}
		angles = append(angles, a)
	}
	return angles
}
