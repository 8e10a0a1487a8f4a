package hydro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"github.com/alexiusacademia/gostab/internal/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNoAngles is returned when the sweep is given an empty angle list
	ErrNoAngles = errors.New("no heel angles given")

	// ErrAngleOrder is returned when heel angles are not strictly increasing
	ErrAngleOrder = errors.New("heel angles must be strictly increasing")
)

// HeelError ties a failure to the heel angle that produced it
type HeelError struct {
	Angle float64 // degrees
	Err   error
}

func (e *HeelError) Error() string {
	return fmt.Sprintf("heel %.2f°: %v", e.Angle, e.Err)
}

func (e *HeelError) Unwrap() error {
	return e.Err
}

// HeelResult is the hydrostatic state of the hull at one heel angle
type HeelResult struct {
	Angle          float64     // heel angle (deg)
	Volume         float64     // submerged volume (m³)
	Buoyancy       mesh.Vertex // centre of buoyancy B in the heeled frame (m)
	KN             float64     // transverse arm of B from the centreline (m)
	GZ             float64     // righting arm (m)
	WaterplaneArea float64     // area of the waterline cap (m²)
	DeckImmersed   bool        // deck edge at or below the waterline
}

// DeckEdge selects the vertices treated as the deck edge: those within ZTol
// of the highest point of the hull and further out than YFraction of the
// maximum half-beam.
type DeckEdge struct {
	ZTol      float64
	YFraction float64
}

// DefaultDeckEdge matches a deck at the top of the mesh and a side near the maximum beam
var DefaultDeckEdge = DeckEdge{ZTol: 1e-3, YFraction: 0.9}

// Vertices returns the deck-edge subset of the hull, or nil if none qualify.
func (d DeckEdge) Vertices(hull *mesh.Mesh) []mesh.Vertex {
	if len(hull.Vertices) == 0 {
		return nil
	}

	zMax := math.Inf(-1)
	yMax := 0.0
	for _, v := range hull.Vertices {
		zMax = math.Max(zMax, v.Z())
		yMax = math.Max(yMax, math.Abs(v.Y()))
	}

	var deck []mesh.Vertex
	for _, v := range hull.Vertices {
		if math.Abs(v.Z()-zMax) < d.ZTol && math.Abs(v.Y()) > d.YFraction*yMax {
			deck = append(deck, v)
		}
	}
	return deck
}

// Solver sweeps a validated hull through a list of heel angles.
type Solver struct {
	KG    float64 // vertical centre of gravity above the keel (m)
	Draft float64 // waterline height, fixed for the whole sweep (m)

	// Workers bounds the number of angles processed concurrently.
	// Zero or negative uses one worker per CPU.
	Workers int

	// SkipDegenerate drops angles whose submerged volume vanishes instead
	// of aborting the sweep. Dropped angles are listed in Curve.Skipped.
	SkipDegenerate bool

	DeckEdge DeckEdge
	Logger   *slog.Logger
}

// NewSolver creates a solver with the default deck-edge selection
func NewSolver(kg, draft float64) *Solver {
	return &Solver{
		KG:       kg,
		Draft:    draft,
		DeckEdge: DefaultDeckEdge,
	}
}

// heelOutcome is what one worker produces for one angle
type heelOutcome struct {
	result   HeelResult
	immersed bool
	err      error
}

// Run computes the righting-arm curve for anglesDeg, which must be strictly
// increasing. The hull is read-only; every angle works on its own rotated
// copy so angles are processed in parallel and merged by index.
func (s *Solver) Run(hull *mesh.Mesh, anglesDeg []float64) (*Curve, error) {
	return s.RunContext(context.Background(), hull, anglesDeg)
}

// RunContext is Run with cancellation. Once ctx is done no further angles
// are dispatched and ctx.Err() is returned after in-flight angles finish.
func (s *Solver) RunContext(ctx context.Context, hull *mesh.Mesh, anglesDeg []float64) (*Curve, error) {
	if err := checkAngles(anglesDeg); err != nil {
		return nil, err
	}
	log := s.logger()

	deck := s.DeckEdge.Vertices(hull)
	if len(deck) == 0 {
		log.Warn("no deck-edge vertices found, immersion will not be detected")
	} else {
		log.Debug("deck edge selected", "vertices", len(deck))
	}

	outcomes := make([]heelOutcome, len(anglesDeg))

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(anglesDeg))

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = s.heel(hull, deck, anglesDeg[idx])
			}
		}()
	}

dispatch:
	for i := range anglesDeg {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.assemble(anglesDeg, outcomes)
}

// assemble reduces per-angle outcomes in input order, so the first error and
// the immersion angle never depend on which worker finished first.
func (s *Solver) assemble(anglesDeg []float64, outcomes []heelOutcome) (*Curve, error) {
	log := s.logger()
	curve := &Curve{KG: s.KG, Draft: s.Draft}

	for i, out := range outcomes {
		if out.immersed && !curve.DeckImmersed {
			curve.DeckImmersed = true
			curve.DeckImmersionAngle = anglesDeg[i]
			log.Info("deck edge immersion detected", "angle", anglesDeg[i])
		}

		if out.err != nil {
			if s.SkipDegenerate && errors.Is(out.err, mesh.ErrDegenerateVolume) {
				log.Warn("skipping heel angle", "angle", anglesDeg[i], "err", out.err)
				curve.Skipped = append(curve.Skipped, anglesDeg[i])
				continue
			}
			return nil, out.err
		}

		out.result.DeckImmersed = out.immersed
		curve.Results = append(curve.Results, out.result)
		log.Debug("heel",
			"angle", out.result.Angle,
			"volume", out.result.Volume,
			"KN", out.result.KN,
			"GZ", out.result.GZ,
		)
	}

	return curve, nil
}

// heel rotates, clips and integrates the hull at one angle
func (s *Solver) heel(hull *mesh.Mesh, deck []mesh.Vertex, deg float64) heelOutcome {
	theta := mgl64.DegToRad(deg)
	rot := HeelRotation(deg)

	immersed := false
	if len(deck) > 0 {
		minZ := math.Inf(1)
		for _, v := range deck {
			minZ = math.Min(minZ, rot.Mul3x1(v).Z())
		}
		immersed = minZ <= s.Draft
	}

	rotated := Rotate(hull, rot)
	submerged, stats := Clip(rotated, s.Draft)
	if stats.Loops > 1 {
		s.logger().Debug("waterline split into several loops", "angle", deg, "loops", stats.Loops)
	}

	volume, b, err := mesh.VolumeAndCentroid(submerged)
	if err != nil {
		return heelOutcome{immersed: immersed, err: &HeelError{Angle: deg, Err: err}}
	}

	kn := -b.Y()
	return heelOutcome{
		result: HeelResult{
			Angle:          deg,
			Volume:         volume,
			Buoyancy:       b,
			KN:             kn,
			GZ:             kn - s.KG*math.Sin(theta),
			WaterplaneArea: stats.WaterplaneArea,
		},
		immersed: immersed,
	}
}

func (s *Solver) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Rotate returns a copy of m with every vertex transformed by rot.
// Faces are shared with the source.
func Rotate(m *mesh.Mesh, rot mgl64.Mat3) *mesh.Mesh {
	vertices := make([]mesh.Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = rot.Mul3x1(v)
	}
	return &mesh.Mesh{Vertices: vertices, Faces: m.Faces}
}

// HeelRotation is the rotation of the hull about the longitudinal x axis
func HeelRotation(deg float64) mgl64.Mat3 {
	return mgl64.Rotate3DX(mgl64.DegToRad(deg))
}

func checkAngles(anglesDeg []float64) error {
	if len(anglesDeg) == 0 {
		return ErrNoAngles
	}
	for i := 1; i < len(anglesDeg); i++ {
		if !(anglesDeg[i] > anglesDeg[i-1]) {
			return fmt.Errorf("%w: %.4f follows %.4f", ErrAngleOrder, anglesDeg[i], anglesDeg[i-1])
		}
	}
	return nil
}
