package mesh

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func vertexEqual(a, b Vertex, tolerance float64) bool {
	return floatEqual(a.X(), b.X(), tolerance) &&
		floatEqual(a.Y(), b.Y(), tolerance) &&
		floatEqual(a.Z(), b.Z(), tolerance)
}

func unitCube() *Mesh {
	return Box(Vertex{-0.5, -0.5, -0.5}, Vertex{0.5, 0.5, 0.5})
}

func reversed(m *Mesh) *Mesh {
	faces := make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = Face{f[2], f[1], f[0]}
	}
	return &Mesh{Vertices: m.Vertices, Faces: faces}
}

// canonical rotates a face so its smallest index comes first, keeping winding
func canonical(f Face) Face {
	switch {
	case f[1] < f[0] && f[1] < f[2]:
		return Face{f[1], f[2], f[0]}
	case f[2] < f[0] && f[2] < f[1]:
		return Face{f[2], f[0], f[1]}
	}
	return f
}

func TestCheckManifold(t *testing.T) {
	t.Run("closed cube", func(t *testing.T) {
		if err := CheckManifold(unitCube()); err != nil {
			t.Fatalf("CheckManifold() error = %v", err)
		}
	})

	t.Run("cube with one face removed", func(t *testing.T) {
		cube := unitCube()
		open := &Mesh{Vertices: cube.Vertices, Faces: cube.Faces[1:]}

		err := CheckManifold(open)
		if !errors.Is(err, ErrNonManifold) {
			t.Fatalf("CheckManifold() error = %v, want ErrNonManifold", err)
		}
		var nm *NonManifoldError
		if !errors.As(err, &nm) {
			t.Fatalf("error %T is not *NonManifoldError", err)
		}
		if nm.BadEdges != 3 {
			t.Errorf("BadEdges = %d, want 3", nm.BadEdges)
		}
		if nm.TotalEdges != 18 {
			t.Errorf("TotalEdges = %d, want 18", nm.TotalEdges)
		}
	})

	t.Run("duplicated face", func(t *testing.T) {
		cube := unitCube()
		fin := &Mesh{Vertices: cube.Vertices, Faces: append(append([]Face{}, cube.Faces...), cube.Faces[0])}
		if err := CheckManifold(fin); !errors.Is(err, ErrNonManifold) {
			t.Fatalf("CheckManifold() error = %v, want ErrNonManifold", err)
		}
	})
}

func TestRemoveDegenerate(t *testing.T) {
	cube := unitCube()
	faces := append([]Face{}, cube.Faces...)
	faces = append(faces, Face{0, 1, 1}, Face{2, 2, 2})
	m := &Mesh{Vertices: cube.Vertices, Faces: faces}

	cleaned, removed := RemoveDegenerate(m, DegenerateArea)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if cleaned.FaceCount() != 12 {
		t.Errorf("FaceCount() = %d, want 12", cleaned.FaceCount())
	}
	if m.FaceCount() != 14 {
		t.Errorf("source mesh modified: FaceCount() = %d, want 14", m.FaceCount())
	}

	// collinear corners produce zero area without repeating an index
	line := &Mesh{
		Vertices: []Vertex{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Faces:    []Face{{0, 1, 2}},
	}
	if _, removed := RemoveDegenerate(line, DegenerateArea); removed != 1 {
		t.Errorf("collinear triangle: removed = %d, want 1", removed)
	}
}

func TestFixOrientation(t *testing.T) {
	cube := unitCube()
	inverted := reversed(cube)

	if vol := SignedVolume(inverted); vol >= 0 {
		t.Fatalf("reversed cube signed volume = %f, want negative", vol)
	}

	fixed, flipped, err := FixOrientation(inverted, quietLogger())
	if err != nil {
		t.Fatalf("FixOrientation() error = %v", err)
	}
	if !flipped {
		t.Error("flipped = false, want true")
	}
	if vol := SignedVolume(fixed); !floatEqual(vol, 1, 1e-9) {
		t.Errorf("signed volume after fix = %f, want 1", vol)
	}

	want := make(map[Face]bool)
	for _, f := range cube.Faces {
		want[canonical(f)] = true
	}
	for _, f := range fixed.Faces {
		if !want[canonical(f)] {
			t.Errorf("face %v not in the outward cube", f)
		}
	}

	same, flipped, err := FixOrientation(cube, quietLogger())
	if err != nil {
		t.Fatalf("FixOrientation() error = %v", err)
	}
	if flipped {
		t.Error("outward cube was flipped")
	}
	if same != cube {
		t.Error("outward cube should be returned unchanged")
	}
}

func TestFixOrientationEmpty(t *testing.T) {
	_, _, err := FixOrientation(&Mesh{}, quietLogger())
	if !errors.Is(err, ErrDegenerateVolume) {
		t.Fatalf("error = %v, want ErrDegenerateVolume", err)
	}

	// a tiny inside-out box still reports a non-negative magnitude
	tiny := reversed(Box(Vertex{0, 0, 0}, Vertex{1e-5, 1e-5, 1e-5}))
	var dv *DegenerateVolumeError
	if _, _, err := FixOrientation(tiny, quietLogger()); !errors.As(err, &dv) {
		t.Fatalf("error = %v, want *DegenerateVolumeError", err)
	}
	if dv.Volume <= 0 || dv.Volume >= MinVolume {
		t.Errorf("Volume = %g, want |V| in (0, %g)", dv.Volume, MinVolume)
	}
}

func TestVolumeAndCentroid(t *testing.T) {
	tests := []struct {
		name     string
		mesh     *Mesh
		volume   float64
		centroid Vertex
	}{
		{
			name:     "unit cube at origin",
			mesh:     unitCube(),
			volume:   1,
			centroid: Vertex{0, 0, 0},
		},
		{
			name:     "offset box",
			mesh:     Box(Vertex{0, 1, 2}, Vertex{2, 4, 6}),
			volume:   24,
			centroid: Vertex{1, 2.5, 4},
		},
		{
			name:     "inverted box keeps centroid",
			mesh:     reversed(Box(Vertex{0, 1, 2}, Vertex{2, 4, 6})),
			volume:   24,
			centroid: Vertex{1, 2.5, 4},
		},
		{
			name:     "barge",
			mesh:     Barge(10, 4, 2),
			volume:   80,
			centroid: Vertex{0, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol, c, err := VolumeAndCentroid(tt.mesh)
			if err != nil {
				t.Fatalf("VolumeAndCentroid() error = %v", err)
			}
			if !floatEqual(vol, tt.volume, 1e-9) {
				t.Errorf("volume = %f, want %f", vol, tt.volume)
			}
			if !vertexEqual(c, tt.centroid, 1e-9) {
				t.Errorf("centroid = %v, want %v", c, tt.centroid)
			}
		})
	}
}

func TestVolumeAndCentroidDegenerate(t *testing.T) {
	_, _, err := VolumeAndCentroid(&Mesh{})
	if !errors.Is(err, ErrDegenerateVolume) {
		t.Fatalf("error = %v, want ErrDegenerateVolume", err)
	}

	// an open flat sheet encloses nothing
	sheet := &Mesh{
		Vertices: []Vertex{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		Faces:    []Face{{0, 1, 2}},
	}
	var dv *DegenerateVolumeError
	if _, _, err := VolumeAndCentroid(sheet); !errors.As(err, &dv) {
		t.Fatalf("error = %v, want *DegenerateVolumeError", err)
	}
}

func TestPrepare(t *testing.T) {
	cube := unitCube()
	faces := make([]Face, 0, 13)
	for _, f := range cube.Faces {
		faces = append(faces, Face{f[0], f[2], f[1]})
	}
	faces = append(faces, Face{0, 1, 1})
	raw := &Mesh{Vertices: cube.Vertices, Faces: faces}

	// the sliver adds incidences to edge (0,1), so it must go before the manifold check
	if err := CheckManifold(raw); err == nil {
		t.Fatal("raw mesh unexpectedly manifold")
	}

	hull, report, err := Prepare(raw, quietLogger())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if report.RemovedFaces != 1 {
		t.Errorf("RemovedFaces = %d, want 1", report.RemovedFaces)
	}
	if !report.Flipped {
		t.Error("Flipped = false, want true")
	}
	if report.Edges != 18 {
		t.Errorf("Edges = %d, want 18", report.Edges)
	}
	if !floatEqual(report.Volume, 1, 1e-9) {
		t.Errorf("Volume = %f, want 1", report.Volume)
	}
	if hull.FaceCount() != 12 {
		t.Errorf("FaceCount() = %d, want 12", hull.FaceCount())
	}
}

func TestPrepareErrors(t *testing.T) {
	cube := unitCube()

	open := &Mesh{Vertices: cube.Vertices, Faces: cube.Faces[2:]}
	if _, _, err := Prepare(open, quietLogger()); !errors.Is(err, ErrNonManifold) {
		t.Errorf("open mesh: error = %v, want ErrNonManifold", err)
	}

	bad := &Mesh{Vertices: cube.Vertices, Faces: []Face{{0, 1, 42}}}
	var ie *IndexError
	if _, _, err := Prepare(bad, quietLogger()); !errors.As(err, &ie) {
		t.Fatalf("out of range: error = %v, want *IndexError", err)
	}
	if ie.Index != 42 || ie.Face != 0 {
		t.Errorf("IndexError = %+v", ie)
	}
}

func TestSphere(t *testing.T) {
	s, err := Sphere(Vertex{1, 0, -1}, 2, 32, 16)
	if err != nil {
		t.Fatalf("Sphere() error = %v", err)
	}
	if err := CheckManifold(s); err != nil {
		t.Fatalf("sphere not closed: %v", err)
	}
	if vol := SignedVolume(s); vol <= 0 {
		t.Fatalf("sphere signed volume = %f, want positive", vol)
	}

	vol, c, err := VolumeAndCentroid(s)
	if err != nil {
		t.Fatalf("VolumeAndCentroid() error = %v", err)
	}
	exact := 4.0 / 3.0 * math.Pi * 8
	if math.Abs(vol-exact)/exact > 0.05 {
		t.Errorf("volume = %f, want within 5%% of %f", vol, exact)
	}
	if !vertexEqual(c, Vertex{1, 0, -1}, 1e-9) {
		t.Errorf("centroid = %v, want (1, 0, -1)", c)
	}

	if _, err := Sphere(Vertex{}, 1, 2, 2); err == nil {
		t.Error("expected error for 2 slices")
	}
}

func TestBounds(t *testing.T) {
	box := Bounds(Barge(10, 4, 2))
	if !vertexEqual(box.Min, Vertex{-5, -2, 0}, 1e-12) || !vertexEqual(box.Max, Vertex{5, 2, 2}, 1e-12) {
		t.Errorf("Bounds() = %+v", box)
	}
	if box.Length() != 10 || box.Beam() != 4 || box.Depth() != 2 {
		t.Errorf("dimensions = %f x %f x %f, want 10 x 4 x 2", box.Length(), box.Beam(), box.Depth())
	}
	if empty := Bounds(&Mesh{}); empty != (BoundingBox{}) {
		t.Errorf("empty Bounds() = %+v", empty)
	}
}
