package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a point in hull coordinates (metres).
// X runs along the length, Y across the beam (port positive), Z upward.
type Vertex = mgl64.Vec3

// Face is a triangle given by three vertex indices.
// Winding is counter-clockwise seen from outside the solid.
type Face [3]int

// Mesh is a flat vertex arena plus the triangles that index into it.
// Operations in this package never modify a Mesh in place; they return a
// new one that may share the vertex slice with its source.
type Mesh struct {
	Vertices []Vertex
	Faces    []Face
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// Triangle returns the three corner positions of face i.
func (m *Mesh) Triangle(i int) (Vertex, Vertex, Vertex) {
	f := m.Faces[i]
	return m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
}

// BoundingBox holds the axis-aligned extent of a mesh
type BoundingBox struct {
	Min Vertex
	Max Vertex
}

// Length is the extent along X (m)
func (b BoundingBox) Length() float64 { return b.Max.X() - b.Min.X() }

// Beam is the extent along Y (m)
func (b BoundingBox) Beam() float64 { return b.Max.Y() - b.Min.Y() }

// Depth is the extent along Z (m)
func (b BoundingBox) Depth() float64 { return b.Max.Z() - b.Min.Z() }

// Bounds computes the bounding box of all vertices.
// An empty mesh yields a zero box.
func Bounds(m *Mesh) BoundingBox {
	if len(m.Vertices) == 0 {
		return BoundingBox{}
	}

	box := BoundingBox{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			box.Min[k] = math.Min(box.Min[k], v[k])
			box.Max[k] = math.Max(box.Max[k], v[k])
		}
	}
	return box
}

var (
	// ErrNonManifold is matched by every *NonManifoldError
	ErrNonManifold = errors.New("non-manifold mesh")

	// ErrDegenerateVolume is matched by every *DegenerateVolumeError
	ErrDegenerateVolume = errors.New("degenerate volume")
)

// NonManifoldError reports edges that are not shared by exactly two faces.
type NonManifoldError struct {
	BadEdges   int
	TotalEdges int
}

func (e *NonManifoldError) Error() string {
	return fmt.Sprintf("non-manifold or open edges detected: %d of %d edges are not shared by exactly two faces",
		e.BadEdges, e.TotalEdges)
}

func (e *NonManifoldError) Is(target error) bool {
	return target == ErrNonManifold
}

// DegenerateVolumeError reports a volume integral that is zero or very small.
type DegenerateVolumeError struct {
	Volume float64
	Faces  int
}

func (e *DegenerateVolumeError) Error() string {
	return fmt.Sprintf("computed volume is zero or very small (|V| = %.3g over %d faces)", e.Volume, e.Faces)
}

func (e *DegenerateVolumeError) Is(target error) bool {
	return target == ErrDegenerateVolume
}

// IndexError reports a face that references a vertex outside the arena.
type IndexError struct {
	Face     int
	Index    int
	Vertices int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("face %d references vertex %d, mesh has %d vertices", e.Face, e.Index, e.Vertices)
}
