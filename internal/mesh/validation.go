package mesh

import (
	"fmt"
	"log/slog"
	"math"
)

// DegenerateArea is the default area (m²) at or below which a triangle is dropped
const DegenerateArea = 1e-12

// edge is an undirected vertex pair with a < b
type edge [2]int

func makeEdge(i, j int) edge {
	if i > j {
		i, j = j, i
	}
	return edge{i, j}
}

// Report summarises the corrective actions taken while preparing a hull
type Report struct {
	RemovedFaces int     // degenerate triangles dropped
	Edges        int     // distinct undirected edges after cleanup
	Flipped      bool    // face winding was reversed
	Volume       float64 // enclosed volume after orientation fix (m³)
}

// CheckIndices verifies every face references a vertex inside the arena.
func CheckIndices(m *Mesh) error {
	n := len(m.Vertices)
	for fi, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return &IndexError{Face: fi, Index: idx, Vertices: n}
			}
		}
	}
	return nil
}

// RemoveDegenerate drops every face whose area is at or below eps and
// returns the cleaned mesh along with the number of faces removed.
func RemoveDegenerate(m *Mesh, eps float64) (*Mesh, int) {
	keep := make([]Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		v0, v1, v2 := m.Triangle(i)
		area := v1.Sub(v0).Cross(v2.Sub(v0)).Len() / 2
		if area > eps {
			keep = append(keep, f)
		}
	}
	return &Mesh{Vertices: m.Vertices, Faces: keep}, len(m.Faces) - len(keep)
}

// edgeCounts maps every undirected edge to the number of faces using it
func edgeCounts(m *Mesh) map[edge]int {
	counts := make(map[edge]int, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		counts[makeEdge(f[0], f[1])]++
		counts[makeEdge(f[1], f[2])]++
		counts[makeEdge(f[2], f[0])]++
	}
	return counts
}

// CheckManifold fails with a *NonManifoldError if any undirected edge is not
// shared by exactly two faces, i.e. the mesh has a boundary or a fin.
func CheckManifold(m *Mesh) error {
	counts := edgeCounts(m)

	bad := 0
	for _, c := range counts {
		if c != 2 {
			bad++
		}
	}
	if bad > 0 {
		return &NonManifoldError{BadEdges: bad, TotalEdges: len(counts)}
	}
	return nil
}

// FixOrientation reverses the winding of every face when the signed volume
// is negative. The mesh must already be closed for the sign to mean anything.
func FixOrientation(m *Mesh, log *slog.Logger) (*Mesh, bool, error) {
	log = orDefault(log)

	vol := SignedVolume(m)
	if math.Abs(vol) < MinVolume {
		return nil, false, &DegenerateVolumeError{Volume: math.Abs(vol), Faces: len(m.Faces)}
	}
	if vol > 0 {
		log.Debug("orientation check passed", "volume", vol)
		return m, false, nil
	}

	log.Warn("inverted mesh detected, flipping face orientation", "volume", vol, "faces", len(m.Faces))
	flipped := make([]Face, len(m.Faces))
	for i, f := range m.Faces {
		flipped[i] = Face{f[0], f[2], f[1]}
	}
	return &Mesh{Vertices: m.Vertices, Faces: flipped}, true, nil
}

// Prepare turns a raw hull into a validated solid.
//
// Degenerate faces are removed before the manifold check because a sliver
// triangle adds spurious edge incidences, and the orientation fix runs last
// because the volume sign is only defined on a closed surface.
func Prepare(m *Mesh, log *slog.Logger) (*Mesh, *Report, error) {
	log = orDefault(log)
	report := &Report{}

	if err := CheckIndices(m); err != nil {
		return nil, report, err
	}

	cleaned, removed := RemoveDegenerate(m, DegenerateArea)
	report.RemovedFaces = removed
	if removed > 0 {
		log.Warn("removed degenerate triangles", "count", removed)
	}

	if err := CheckManifold(cleaned); err != nil {
		return nil, report, fmt.Errorf("manifold check: %w", err)
	}
	report.Edges = len(edgeCounts(cleaned))
	log.Debug("manifold check passed", "edges", report.Edges)

	oriented, flipped, err := FixOrientation(cleaned, log)
	if err != nil {
		return nil, report, fmt.Errorf("orientation check: %w", err)
	}
	report.Flipped = flipped
	report.Volume = SignedVolume(oriented)

	return oriented, report, nil
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
