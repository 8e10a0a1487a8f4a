package hydro

import (
	"math"
	"slices"

	"github.com/alexiusacademia/gostab/internal/mesh"
)

// loopGrid is the spacing (m) used to match waterline endpoints that come
// from neighbouring faces
const loopGrid = 1e-9

// ClipStats describes the waterline produced by a clip
type ClipStats struct {
	Segments       int     // waterline segments recorded, one per cut face
	LoopVertices   int     // points on all capped loops
	Loops          int     // closed waterline loops, each capped separately
	WaterplaneArea float64 // net area of the caps, holes excluded (m²)
}

// clipper accumulates the submerged sub-mesh of one source mesh
type clipper struct {
	src    *mesh.Mesh
	planeZ float64

	vertices  []mesh.Vertex
	faces     []mesh.Face
	index     map[int]int // source vertex index -> output index
	waterline [][2]int
}

// Clip returns the closed solid made of all material of m at or below planeZ.
//
// A vertex with z <= planeZ counts as submerged. Faces crossing the plane are
// split by linear interpolation along their edges, keeping the source
// winding. Every waterline segment runs along the boundary in the direction
// of its face, so segments chain into closed loops, and each loop is capped
// on its own. Loops around enclosed holes cancel the cap of the loop around
// them.
// Fully dry or fully submerged meshes are returned without a cap.
func Clip(m *mesh.Mesh, planeZ float64) (*mesh.Mesh, ClipStats) {
	c := &clipper{
		src:    m,
		planeZ: planeZ,
		index:  make(map[int]int),
	}

	for _, f := range m.Faces {
		c.clipFace(f)
	}

	stats := ClipStats{Segments: len(c.waterline)}
	for _, loop := range c.loops() {
		stats.Loops++
		stats.LoopVertices += len(loop)
		stats.WaterplaneArea += c.capLoop(loop)
	}

	return &mesh.Mesh{Vertices: c.vertices, Faces: c.faces}, stats
}

func (c *clipper) submerged(i int) bool {
	return c.src.Vertices[i].Z() <= c.planeZ
}

// keep maps a source vertex into the output arena, reusing earlier copies
func (c *clipper) keep(i int) int {
	if out, ok := c.index[i]; ok {
		return out
	}
	out := len(c.vertices)
	c.vertices = append(c.vertices, c.src.Vertices[i])
	c.index[i] = out
	return out
}

// intersect appends the point where the edge wet-dry meets the plane.
// Intersection points are never shared between faces.
func (c *clipper) intersect(wet, dry int) int {
	v1, v2 := c.src.Vertices[wet], c.src.Vertices[dry]
	t := (c.planeZ - v1.Z()) / (v2.Z() - v1.Z())
	out := len(c.vertices)
	c.vertices = append(c.vertices, v1.Add(v2.Sub(v1).Mul(t)))
	return out
}

func (c *clipper) clipFace(f mesh.Face) {
	var wet [3]bool
	n := 0
	for k, i := range f {
		if c.submerged(i) {
			wet[k] = true
			n++
		}
	}

	switch n {
	case 3:
		c.faces = append(c.faces, mesh.Face{c.keep(f[0]), c.keep(f[1]), c.keep(f[2])})

	case 1:
		// rotate so the wet corner leads: (a wet, b dry, c dry)
		k := 0
		for !wet[k] {
			k++
		}
		a, b, d := f[k], f[(k+1)%3], f[(k+2)%3]

		ia := c.keep(a)
		pab := c.intersect(a, b)
		pad := c.intersect(a, d)

		c.faces = append(c.faces, mesh.Face{ia, pab, pad})
		c.waterline = append(c.waterline, [2]int{pab, pad})

	case 2:
		// rotate so the dry corner trails: (a wet, b wet, d dry)
		k := 0
		for wet[k] {
			k++
		}
		a, b, d := f[(k+1)%3], f[(k+2)%3], f[k]

		ia, ib := c.keep(a), c.keep(b)
		pbd := c.intersect(b, d)
		pad := c.intersect(a, d)

		c.faces = append(c.faces,
			mesh.Face{ia, ib, pbd},
			mesh.Face{ia, pbd, pad},
		)
		c.waterline = append(c.waterline, [2]int{pbd, pad})
	}
}

// waterlineKey identifies a waterline point in the plane. Neighbouring faces
// compute the same crossing with the same arithmetic, so matching keys means
// matching points.
type waterlineKey [2]int64

func (c *clipper) keyOf(i int) waterlineKey {
	v := c.vertices[i]
	return waterlineKey{int64(math.Round(v.X() / loopGrid)), int64(math.Round(v.Y() / loopGrid))}
}

// loops chains the waterline segments end to start into closed loops. Each
// loop lists the start vertex of its segments in traversal order. Zero
// length segments, produced where a vertex lies on the plane, are skipped.
func (c *clipper) loops() [][]int {
	starts := make(map[waterlineKey][]int)
	for s, seg := range c.waterline {
		if k := c.keyOf(seg[0]); k != c.keyOf(seg[1]) {
			starts[k] = append(starts[k], s)
		}
	}

	used := make([]bool, len(c.waterline))
	var loops [][]int
	for s, seg := range c.waterline {
		if used[s] || c.keyOf(seg[0]) == c.keyOf(seg[1]) {
			continue
		}

		var loop []int
		for cur := s; cur >= 0; {
			used[cur] = true
			loop = append(loop, c.waterline[cur][0])

			end := c.keyOf(c.waterline[cur][1])
			cur = -1
			for _, cand := range starts[end] {
				if !used[cand] {
					cur = cand
					break
				}
			}
		}

		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// cross2 is the z component of (q-p)×(r-p)
func cross2(p, q, r mesh.Vertex) float64 {
	return (q.X()-p.X())*(r.Y()-p.Y()) - (q.Y()-p.Y())*(r.X()-p.X())
}

// capLoop closes one waterline loop by ear clipping in the plane and returns
// the signed cap area. The cap runs against the loop, so an outer boundary is
// capped counter-clockwise seen from above (normal up) and the boundary of an
// enclosed hole clockwise. Over a hole the two caps cancel, in the volume
// integral and in the area. Loops need not be convex or star-shaped.
func (c *clipper) capLoop(loop []int) float64 {
	// pinched loops repeat a point
	poly := make([]int, 0, len(loop))
	for _, i := range slices.Backward(loop) {
		if len(poly) > 0 && c.keyOf(poly[len(poly)-1]) == c.keyOf(i) {
			continue
		}
		poly = append(poly, i)
	}
	if len(poly) > 1 && c.keyOf(poly[0]) == c.keyOf(poly[len(poly)-1]) {
		poly = poly[:len(poly)-1]
	}
	if len(poly) < 3 {
		return 0
	}

	var signed float64
	for k := range poly {
		a, b := c.vertices[poly[k]], c.vertices[poly[(k+1)%len(poly)]]
		signed += a.X()*b.Y() - b.X()*a.Y()
	}
	if signed == 0 {
		return 0
	}
	turn := 1.0
	if signed < 0 {
		turn = -1
	}

	var area float64
	emit := func(p, q, r int) {
		c.faces = append(c.faces, mesh.Face{p, q, r})
		area += cross2(c.vertices[p], c.vertices[q], c.vertices[r]) / 2
	}

	for len(poly) > 3 {
		n := len(poly)
		clipped := false
		for k := 0; k < n; k++ {
			p, q, r := poly[(k+n-1)%n], poly[k], poly[(k+1)%n]
			if turn*cross2(c.vertices[p], c.vertices[q], c.vertices[r]) <= 0 {
				continue
			}
			if c.blocksEar(poly, p, q, r, turn) {
				continue
			}
			emit(p, q, r)
			poly = slices.Delete(poly, k, k+1)
			clipped = true
			break
		}
		if clipped {
			continue
		}

		// no ear left: drop a collinear point, or give up and fan the rest
		dropped := false
		for k := 0; k < n; k++ {
			p, q, r := poly[(k+n-1)%n], poly[k], poly[(k+1)%n]
			if cross2(c.vertices[p], c.vertices[q], c.vertices[r]) == 0 {
				poly = slices.Delete(poly, k, k+1)
				dropped = true
				break
			}
		}
		if !dropped {
			for k := 1; k < n-1; k++ {
				emit(poly[0], poly[k], poly[k+1])
			}
			return area
		}
	}

	if len(poly) == 3 {
		emit(poly[0], poly[1], poly[2])
	}
	return area
}

// blocksEar reports whether any other polygon point lies strictly inside
// the triangle p, q, r, whose winding sign is turn
func (c *clipper) blocksEar(poly []int, p, q, r int, turn float64) bool {
	a, b, d := c.vertices[p], c.vertices[q], c.vertices[r]
	for _, i := range poly {
		if i == p || i == q || i == r {
			continue
		}
		v := c.vertices[i]
		if turn*cross2(a, b, v) > 0 && turn*cross2(b, d, v) > 0 && turn*cross2(d, a, v) > 0 {
			return true
		}
	}
	return false
}
