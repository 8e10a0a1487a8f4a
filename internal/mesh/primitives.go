package mesh

import (
	"fmt"
	"math"
)

// Box creates a closed, outward-oriented box spanning min to max (12 triangles).
func Box(min, max Vertex) *Mesh {
	x0, y0, z0 := min.X(), min.Y(), min.Z()
	x1, y1, z1 := max.X(), max.Y(), max.Z()

	vertices := []Vertex{
		{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0},
		{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1},
	}
	faces := []Face{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // starboard (-y)
		{3, 7, 6}, {3, 6, 2}, // port (+y)
		{0, 4, 7}, {0, 7, 3}, // aft (-x)
		{1, 2, 6}, {1, 6, 5}, // forward (+x)
	}
	return &Mesh{Vertices: vertices, Faces: faces}
}

// Barge creates a box hull of the given length, beam and depth with the keel
// at z = 0, centred on x = 0 and the centreline y = 0.
func Barge(length, beam, depth float64) *Mesh {
	return Box(Vertex{-length / 2, -beam / 2, 0}, Vertex{length / 2, beam / 2, depth})
}

// Sphere creates a closed UV sphere. Longitudes start on the +x axis so the
// mesh is mirror-symmetric about the y = 0 plane whenever slices is even.
func Sphere(center Vertex, radius float64, slices, stacks int) (*Mesh, error) {
	if slices < 3 || stacks < 2 {
		return nil, fmt.Errorf("sphere needs at least 3 slices and 2 stacks, got %d and %d", slices, stacks)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("invalid sphere radius: %.3f", radius)
	}

	vertices := []Vertex{center.Add(Vertex{0, 0, radius})}
	for i := 1; i < stacks; i++ {
		polar := math.Pi * float64(i) / float64(stacks)
		sp, cp := math.Sincos(polar)
		for j := 0; j < slices; j++ {
			az := 2 * math.Pi * float64(j) / float64(slices)
			sa, ca := math.Sincos(az)
			vertices = append(vertices, center.Add(Vertex{radius * sp * ca, radius * sp * sa, radius * cp}))
		}
	}
	bottom := len(vertices)
	vertices = append(vertices, center.Add(Vertex{0, 0, -radius}))

	ring := func(i, j int) int {
		return 1 + (i-1)*slices + j%slices
	}

	var faces []Face
	for j := 0; j < slices; j++ {
		faces = append(faces, Face{0, ring(1, j), ring(1, j+1)})
	}
	for i := 1; i < stacks-1; i++ {
		for j := 0; j < slices; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			faces = append(faces, Face{a, c, d}, Face{a, d, b})
		}
	}
	for j := 0; j < slices; j++ {
		faces = append(faces, Face{ring(stacks-1, j), bottom, ring(stacks-1, j+1)})
	}

	return &Mesh{Vertices: vertices, Faces: faces}, nil
}
