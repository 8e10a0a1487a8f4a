package mesh

import "math"

// MinVolume is the smallest absolute volume accepted as a real solid (m³)
const MinVolume = 1e-12

// SignedVolume sums the signed tetrahedra formed by every face and the origin.
// It is positive for an outward-oriented closed mesh.
func SignedVolume(m *Mesh) float64 {
	var vol float64
	for i := range m.Faces {
		v0, v1, v2 := m.Triangle(i)
		vol += v0.Dot(v1.Cross(v2))
	}
	return vol / 6
}

// VolumeAndCentroid integrates the enclosed volume and its centroid using
// the divergence theorem over the triangulated boundary.
//
// Each face contributes the tetrahedron (origin, v0, v1, v2) with signed
// volume t = v0·(v1×v2)/6 and centroid (v0+v1+v2)/4. The centroid is the
// volume-weighted sum divided by the signed total, so an inverted mesh still
// yields the right point; the returned volume is always non-negative.
func VolumeAndCentroid(m *Mesh) (float64, Vertex, error) {
	var vol float64
	var moment Vertex

	for i := range m.Faces {
		v0, v1, v2 := m.Triangle(i)
		t := v0.Dot(v1.Cross(v2)) / 6
		vol += t
		moment = moment.Add(v0.Add(v1).Add(v2).Mul(t / 4))
	}

	if math.Abs(vol) < MinVolume {
		return 0, Vertex{}, &DegenerateVolumeError{Volume: math.Abs(vol), Faces: len(m.Faces)}
	}

	return math.Abs(vol), moment.Mul(1 / vol), nil
}
