package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexiusacademia/gostab/internal/mesh"
	"github.com/alexiusacademia/gostab/internal/stl"
	"github.com/go-gl/mathgl/mgl64"
)

// sphere tessellation used for "sphere:R" hulls
const (
	sphereSlices = 48
	sphereStacks = 24
)

// loadHull returns the hull mesh and a short description of where it came
// from. Exactly one of stlPath and primitive must be set.
func loadHull(stlPath, primitive string) (*mesh.Mesh, string, error) {
	switch {
	case stlPath != "" && primitive != "":
		return nil, "", errors.New("use either --stl or --hull, not both")
	case stlPath != "":
		m, format, err := stl.ReadFile(stlPath)
		if err != nil {
			return nil, "", err
		}
		return m, fmt.Sprintf("%s (%s STL)", stlPath, format), nil
	case primitive != "":
		m, err := parseHull(primitive)
		if err != nil {
			return nil, "", err
		}
		return m, primitive, nil
	default:
		return nil, "", errors.New("a hull is required: --stl <file> or --hull box:L,B,D | sphere:R")
	}
}

// parseHull builds a primitive hull with its keel at z = 0.
//
//	box:L,B,D   rectangular barge, length L, beam B, depth D
//	sphere:R    UV sphere of radius R
func parseHull(spec string) (*mesh.Mesh, error) {
	kind, args, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("invalid hull %q: expected kind:dimensions", spec)
	}

	var dims []float64
	for _, s := range strings.Split(args, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid hull %q: %w", spec, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("invalid hull %q: dimensions must be positive", spec)
		}
		dims = append(dims, v)
	}

	switch strings.ToLower(kind) {
	case "box", "barge":
		if len(dims) != 3 {
			return nil, fmt.Errorf("invalid hull %q: box needs length,beam,depth", spec)
		}
		return mesh.Barge(dims[0], dims[1], dims[2]), nil
	case "sphere":
		if len(dims) != 1 {
			return nil, fmt.Errorf("invalid hull %q: sphere needs a radius", spec)
		}
		r := dims[0]
		return mesh.Sphere(mgl64.Vec3{0, 0, r}, r, sphereSlices, sphereStacks)
	default:
		return nil, fmt.Errorf("unknown hull kind %q (box, sphere)", kind)
	}
}
