// Package stl reads and writes triangulated hull surfaces in the STL
// interchange format, in both its binary and ASCII variants.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexiusacademia/gostab/internal/mesh"
	"github.com/krasin/stl"
)

const (
	headerSize = 80
	recordSize = 4*3*4 + 2 // normal, three corners, attribute byte count
)

// Format identifies the STL variant of a file
type Format int

const (
	Binary Format = iota
	ASCII
)

func (f Format) String() string {
	if f == ASCII {
		return "ASCII"
	}
	return "binary"
}

// ReadFile loads an STL file. A file whose size matches the binary layout
// exactly is read as binary even if its header starts with "solid", which
// some exporters write into binary headers.
func ReadFile(path string) (*mesh.Mesh, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Binary, fmt.Errorf("stl: read %s: %w", path, err)
	}
	m, format, err := Decode(data)
	if err != nil {
		return nil, format, fmt.Errorf("stl: %s: %w", path, err)
	}
	return m, format, nil
}

// Read loads a whole STL stream and decodes it with Decode.
func Read(r io.Reader) (*mesh.Mesh, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Binary, err
	}
	return Decode(data)
}

// Decode parses an STL image held in memory. Corners with identical
// coordinates are merged into one vertex.
func Decode(data []byte) (*mesh.Mesh, Format, error) {
	format := Detect(data)
	if format == ASCII && binarySizeMatches(data) {
		format = Binary
	}

	var expect int
	if format == Binary {
		n, err := checkBinary(data)
		if err != nil {
			return nil, format, err
		}
		expect = n
		if Detect(data) == ASCII {
			// the decoder picks the variant from the same keyword
			data = bytes.Clone(data)
			clear(data[:5])
		}
	} else {
		n, err := countVertices(data)
		if err != nil {
			return nil, format, err
		}
		expect = n / 3
	}

	tris, err := stl.Read(bytes.NewReader(data))
	if err != nil {
		return nil, format, err
	}
	if len(tris) != expect {
		return nil, format, fmt.Errorf("decoded %d of %d triangles: %w", len(tris), expect, io.ErrUnexpectedEOF)
	}
	return fromTriangles(tris), format, nil
}

// Detect reports ASCII when the data begins with the "solid" keyword
func Detect(data []byte) Format {
	if len(data) >= 5 && strings.EqualFold(string(data[:5]), "solid") {
		return ASCII
	}
	return Binary
}

func binarySizeMatches(data []byte) bool {
	if len(data) < headerSize+4 {
		return false
	}
	return int64(len(data)) == int64(headerSize+4)+int64(triangleCount(data))*recordSize
}

func triangleCount(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[headerSize:])
}

// checkBinary compares the declared triangle count with the bytes present,
// so a corrupt count never sizes an allocation.
func checkBinary(data []byte) (int, error) {
	if len(data) < headerSize+4 {
		return 0, fmt.Errorf("header: %d of %d bytes: %w", len(data), headerSize+4, io.ErrUnexpectedEOF)
	}
	n := int64(triangleCount(data))
	if have := int64(len(data)-headerSize-4) / recordSize; have < n {
		return 0, fmt.Errorf("header declares %d triangles, data holds %d: %w", n, have, io.ErrUnexpectedEOF)
	}
	return int(n), nil
}

// countVertices counts "vertex" lines of an ASCII file. A file with none is
// most likely a cut-off binary file whose header starts with "solid".
func countVertices(data []byte) (int, error) {
	n := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if fields := strings.Fields(scanner.Text()); len(fields) > 0 && fields[0] == "vertex" {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	switch {
	case n == 0:
		return 0, fmt.Errorf("no facets found, truncated binary file?: %w", io.ErrUnexpectedEOF)
	case n%3 != 0:
		return 0, fmt.Errorf("incomplete facet with %d vertices at end of file: %w", n%3, io.ErrUnexpectedEOF)
	}
	return n, nil
}

func fromTriangles(tris []stl.Triangle) *mesh.Mesh {
	m := &mesh.Mesh{Faces: make([]mesh.Face, 0, len(tris))}
	vertMap := make(map[stl.Point]int)

	for _, t := range tris {
		var face mesh.Face
		for k, p := range t.V {
			idx, ok := vertMap[p]
			if !ok {
				idx = len(m.Vertices)
				m.Vertices = append(m.Vertices, mesh.Vertex{float64(p[0]), float64(p[1]), float64(p[2])})
				vertMap[p] = idx
			}
			face[k] = idx
		}
		m.Faces = append(m.Faces, face)
	}
	return m
}

func toTriangles(m *mesh.Mesh) []stl.Triangle {
	tris := make([]stl.Triangle, len(m.Faces))
	for i := range m.Faces {
		v0, v1, v2 := m.Triangle(i)
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		if l := normal.Len(); l > 0 {
			normal = normal.Mul(1 / l)
		}
		tris[i].N = point(normal)
		tris[i].V = [3]stl.Point{point(v0), point(v1), point(v2)}
	}
	return tris
}

func point(v mesh.Vertex) stl.Point {
	return stl.Point{float32(v[0]), float32(v[1]), float32(v[2])}
}

// WriteBinary writes m as a binary STL with per-face normals.
func WriteBinary(w io.Writer, m *mesh.Mesh) error {
	return stl.WriteBinary(w, toTriangles(m))
}

// WriteASCII writes m as an ASCII STL with per-face normals.
func WriteASCII(w io.Writer, m *mesh.Mesh) error {
	return stl.WriteASCII(w, toTriangles(m))
}
