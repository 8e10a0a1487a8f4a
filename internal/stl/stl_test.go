package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexiusacademia/gostab/internal/mesh"
)

func tetra() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []mesh.Vertex{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Faces:    []mesh.Face{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}},
	}
}

func tetraASCII(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteASCII(&buf, tetra()); err != nil {
		t.Fatalf("WriteASCII() error = %v", err)
	}
	return buf.Bytes()
}

func TestReadASCII(t *testing.T) {
	m, format, err := Read(bytes.NewReader(tetraASCII(t)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if format != ASCII {
		t.Errorf("format = %v, want ASCII", format)
	}
	if m.VertexCount() != 4 || m.FaceCount() != 4 {
		t.Fatalf("got %d vertices, %d faces, want 4 and 4", m.VertexCount(), m.FaceCount())
	}
	if err := mesh.CheckManifold(m); err != nil {
		t.Errorf("tetrahedron not closed: %v", err)
	}
	vol, _, err := mesh.VolumeAndCentroid(m)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(vol-1.0/6.0) > 1e-7 {
		t.Errorf("volume = %f, want 1/6", vol)
	}
}

func TestReadASCIIIncompleteFacet(t *testing.T) {
	// keep the file up to its second vertex line
	var lines []string
	vertices := 0
	for _, line := range strings.Split(string(tetraASCII(t)), "\n") {
		lines = append(lines, line)
		if strings.HasPrefix(strings.TrimSpace(line), "vertex") {
			vertices++
			if vertices == 2 {
				break
			}
		}
	}

	_, _, err := Read(strings.NewReader(strings.Join(lines, "\n")))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	barge := mesh.Barge(10, 4, 2)

	var buf bytes.Buffer
	if err := WriteBinary(&buf, barge); err != nil {
		t.Fatalf("WriteBinary() error = %v", err)
	}
	if buf.Len() != 84+12*50 {
		t.Fatalf("size = %d, want %d", buf.Len(), 84+12*50)
	}

	m, format, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if format != Binary {
		t.Errorf("format = %v, want binary", format)
	}
	// shared corners are merged back into 8 vertices
	if m.VertexCount() != 8 || m.FaceCount() != 12 {
		t.Fatalf("got %d vertices, %d faces, want 8 and 12", m.VertexCount(), m.FaceCount())
	}
	if err := mesh.CheckManifold(m); err != nil {
		t.Errorf("round trip not closed: %v", err)
	}
	vol, _, err := mesh.VolumeAndCentroid(m)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(vol-80) > 1e-9 {
		t.Errorf("volume = %f, want 80", vol)
	}
}

func binaryBarge(t *testing.T, header string) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteBinary(&buf, mesh.Barge(2, 1, 1)); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	clear(data[:headerSize])
	copy(data, header)
	return data
}

func TestReadBinaryTruncated(t *testing.T) {
	data := binaryBarge(t, "")

	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"short header", data[:40]},
		{"cut record", data[:len(data)-10]},
		{"cut after header", data[:headerSize+4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Read(bytes.NewReader(tt.data)); !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("error = %v, want ErrUnexpectedEOF", err)
			}
		})
	}
}

func TestReadBinaryHugeCount(t *testing.T) {
	// header only, claiming the largest possible triangle count
	data := make([]byte, headerSize+4)
	binary.LittleEndian.PutUint32(data[headerSize:], math.MaxUint32)

	if _, _, err := Read(bytes.NewReader(data)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadSolidHeaderTruncated(t *testing.T) {
	// binary file with a "solid" header, cut inside its second record
	data := binaryBarge(t, "solid exported by cad")
	data = data[:headerSize+4+recordSize+20]

	m, _, err := Read(bytes.NewReader(data))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrUnexpectedEOF", err)
	}
	if m != nil {
		t.Errorf("got mesh with %d faces, want none", m.FaceCount())
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	asciiPath := filepath.Join(dir, "tetra.stl")
	if err := os.WriteFile(asciiPath, tetraASCII(t), 0644); err != nil {
		t.Fatal(err)
	}
	m, format, err := ReadFile(asciiPath)
	if err != nil {
		t.Fatalf("ReadFile(ascii) error = %v", err)
	}
	if format != ASCII || m.FaceCount() != 4 {
		t.Errorf("ascii: format %v, %d faces", format, m.FaceCount())
	}

	// binary file whose header happens to start with "solid"
	binPath := filepath.Join(dir, "barge.stl")
	if err := os.WriteFile(binPath, binaryBarge(t, "solid exported by a CAD tool"), 0644); err != nil {
		t.Fatal(err)
	}
	m, format, err = ReadFile(binPath)
	if err != nil {
		t.Fatalf("ReadFile(binary) error = %v", err)
	}
	if format != Binary || m.FaceCount() != 12 {
		t.Errorf("binary: format %v, %d faces", format, m.FaceCount())
	}

	if _, _, err := ReadFile(filepath.Join(dir, "missing.stl")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: error = %v, want ErrNotExist", err)
	}
}
