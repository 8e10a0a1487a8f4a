package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseHull(t *testing.T) {
	tests := []struct {
		spec      string
		wantFaces int
		wantErr   bool
	}{
		{"box:20,6,3", 12, false},
		{"barge:1,1,1", 12, false},
		{"sphere:2", 2 * sphereSlices * (sphereStacks - 1), false},
		{"box:20,6", 0, true},
		{"box:20,-6,3", 0, true},
		{"sphere:r", 0, true},
		{"cylinder:1,2", 0, true},
		{"box", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			m, err := parseHull(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHull(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err == nil && m.FaceCount() != tt.wantFaces {
				t.Errorf("parseHull(%q) faces = %d, want %d", tt.spec, m.FaceCount(), tt.wantFaces)
			}
		})
	}
}

func TestExportThenGZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barge.stl")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	rootCmd.SetArgs([]string{"mesh", "export", "--hull", "box:20,6,3", "-o", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("mesh export: %v", err)
	}
	if !strings.Contains(out.String(), "12 faces written") {
		t.Errorf("mesh export output:\n%s", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"gz", "--stl", path, "--kg", "2", "--draft", "1.5", "--angles", "0,10,20", "--criteria"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("gz: %v", err)
	}
	for _, want := range []string{"RIGHTING ARM (GZ) CURVE", "binary STL", "GZ CURVE SUMMARY", "2.2.1.1", "not evaluated"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("gz output missing %q:\n%s", want, out.String())
		}
	}
}

func TestExportASCIIThenGZDiagram(t *testing.T) {
	dir := t.TempDir()
	hullPath := filepath.Join(dir, "barge.stl")
	plotPath := filepath.Join(dir, "gz.curve")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		meshExportASCII = false
		gzExportFile = ""
	}()

	rootCmd.SetArgs([]string{"mesh", "export", "--hull", "box:20,6,3", "--ascii", "-o", hullPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("mesh export: %v", err)
	}

	out.Reset()
	rootCmd.SetArgs([]string{"gz", "--stl", hullPath, "--kg", "2", "--draft", "1.5", "--angles", "0,15,30", "-o", plotPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("gz: %v", err)
	}
	for _, want := range []string{"ASCII STL", "Diagram exported to: " + plotPath + ".png"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("gz output missing %q:\n%s", want, out.String())
		}
	}
	if _, err := os.Stat(plotPath + ".png"); err != nil {
		t.Errorf("diagram not written: %v", err)
	}
}
