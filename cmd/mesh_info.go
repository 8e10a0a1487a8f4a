package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/alexiusacademia/gostab/internal/mesh"
	"github.com/spf13/cobra"
)

var (
	meshInfoSTL  string
	meshInfoHull string
)

var meshInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Validate a hull and report its geometry",
	Long: `Load a hull, run the same validation gz runs, and report the result.

Validation removes degenerate triangles, checks that every edge is shared by
exactly two faces, and turns the winding outward if the enclosed volume is
negative.

Examples:
  gostab mesh info --stl kcs.stl
  gostab mesh info --hull sphere:3`,
	RunE: runMeshInfo,
}

func init() {
	meshCmd.AddCommand(meshInfoCmd)

	meshInfoCmd.Flags().StringVar(&meshInfoSTL, "stl", "", "Hull surface as an STL file (binary or ASCII)")
	meshInfoCmd.Flags().StringVar(&meshInfoHull, "hull", "", "Primitive hull: box:L,B,D or sphere:R")
	meshInfoCmd.MarkFlagsMutuallyExclusive("stl", "hull")
	meshInfoCmd.MarkFlagsOneRequired("stl", "hull")
}

func runMeshInfo(cmd *cobra.Command, args []string) error {
	raw, source, err := loadHull(meshInfoSTL, meshInfoHull)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     HULL MESH REPORT")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Hull: %s\n", source)
	fmt.Fprintln(out)

	bb := mesh.Bounds(raw)
	fmt.Fprintln(out, "GEOMETRY:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Vertices:\t%d\n", raw.VertexCount())
	fmt.Fprintf(w, "  Faces:\t%d\n", raw.FaceCount())
	fmt.Fprintf(w, "  x range:\t%.4f .. %.4f m\n", bb.Min.X(), bb.Max.X())
	fmt.Fprintf(w, "  y range:\t%.4f .. %.4f m\n", bb.Min.Y(), bb.Max.Y())
	fmt.Fprintf(w, "  z range:\t%.4f .. %.4f m\n", bb.Min.Z(), bb.Max.Z())
	fmt.Fprintf(w, "  Length x Beam x Depth:\t%.3f x %.3f x %.3f m\n", bb.Length(), bb.Beam(), bb.Depth())
	w.Flush()
	fmt.Fprintln(out)

	hull, report, err := mesh.Prepare(raw, logger)

	fmt.Fprintln(out, "VALIDATION:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Degenerate faces removed:\t%d\n", report.RemovedFaces)
	var nm *mesh.NonManifoldError
	if errors.As(err, &nm) {
		fmt.Fprintf(w, "  Closed surface:\t✗ %d of %d edges not shared by two faces\n", nm.BadEdges, nm.TotalEdges)
	} else if err == nil {
		fmt.Fprintf(w, "  Closed surface:\t✓ %d edges\n", report.Edges)
	}
	if err == nil {
		winding := "outward"
		if report.Flipped {
			winding = "inward, reversed"
		}
		fmt.Fprintf(w, "  Face winding:\t%s\n", winding)
	}
	w.Flush()
	fmt.Fprintln(out)

	if err != nil {
		return fmt.Errorf("hull is not usable: %w", err)
	}

	vol, c, err := mesh.VolumeAndCentroid(hull)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "SOLID:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Enclosed volume:\t%.4f m³\n", vol)
	fmt.Fprintf(w, "  Centroid (x, y, z):\t(%.4f, %.4f, %.4f) m\n", c.X(), c.Y(), c.Z())
	w.Flush()
	fmt.Fprintln(out)

	return nil
}
