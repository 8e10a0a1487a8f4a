package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/gostab/internal/stl"
	"github.com/spf13/cobra"
)

var (
	meshExportHull   string
	meshExportOutput string
	meshExportASCII  bool
)

var meshExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a primitive hull to an STL file",
	Long: `Tessellate a primitive hull and save it as an STL file (binary unless
--ascii is given), for use as a test input or in other tools.

Examples:
  gostab mesh export --hull box:20,6,3 -o barge.stl
  gostab mesh export --hull sphere:5 --ascii -o sphere.stl`,
	RunE: runMeshExport,
}

func init() {
	meshCmd.AddCommand(meshExportCmd)

	meshExportCmd.Flags().StringVar(&meshExportHull, "hull", "", "Primitive hull: box:L,B,D or sphere:R [required]")
	meshExportCmd.Flags().StringVarP(&meshExportOutput, "output", "o", "", "STL file to write [required]")
	meshExportCmd.Flags().BoolVar(&meshExportASCII, "ascii", false, "Write ASCII STL instead of binary")
	meshExportCmd.MarkFlagRequired("hull")
	meshExportCmd.MarkFlagRequired("output")
}

func runMeshExport(cmd *cobra.Command, args []string) error {
	m, err := parseHull(meshExportHull)
	if err != nil {
		return err
	}

	f, err := os.Create(meshExportOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	write := stl.WriteBinary
	if meshExportASCII {
		write = stl.WriteASCII
	}
	if err := write(f, m); err != nil {
		return fmt.Errorf("writing %s: %w", meshExportOutput, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Debug("hull exported", "file", meshExportOutput, "faces", m.FaceCount())
	fmt.Fprintf(cmd.OutOrStdout(), "%d faces written to: %s\n", m.FaceCount(), meshExportOutput)
	return nil
}
