package cmd

import (
	"github.com/spf13/cobra"
)

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Inspect and export hull meshes",
	Long: `Inspect and export the triangulated hull surfaces used by gz.

Subcommands:
  info    - Report size, extent and validation results for a hull
  export  - Write a primitive hull to a binary STL file

Hulls come from an STL file (--stl) or a primitive (--hull):
  box:L,B,D   rectangular barge with its keel at z = 0
  sphere:R    UV sphere of radius R resting on z = 0`,
}

func init() {
	rootCmd.AddCommand(meshCmd)
}
