package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gostab/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gostab",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gostab v%s\n", version.Version)
		fmt.Println("Ship Intact Stability (GZ Curve) Tool")
		fmt.Println("Criteria per IMO 2008 Intact Stability Code, Part A 2.2")
		if version.GitCommit != "unknown" {
			fmt.Printf("Commit %s, built %s\n", version.GitCommit, version.BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
