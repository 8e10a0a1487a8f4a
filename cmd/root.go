package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexiusacademia/gostab/internal/version"
	"github.com/spf13/cobra"
)

var verbose bool

// logger is configured before any subcommand runs
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "gostab",
	Short: "Ship Intact Stability (GZ Curve) Tool",
	Long: `gostab - Go Ship Stability Calculator

A CLI tool for computing the righting arm (GZ) curve of a ship hull
given as a closed triangulated surface.

This tool helps naval architects perform:
  - Hull mesh validation and repair (closure, degenerate faces, orientation)
  - Large-angle heel sweeps at a fixed draft
  - Deck edge immersion detection
  - Intact stability checks against the IMO 2008 IS Code general criteria

Hulls are read from STL files (binary or ASCII) or built from primitives.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gostab v%-48s║\n", version.Version)
		fmt.Println("  ║   Go Ship Stability Calculator                            ║")
		fmt.Println("  ║   Alexius S. Academia ©  2026                             ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for computing righting arm (GZ) curves of ship hulls.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • STL hull import with closure and orientation checks")
		fmt.Println("    • Parallel heel sweep with waterplane clipping")
		fmt.Println("    • Deck edge immersion angle")
		fmt.Println("    • IMO 2008 IS Code general criteria")
		fmt.Println()
		fmt.Println("  Use 'gostab --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every heel angle and mesh repair at debug level")
}
