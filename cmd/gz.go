package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gostab/internal/condition"
	"github.com/alexiusacademia/gostab/internal/diagram"
	"github.com/alexiusacademia/gostab/internal/hydro"
	"github.com/alexiusacademia/gostab/internal/imo"
	"github.com/alexiusacademia/gostab/internal/mesh"
	"github.com/spf13/cobra"
)

var (
	gzSTL           string
	gzHull          string
	gzCondition     string
	gzKG            float64
	gzDraft         float64
	gzStart         float64
	gzEnd           float64
	gzStep          float64
	gzAngles        []float64
	gzWorkers       int
	gzSkip          bool
	gzCriteria      bool
	gzShowDiagram   bool
	gzDiagramHeight int
	gzExportFile    string
)

var gzCmd = &cobra.Command{
	Use:   "gz",
	Short: "Compute the righting arm (GZ) curve of a hull",
	Long: `Compute the righting arm curve of a closed hull at a fixed draft.

The hull is validated (closure, degenerate faces, orientation), then heeled
about its longitudinal axis through each angle. At every angle the submerged
part below the waterline is clipped and integrated for the centre of
buoyancy B, and the righting arm follows as

  GZ = KN - KG·sin(θ)     with KN = -B.y

The hull must be given in ship axes: x forward, y to port, z up from the
keel. Heel angles must be strictly increasing.

Examples:
  gostab gz --hull box:20,6,3 --kg 2 --draft 1.5
  gostab gz --stl kcs.stl --kg 7.3 --draft 10.8 --start 0 --end 60 --step 2 --criteria
  gostab gz --stl wigley.stl --condition departure.json --diagram -o gz.png
  gostab gz --hull sphere:5 --kg 0 --draft 5 --angles -30,-10,0,10,30`,
	RunE: runGZ,
}

func init() {
	rootCmd.AddCommand(gzCmd)

	// Hull
	gzCmd.Flags().StringVar(&gzSTL, "stl", "", "Hull surface as an STL file (binary or ASCII)")
	gzCmd.Flags().StringVar(&gzHull, "hull", "", "Primitive hull: box:L,B,D or sphere:R")

	// Loading condition
	gzCmd.Flags().StringVarP(&gzCondition, "condition", "c", "", "Loading condition JSON file (flags override its values)")
	gzCmd.Flags().Float64Var(&gzKG, "kg", 0, "Vertical centre of gravity above keel (m)")
	gzCmd.Flags().Float64VarP(&gzDraft, "draft", "d", 0, "Waterline height above keel (m)")
	gzCmd.Flags().Float64Var(&gzStart, "start", 0, "First heel angle (deg)")
	gzCmd.Flags().Float64Var(&gzEnd, "end", 60, "Last heel angle (deg)")
	gzCmd.Flags().Float64Var(&gzStep, "step", 5, "Heel angle step (deg)")
	gzCmd.Flags().Float64SliceVar(&gzAngles, "angles", nil, "Explicit heel angles (deg), replaces start/end/step")

	// Solver
	gzCmd.Flags().IntVarP(&gzWorkers, "workers", "w", 0, "Angles computed in parallel (0 = one per CPU)")
	gzCmd.Flags().BoolVar(&gzSkip, "skip-degenerate", false, "Skip angles with no submerged volume instead of failing")

	// Output options
	gzCmd.Flags().BoolVar(&gzCriteria, "criteria", false, "Check IMO 2008 IS Code general criteria")
	gzCmd.Flags().BoolVar(&gzShowDiagram, "diagram", false, "Show ASCII GZ curve")
	gzCmd.Flags().IntVar(&gzDiagramHeight, "diagram-height", 15, "Rows used by the ASCII GZ curve")
	gzCmd.Flags().StringVarP(&gzExportFile, "output", "o", "", "Export GZ curve to file (png, svg, pdf)")

	gzCmd.MarkFlagsMutuallyExclusive("stl", "hull")
	gzCmd.MarkFlagsOneRequired("stl", "hull")
}

// resolveCondition merges the condition file with explicitly set flags
func resolveCondition(cmd *cobra.Command) (*condition.Condition, error) {
	flags := cmd.Flags()

	c := &condition.Condition{Start: gzStart, End: gzEnd, Step: gzStep}
	if gzCondition != "" {
		loaded, err := condition.LoadFromFile(gzCondition)
		if err != nil {
			return nil, fmt.Errorf("loading condition: %w", err)
		}
		c = loaded
	} else if !flags.Changed("kg") || !flags.Changed("draft") {
		return nil, errors.New("--kg and --draft are required without --condition")
	}

	if flags.Changed("kg") {
		c.KG = gzKG
	}
	if flags.Changed("draft") {
		c.Draft = gzDraft
	}
	rangeSet := false
	if flags.Changed("start") {
		c.Start, rangeSet = gzStart, true
	}
	if flags.Changed("end") {
		c.End, rangeSet = gzEnd, true
	}
	if flags.Changed("step") {
		c.Step, rangeSet = gzStep, true
	}
	if rangeSet {
		c.Angles = nil
	}
	if flags.Changed("angles") {
		c.Angles = gzAngles
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func runGZ(cmd *cobra.Command, args []string) error {
	cond, err := resolveCondition(cmd)
	if err != nil {
		return err
	}

	raw, source, err := loadHull(gzSTL, gzHull)
	if err != nil {
		return fmt.Errorf("loading hull: %w", err)
	}
	logger.Info("hull loaded", "source", source, "vertices", raw.VertexCount(), "faces", raw.FaceCount())

	hull, report, err := mesh.Prepare(raw, logger)
	if err != nil {
		return fmt.Errorf("preparing hull: %w", err)
	}

	solver := hydro.NewSolver(cond.KG, cond.Draft)
	solver.Workers = gzWorkers
	solver.SkipDegenerate = gzSkip
	solver.Logger = logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	angles := cond.HeelAngles()
	curve, err := solver.RunContext(ctx, hull, angles)
	if err != nil {
		return fmt.Errorf("heel sweep: %w", err)
	}

	out := cmd.OutOrStdout()
	printGZReport(out, cond, source, hull, report, curve)

	if gzCriteria {
		printCriteria(out, imo.Check(curve))
	}

	if gzShowDiagram {
		fmt.Fprintln(out, diagram.DrawGZCurve(curve, gzDiagramHeight, 0))
	}

	if gzExportFile != "" {
		written, err := diagram.ExportGZCurve(curve, cond.Name, gzExportFile)
		if err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		fmt.Fprintf(out, "Diagram exported to: %s\n", written)
	}

	return nil
}

func printGZReport(out io.Writer, cond *condition.Condition, source string, hull *mesh.Mesh, report *mesh.Report, curve *hydro.Curve) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     RIGHTING ARM (GZ) CURVE")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	if cond.Name != "" {
		fmt.Fprintf(out, "  Condition: %s\n", cond.Name)
	}
	if cond.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", cond.Description)
	}
	fmt.Fprintf(out, "  Hull: %s\n", source)
	fmt.Fprintln(out)

	// Hull
	bb := mesh.Bounds(hull)
	fmt.Fprintln(out, "HULL:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Vertices / Faces:\t%d / %d\n", hull.VertexCount(), hull.FaceCount())
	fmt.Fprintf(w, "  Length x Beam x Depth:\t%.3f x %.3f x %.3f m\n", bb.Length(), bb.Beam(), bb.Depth())
	fmt.Fprintf(w, "  Enclosed volume:\t%.3f m³\n", report.Volume)
	if report.RemovedFaces > 0 {
		fmt.Fprintf(w, "  Degenerate faces removed:\t%d\n", report.RemovedFaces)
	}
	if report.Flipped {
		fmt.Fprintf(w, "  Face winding:\treversed to outward\n")
	}
	w.Flush()
	fmt.Fprintln(out)

	// Loading condition
	fmt.Fprintln(out, "LOADING CONDITION:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  KG:\t%.3f m\n", cond.KG)
	fmt.Fprintf(w, "  Draft:\t%.3f m\n", cond.Draft)
	w.Flush()
	fmt.Fprintln(out)

	// Per-angle results
	fmt.Fprintln(out, "HEEL SWEEP:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "  Heel (°)\tVolume (m³)\tAwp (m²)\tKN (m)\tGZ (m)\tDeck\t\n")
	fmt.Fprintf(w, "  ────────\t───────────\t────────\t──────\t──────\t────\t\n")
	for _, r := range curve.Results {
		deck := ""
		if r.DeckImmersed {
			deck = "wet"
		}
		fmt.Fprintf(w, "  %.2f\t%.4f\t%.3f\t%.4f\t%.4f\t%s\t\n",
			r.Angle, r.Volume, r.WaterplaneArea, r.KN, r.GZ, deck)
	}
	w.Flush()
	fmt.Fprintln(out)

	if len(curve.Skipped) > 0 {
		parts := make([]string, len(curve.Skipped))
		for i, a := range curve.Skipped {
			parts[i] = fmt.Sprintf("%.2f°", a)
		}
		fmt.Fprintf(out, "  ⚠ Skipped (no submerged volume): %s\n\n", strings.Join(parts, ", "))
	}

	// Summary
	var lines []string
	if a, gz, ok := curve.Max(); ok {
		lines = append(lines, fmt.Sprintf("Maximum GZ:        %.4f m at %.2f°", gz, a))
	}
	if a, ok := curve.VanishingAngle(); ok {
		lines = append(lines, fmt.Sprintf("Vanishing angle:   %.2f°", a))
	} else {
		lines = append(lines, "Vanishing angle:   beyond sweep")
	}
	if curve.DeckImmersed {
		lines = append(lines, fmt.Sprintf("Deck edge immersed: %.2f°", curve.DeckImmersionAngle))
	} else {
		lines = append(lines, "Deck edge immersed: not within sweep")
	}
	if len(curve.Results) > 1 {
		first, last := curve.Results[0].Angle, curve.Results[len(curve.Results)-1].Angle
		if area, err := curve.Area(first, last); err == nil {
			lines = append(lines, fmt.Sprintf("Area %.0f°..%.0f°:      %.4f m-rad", first, last, area))
		}
	}
	fmt.Fprint(out, diagram.DrawSummaryBox("GZ CURVE SUMMARY", lines))
	fmt.Fprintln(out)
}

func printCriteria(out io.Writer, criteria []imo.Criterion) {
	fmt.Fprintln(out, "INTACT STABILITY CRITERIA (IMO 2008 IS Code, 2.2):")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Rule\tCriterion\tRequired\tActual\tStatus\n")
	fmt.Fprintf(w, "  ────\t─────────\t────────\t──────\t──────\n")
	for _, cr := range criteria {
		status := "✗ FAIL"
		actual := fmt.Sprintf("%.3f %s", cr.Actual, cr.Unit)
		switch {
		case !cr.Evaluated:
			status = "- not evaluated"
			actual = "-"
		case cr.Pass:
			status = "✓ PASS"
		}
		fmt.Fprintf(w, "  %s\t%s\t≥ %.3f %s\t%s\t%s\n", cr.ID, cr.Description, cr.Required, cr.Unit, actual, status)
	}
	w.Flush()
	fmt.Fprintln(out)

	if imo.Passed(criteria) {
		fmt.Fprintln(out, "  ✓ All evaluated criteria are satisfied")
	} else {
		fmt.Fprintln(out, "  ✗ Intact stability criteria NOT satisfied")
	}
	fmt.Fprintln(out)
}
