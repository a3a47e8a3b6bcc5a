package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravtrail/internal/analysis"
	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/export"
	"github.com/san-kum/gravtrail/internal/storage"
)

const maxPlottedBodies = 4

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tTICKS\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Ticks,
			len(run.Bodies),
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Recording, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rec, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if rec.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, rec, nil
}

// movable returns the recording indices of bodies that are not fixed.
func movable(meta *storage.RunMetadata, rec *storage.Recording) []int {
	fixed := make(map[string]bool)
	for _, b := range meta.Bodies {
		fixed[b.Name] = b.Fixed
	}
	var out []int
	for i, name := range rec.Names {
		if !fixed[name] {
			out = append(out, i)
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", rec.Len())

	bodies := movable(meta, rec)
	if len(bodies) > maxPlottedBodies {
		bodies = bodies[:maxPlottedBodies]
	}

	for _, i := range bodies {
		xs, ys := rec.Series(i)
		for _, axis := range []struct {
			name string
			data []float64
		}{{"x", xs}, {"y", ys}} {
			graph := asciigraph.Plot(axis.data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s %s vs tick", rec.Names[i], axis.name)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}

	body := -1
	if bodyName != "" {
		body = rec.Index(bodyName)
		if body < 0 {
			return fmt.Errorf("no body named %q in run %s", bodyName, meta.ID)
		}
	} else if m := movable(meta, rec); len(m) > 0 {
		body = m[0]
	}
	if body < 0 {
		return fmt.Errorf("run %s has no movable body", meta.ID)
	}

	stride := 1
	if rec.Len() > 1 {
		stride = rec.Ticks[1] - rec.Ticks[0]
	}
	xs, ys := rec.Series(body)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body: %s\n", rec.Names[body])
	fmt.Printf("samples: %d (every %d ticks)\n\n", rec.Len(), stride)

	// Frequencies come out in cycles per sample.
	fx := analysis.DominantFrequency(xs, 1)
	fy := analysis.DominantFrequency(ys, 1)
	fmt.Printf("dominant frequency x: %.5f cycles/tick", fx/float64(stride))
	if fx > 0 {
		fmt.Printf(" (period %.1f ticks)", float64(stride)/fx)
	}
	fmt.Println()
	fmt.Printf("dominant frequency y: %.5f cycles/tick\n", fy/float64(stride))

	crossings := analysis.Crossings(xs, ys)
	fmt.Printf("upward crossings of y=0: %d\n", len(crossings))
	if period := analysis.MeanPeriod(crossings); period > 0 {
		fmt.Printf("mean orbital period: %.1f ticks\n", period*float64(stride))
	}

	spectrum := analysis.PowerSpectrum(xs)
	if len(spectrum) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum of x"),
		))
	}

	points := make([]dynamo.Vec2, rec.Len())
	for i := range points {
		points[i] = dynamo.Vec2{X: xs[i], Y: ys[i]}
	}
	fmt.Println()
	fmt.Println(analysis.OrbitToASCII(points, 61, 31))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, rec)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, rec)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = meta.ID + ".svg"
	}

	svg := export.TrailsToSVG(export.RecordingTracks(meta, rec), svgSize)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", path, "bodies", len(rec.Names), "samples", rec.Len())
	return nil
}
