package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/config"
	"github.com/san-kum/rigload/internal/dynamics"
	"github.com/san-kum/rigload/internal/export"
	"github.com/san-kum/rigload/internal/loadshare"
	"github.com/san-kum/rigload/internal/storage"
	"github.com/san-kum/rigload/internal/viz"
)

const (
	svgWidth  = 800
	svgHeight = 480
)

// openRun loads the named run, or the newest one when args is empty.
func openRun(args []string) (*storage.RunMetadata, []loadshare.Distribution, error) {
	st := storage.New(dataDir)
	var runID string
	if len(args) == 1 {
		runID = args[0]
	} else {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = latest
		log.Debugf("[cli] using latest run %s", runID)
	}
	return st.LoadSweep(runID)
}

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
	fmt.Fprintln(w, "ID\tMODEL\tVEHICLE\tWEIGHT (kN)\tCG RANGE (m)\tPOINTS\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.2f..%.2f\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Vehicle,
			chassis.KN(run.Weight),
			run.Sweep.From, run.Sweep.To,
			run.Points,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, points, err := openRun(args)
	if err != nil {
		return err
	}
	if len(points) < 2 {
		return fmt.Errorf("run %s has %d point(s), nothing to plot", meta.ID, len(points))
	}

	fmt.Printf("run: %s (%s, %s)\n\n", meta.ID, meta.Model, meta.Vehicle)
	fmt.Println(viz.PlotPairs(points))
	for axle := 0; axle < chassis.NumAxles; axle++ {
		fmt.Println()
		fmt.Println(viz.PlotAxle(points, axle))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, points, err := openRun(args)
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, points)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, points, err := openRun(args)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, points)
}

func exportXLSX(cmd *cobra.Command, args []string) error {
	meta, points, err := openRun(args)
	if err != nil {
		return err
	}
	return writeFile(outputPath(cmd), func(f *os.File) error {
		return export.WriteWorkbook(f, meta, points)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, points, err := openRun(args)
	if err != nil {
		return err
	}
	svg := export.SweepToSVG(points, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("not enough points for a chart")
	}
	return writeFile(outputPath(cmd), func(f *os.File) error {
		_, err := f.WriteString(svg)
		return err
	})
}

// writeReport renders the run and, when the vehicle moves at all, the
// performance summary.
func writeReport(cmd *cobra.Command, args []string) error {
	meta, points, err := openRun(args)
	if err != nil {
		return err
	}
	report := export.Report{Meta: meta, Points: points}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if summary, err := performance(cfg.Drive.ClimbSpeedKmh, cfg); err != nil {
		log.Warnf("[cli] report without performance: %v", err)
	} else {
		report.Performance = &summary
	}

	return writeFile(outputPath(cmd), func(f *os.File) error {
		return export.WriteReport(f, report)
	})
}

func performance(climbKmh float64, cfg *config.Config) (dynamics.PerformanceSummary, error) {
	calc, err := cfg.Dynamics()
	if err != nil {
		return dynamics.PerformanceSummary{}, err
	}
	return calc.Summary(chassis.KmhToMs(climbKmh))
}

func outputPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("output")
	return path
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
