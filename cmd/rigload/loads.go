package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/config"
	"github.com/san-kum/rigload/internal/loadshare"
	"github.com/san-kum/rigload/internal/storage"
)

// keyPoints is how many evenly spaced sweep rows the sweep command prints.
const keyPoints = 10

func rigSetup(cmd *cobra.Command) (*config.Config, chassis.Vehicle, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, chassis.Vehicle{}, err
	}
	v, err := cfg.Vehicle()
	if err != nil {
		return nil, chassis.Vehicle{}, fmt.Errorf("vehicle: %w", err)
	}
	return cfg, v, nil
}

func runModel(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, v, err := rigSetup(cmd)
		if err != nil {
			return err
		}
		m, err := loadshare.ByName(name, cfg.Assumptions())
		if err != nil {
			return err
		}
		d, err := m.Distribute(v)
		if err != nil {
			return err
		}
		if err := loadshare.Check(d, cfg.Tolerance); err != nil {
			return err
		}

		printVehicle(v)
		printDistribution(d)

		if save {
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			r := loadshare.SweepRange{From: v.CG, To: v.CG, Step: cfg.Sweep.Step}
			runID, err := st.Save(v, r, cfg.Assumptions(), &loadshare.SweepResult{Model: d.Model, Points: []loadshare.Distribution{d}})
			if err != nil {
				return err
			}
			fmt.Printf("\nsaved: %s\n", runID)
		}
		return nil
	}
}

func printVehicle(v chassis.Vehicle) {
	l1, l2, l3 := v.Layout.Spacings()
	fmt.Printf("vehicle: %s\n", v.Name)
	fmt.Printf("  weight %.1f kN (%.0f kg), cg %.3f m\n", chassis.KN(v.Weight), chassis.WeightToMass(v.Weight), v.CG)
	fmt.Printf("  spacings %.2f / %.2f / %.2f m, wheelbase %.2f m\n\n", l1, l2, l3, v.Layout.Wheelbase())
}

func printDistribution(d loadshare.Distribution) {
	fmt.Printf("model: %s\n", d.Model)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXLE\tX (m)\tLOAD (kN)\tSHARE")
	for i, f := range d.Axles {
		fmt.Fprintf(w, "%d\t%.3f\t%.2f\t%.1f%%\n", i+1, d.Layout.Positions[i], chassis.KN(f), 100*f/d.Weight)
	}
	fmt.Fprintf(w, "front\t\t%.2f\t%.1f%%\n", chassis.KN(d.Front()), 100*d.FrontShare())
	fmt.Fprintf(w, "rear\t\t%.2f\t%.1f%%\n", chassis.KN(d.Rear()), 100*d.RearShare())
	w.Flush()
	fmt.Printf("\nforce sum %.2f kN, moment about cg %.3g N m\n", chassis.KN(d.Sum()), d.Moment())
}

func compareModels(cmd *cobra.Command, args []string) error {
	cfg, v, err := rigSetup(cmd)
	if err != nil {
		return err
	}
	names := []string{loadshare.InverseDistanceName, loadshare.PairedName}
	copy(names, args)

	a, err := loadshare.ByName(names[0], cfg.Assumptions())
	if err != nil {
		return err
	}
	b, err := loadshare.ByName(names[1], cfg.Assumptions())
	if err != nil {
		return err
	}
	if err := cfg.Sweep.Validate(); err != nil {
		return err
	}

	rows, skipped, err := loadshare.Compare(a, b, v, cfg.Sweep.Positions())
	if err != nil {
		return err
	}
	for _, s := range skipped {
		log.Debugf("[cli] compare skipped cg %.3f: %v", s.CG, s.Err)
	}

	fmt.Printf("%s vs %s (kN, diff %% relative to %s)\n\n", a.Name(), b.Name(), b.Name())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CG (m)\tAXLE 1\tAXLE 2\tAXLE 3\tAXLE 4\tFRONT\tREAR")
	for _, r := range rows {
		fmt.Fprintf(w, "%.3f", r.CG)
		for i := range r.Diff {
			fmt.Fprintf(w, "\t%.1f/%.1f (%+.1f%%)", chassis.KN(r.A.Axles[i]), chassis.KN(r.B.Axles[i]), r.DiffPct[i])
		}
		fmt.Fprintf(w, "\t%+.1f (%+.1f%%)\t%+.1f (%+.1f%%)\n",
			chassis.KN(r.FrontDiff), r.FrontDiffPct, chassis.KN(r.RearDiff), r.RearDiffPct)
	}
	w.Flush()
	if len(skipped) > 0 {
		fmt.Printf("\n%d positions skipped (invalid for at least one model)\n", len(skipped))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, v, err := rigSetup(cmd)
	if err != nil {
		return err
	}
	name := cfg.Model
	if len(args) == 1 {
		name = args[0]
	}
	m, err := loadshare.ByName(name, cfg.Assumptions())
	if err != nil {
		return err
	}

	res, err := loadshare.Sweep(m, v, cfg.Sweep)
	if err != nil {
		return err
	}
	fmt.Printf("sweep: %s, cg %.2f..%.2f m step %.3f (%d points, %d skipped)\n\n",
		res.Model, cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Step, len(res.Points), len(res.Skipped))
	if len(res.Points) == 0 {
		return fmt.Errorf("no valid CG positions in range")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CG (m)\tAXLE 1\tAXLE 2\tAXLE 3\tAXLE 4\tFRONT\tREAR")
	every := max(1, len(res.Points)/keyPoints)
	for i, p := range res.Points {
		if i%every != 0 && i != len(res.Points)-1 {
			continue
		}
		fmt.Fprintf(w, "%.3f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n", p.CG,
			chassis.KN(p.Axles[0]), chassis.KN(p.Axles[1]), chassis.KN(p.Axles[2]), chassis.KN(p.Axles[3]),
			chassis.KN(p.Front()), chassis.KN(p.Rear()))
	}
	w.Flush()

	if sp, ok := loadshare.FindSpecialPoints(res.Points); ok {
		fmt.Println("\nspecial points:")
		fmt.Printf("  balance    cg %.3f m  front %.1f kN  rear %.1f kN\n", sp.Balance.CG, chassis.KN(sp.Balance.Front()), chassis.KN(sp.Balance.Rear()))
		fmt.Printf("  max front  cg %.3f m  front %.1f kN\n", sp.MaxFront.CG, chassis.KN(sp.MaxFront.Front()))
		fmt.Printf("  max rear   cg %.3f m  rear %.1f kN\n", sp.MaxRear.CG, chassis.KN(sp.MaxRear.Rear()))
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(v, cfg.Sweep, cfg.Assumptions(), res)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved: %s\n", runID)
	}
	return nil
}
