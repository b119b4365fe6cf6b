package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/dynamics"
	"github.com/san-kum/rigload/internal/loadshare"
	"github.com/san-kum/rigload/internal/viz"
)

func driveSetup(cmd *cobra.Command) (*dynamics.Calculator, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	calc, err := cfg.Dynamics()
	if err != nil {
		return nil, fmt.Errorf("dynamics: %w", err)
	}
	return calc, nil
}

func runDynamics(cmd *cobra.Command, args []string) error {
	calc, err := driveSetup(cmd)
	if err != nil {
		return err
	}
	speed := chassis.KmhToMs(speedKmh)
	grade := chassis.AngleFromPercent(gradePct)

	var res dynamics.Result
	if cmd.Flags().Changed("force") {
		res = calc.EvaluateForce(force, speed, grade)
	} else {
		res, err = calc.Evaluate(dynamics.OperatingPoint{Speed: speed, Gear: gearName, Grade: grade})
		if err != nil {
			return err
		}
	}

	fmt.Printf("operating point: %.2f km/h on %.2f%% (%.2f deg)\n", chassis.MsToKmh(res.Speed), gradePct, chassis.Degrees(grade))
	if res.Gear != "" {
		fmt.Printf("  gear %s, engine %.0f rpm, torque %.0f N m\n", res.Gear, res.EngineSpeed, res.Torque)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORCE\tkN")
	fmt.Fprintf(w, "tractive\t%.2f\n", chassis.KN(res.Tractive))
	fmt.Fprintf(w, "rolling\t%.2f\n", chassis.KN(res.Resistance.Rolling))
	fmt.Fprintf(w, "aero\t%.2f\n", chassis.KN(res.Resistance.Aero))
	fmt.Fprintf(w, "grade\t%.2f\n", chassis.KN(res.Resistance.Grade))
	fmt.Fprintf(w, "total resistance\t%.2f\n", chassis.KN(res.Resistance.Total))
	fmt.Fprintf(w, "net\t%.2f\n", chassis.KN(res.Net))
	w.Flush()

	fmt.Printf("\nacceleration %.3f m/s^2\n", res.Acceleration)
	fmt.Printf("max grade %.2f%% (%.2f deg)\n", chassis.GradePercent(res.MaxGrade), chassis.Degrees(res.MaxGrade))
	if res.AdhesionLimited {
		fmt.Println("tractive force limited by adhesion")
	}
	fmt.Printf("can move: %t, can climb: %t\n", res.CanMove, res.CanClimb)
	return nil
}

func runTraction(cmd *cobra.Command, args []string) error {
	calc, err := driveSetup(cmd)
	if err != nil {
		return err
	}
	name := calc.Gears()[0].Name
	if len(args) == 1 {
		name = args[0]
	}
	g, err := calc.Gear(name)
	if err != nil {
		return err
	}
	grade := chassis.AngleFromPercent(gradePct)

	curve := calc.TractionCurve(g)
	power := calc.PowerCurve(g, grade)

	lo, hi := calc.SpeedRange(g)
	fmt.Printf("gear %s (ratio %.3f): %.2f..%.2f km/h\n\n", g.Name, g.Ratio, chassis.MsToKmh(lo), chassis.MsToKmh(hi))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RPM\tkm/h\tTORQUE (N m)\tFORCE (kN)\tPOWER (kW)\tRESIST (kW)\tRESERVE (kW)")
	for i, p := range curve {
		fmt.Fprintf(w, "%.0f\t%.2f\t%.0f\t%.2f\t%.1f\t%.1f\t%.1f\n",
			p.EngineSpeed, chassis.MsToKmh(p.Speed), p.Torque, chassis.KN(p.Force), p.Power,
			power[i].Resistance, power[i].Reserve)
	}
	w.Flush()

	fmt.Println()
	fmt.Println(viz.PlotTraction(curve, g.Name))
	fmt.Println()
	fmt.Println(viz.PlotPower(power, g.Name))

	if ts, ok := calc.TopSpeed(g, grade); ok {
		note := ""
		if ts.Governed {
			note = " (engine governed)"
		}
		fmt.Printf("\ntop speed in gear %s: %.2f km/h%s\n", g.Name, chassis.MsToKmh(ts.Speed), note)
	} else {
		fmt.Printf("\ngear %s cannot move the vehicle on %.2f%%\n", g.Name, gradePct)
	}
	return nil
}

func runPerformance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	kmh := cfg.Drive.ClimbSpeedKmh
	if cmd.Flags().Changed("climb-speed") {
		kmh = climbSpeed
	}
	s, err := performance(kmh, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("vehicle: %s\n\n", cfg.Name)
	if s.CanMove {
		note := ""
		if s.TopSpeed.Governed {
			note = ", engine governed"
		}
		fmt.Printf("top speed   %.1f km/h (gear %s%s)\n", chassis.MsToKmh(s.TopSpeed.Speed), s.TopSpeed.Gear, note)
	} else {
		fmt.Println("top speed   vehicle cannot move on level road")
	}
	fmt.Printf("max grade   %.1f%% (%.1f deg) in gear %s at %.2f km/h\n",
		s.MaxGradePct, chassis.Degrees(s.MaxGrade), s.ClimbGear, chassis.MsToKmh(s.ClimbSpeed))
	if s.ClimbSpeed != chassis.KmhToMs(kmh) {
		fmt.Printf("            (%.1f km/h is outside gear %s, clamped)\n", kmh, s.ClimbGear)
	}
	return nil
}

func runExplorer(cmd *cobra.Command, args []string) error {
	theme := viz.GetTheme(themeName)
	if theme.Name != themeName {
		return fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
	}
	cfg, v, err := rigSetup(cmd)
	if err != nil {
		return err
	}
	first, err := cfg.LoadModel()
	if err != nil {
		return err
	}
	models := []loadshare.Model{first}
	for _, name := range loadshare.Names() {
		if name == first.Name() {
			continue
		}
		m, err := loadshare.ByName(name, cfg.Assumptions())
		if err != nil {
			return err
		}
		models = append(models, m)
	}
	return viz.RunExplorer(v, models, theme, cfg.Tolerance)
}

// balanceSamples is the speed grid for the all-gear balance plots.
const balanceSamples = 80

func runBalance(cmd *cobra.Command, args []string) error {
	calc, err := driveSetup(cmd)
	if err != nil {
		return err
	}
	grade := chassis.AngleFromPercent(gradePct)

	fmt.Printf("traction balance on %.2f%% (%.2f deg)\n\n", gradePct, chassis.Degrees(grade))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GEAR\tkm/h\tMAX FORCE (kN)\tMAX ACCEL (m/s^2)\tAT (km/h)")
	for _, g := range calc.Gears() {
		lo, hi := calc.SpeedRange(g)
		best := dynamics.AccelPoint{Acceleration: math.Inf(-1)}
		peak := 0.0
		for _, p := range calc.AccelerationCurve(g, grade) {
			if p.Acceleration > best.Acceleration {
				best = p
			}
			peak = math.Max(peak, p.Tractive)
		}
		fmt.Fprintf(w, "%s\t%.1f..%.1f\t%.2f\t%.3f\t%.1f\n", g.Name,
			chassis.MsToKmh(lo), chassis.MsToKmh(hi), chassis.KN(peak), best.Acceleration, chassis.MsToKmh(best.Speed))
	}
	w.Flush()

	d := calc.Balance(grade, balanceSamples)
	fmt.Println()
	fmt.Println(viz.PlotBalance(d))
	fmt.Println()
	fmt.Println(viz.PlotAcceleration(d))
	return nil
}
