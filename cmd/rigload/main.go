package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/config"
	"github.com/san-kum/rigload/internal/export"
	"github.com/san-kum/rigload/internal/loadshare"
	"github.com/san-kum/rigload/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	components string
	cg         float64
	weightKN   float64
	massKg     float64
	tolerance  float64
	// sweep range
	from float64
	to   float64
	step float64
	save bool
	// dynamics operating point
	speedKmh   float64
	gearName   string
	gradePct   float64
	force      float64
	climbSpeed float64
	themeName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rigload",
		Short: "axle loads and traction for four-axle workover rigs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigload", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&components, "components", "", "component sheet (xlsx: name, mass_kg, x_m)")
	rootCmd.PersistentFlags().Float64Var(&cg, "cg", 0, "centre of gravity from axle 1 (m)")
	rootCmd.PersistentFlags().Float64Var(&weightKN, "weight", 0, "gross weight (kN)")
	rootCmd.PersistentFlags().Float64Var(&massKg, "mass", 0, "gross mass (kg)")
	rootCmd.PersistentFlags().Float64Var(&tolerance, "tol", 0, "relative equilibrium tolerance")

	for _, name := range loadshare.Names() {
		modelCmd := &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("axle loads with the %s model", name),
			Args:  cobra.NoArgs,
			RunE:  runModel(name),
		}
		modelCmd.Flags().BoolVar(&save, "save", false, "store the result as a run")
		rootCmd.AddCommand(modelCmd)
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model_a] [model_b]",
		Short: "compare two models across the sweep positions",
		Args:  cobra.MaximumNArgs(2),
		RunE:  compareModels,
	}
	addRangeFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep the CG and report key and special points",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRangeFlags(sweepCmd)
	sweepCmd.Flags().BoolVar(&save, "save", false, "store the sweep as a run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run loads as csv to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run metadata and loads as json to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportXLSXCmd := &cobra.Command{
		Use:   "export-xlsx [run_id]",
		Short: "write run loads to an excel workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportXLSX,
	}
	exportXLSXCmd.Flags().StringP("output", "o", "loads.xlsx", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write a load chart as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringP("output", "o", "loads.svg", "output file")

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "write a pdf report with loads and performance",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeReport,
	}
	reportCmd.Flags().StringP("output", "o", "report.pdf", "output file")

	dynamicsCmd := &cobra.Command{
		Use:   "dynamics",
		Short: "evaluate one operating point",
		Args:  cobra.NoArgs,
		RunE:  runDynamics,
	}
	dynamicsCmd.Flags().Float64Var(&speedKmh, "speed", 5, "vehicle speed (km/h)")
	dynamicsCmd.Flags().StringVar(&gearName, "gear", "1", "gear name or 1-based index")
	dynamicsCmd.Flags().Float64Var(&gradePct, "grade", 0, "road grade (%)")
	dynamicsCmd.Flags().Float64Var(&force, "force", 0, "tractive force (N), bypasses the powertrain")

	tractionCmd := &cobra.Command{
		Use:   "traction [gear]",
		Short: "traction and power balance curves for one gear",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTraction,
	}
	tractionCmd.Flags().Float64Var(&gradePct, "grade", 0, "road grade (%)")

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "tractive force and acceleration of every gear against road load",
		Args:  cobra.NoArgs,
		RunE:  runBalance,
	}
	balanceCmd.Flags().Float64Var(&gradePct, "grade", 0, "road grade (%)")

	performanceCmd := &cobra.Command{
		Use:   "performance",
		Short: "top speed and gradeability summary",
		Args:  cobra.NoArgs,
		RunE:  runPerformance,
	}
	performanceCmd.Flags().Float64Var(&climbSpeed, "climb-speed", 0, "speed for the gradeability check (km/h)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("available presets:")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-22s model=%s cg=%.2f m\n", name, cfg.Model, cfg.Rig.CG)
			}
		},
	}

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive CG explorer",
		Args:  cobra.NoArgs,
		RunE:  runExplorer,
	}
	exploreCmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name,
		fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))

	rootCmd.AddCommand(compareCmd, sweepCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportXLSXCmd, exportSVGCmd, reportCmd,
		dynamicsCmd, tractionCmd, balanceCmd, performanceCmd, presetsCmd, exploreCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&from, "from", 0, "first CG position (m)")
	cmd.Flags().Float64Var(&to, "to", 0, "last CG position (m)")
	cmd.Flags().Float64Var(&step, "step", 0, "CG step (m)")
}

// loadConfig resolves the preset, then the config file, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		log.Debugf("[cli] using preset %s", preset)
	}
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
		log.Debugf("[cli] loaded config %s", configFile)
	}

	flags := cmd.Flags()
	if components != "" {
		f, err := os.Open(components)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cs, err := export.ReadComponents(f)
		if err != nil {
			return nil, fmt.Errorf("read components: %w", err)
		}
		cfg.Rig.Components = cs
	}
	if len(cfg.Rig.Components) > 0 && (flags.Changed("cg") || flags.Changed("weight") || flags.Changed("mass")) {
		// lump the components so a single override keeps the rest
		mass, x, err := cfg.Rig.Components.Aggregate()
		if err != nil {
			return nil, err
		}
		cfg.Rig.MassKg, cfg.Rig.WeightKN, cfg.Rig.CG = mass, 0, x
		cfg.Rig.Components = nil
	}
	if flags.Changed("cg") {
		cfg.Rig.CG = cg
	}
	if flags.Changed("weight") {
		// an explicit 0 must not fall back to the mass
		cfg.Rig.WeightKN = weightKN
		cfg.Rig.MassKg = chassis.WeightToMass(chassis.FromKN(weightKN))
	}
	if flags.Changed("mass") {
		cfg.Rig.MassKg = massKg
		cfg.Rig.WeightKN = 0
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Lookup("from") != nil {
		if flags.Changed("from") {
			cfg.Sweep.From = from
		}
		if flags.Changed("to") {
			cfg.Sweep.To = to
		}
		if flags.Changed("step") {
			cfg.Sweep.Step = step
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
