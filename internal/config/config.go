package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/dynamics"
	"github.com/san-kum/rigload/internal/loadshare"
)

const (
	DefaultMassKg      = 24700.0
	DefaultCG          = 4.2
	DefaultSweepStep   = 0.05
	DefaultClimbSpeed  = 10.0 // km/h
	DefaultFinalDrive  = 6.727
	DefaultEfficiency  = 0.9
	DefaultWheelRadius = 0.8235
	DefaultRolling     = 0.05
	DefaultDrag        = 0.6
	DefaultFrontalArea = 10.1
	DefaultAirDensity  = 1.204
	DefaultAdhesion    = 0.7
	DefaultModel       = loadshare.InverseDistanceName
	DefaultPresetName  = "workover"
	defaultFileMode    = 0644
	numSpacings        = chassis.NumAxles - 1
)

var (
	defaultSpacings = []float64{1.8, 4.8, 1.4}
	defaultRatios   = []float64{13.8, 11.54, 9.49, 7.93, 6.53, 5.46, 4.57, 3.82, 3.02, 2.53, 2.08, 1.74, 1.43, 1.2, 1.0, 0.84}
	defaultRPM      = []float64{800, 1000, 1200, 1400, 1600, 1800, 1900, 2000, 2100, 2200}
	defaultTorque   = []float64{2000, 2300, 2300, 2300, 2086, 1885, 1789, 1684, 1580, 1475}
)

type Config struct {
	Name      string               `yaml:"name"`
	Model     string               `yaml:"model"`
	Rig       RigConfig            `yaml:"vehicle"`
	Assume    chassis.Assumptions  `yaml:"assumptions"`
	Sweep     loadshare.SweepRange `yaml:"sweep"`
	Drive     DriveConfig          `yaml:"dynamics"`
	Tolerance float64              `yaml:"tolerance"`
}

// RigConfig describes the chassis. Components, when present, override the
// lumped mass and CG. Axle positions take precedence over spacings.
type RigConfig struct {
	MassKg     float64            `yaml:"mass_kg,omitempty"`
	WeightKN   float64            `yaml:"weight_kn,omitempty"`
	CG         float64            `yaml:"cg_m"`
	Axles      []float64          `yaml:"axles_m,omitempty"`
	Spacings   []float64          `yaml:"spacings_m,omitempty"`
	Components chassis.Components `yaml:"components,omitempty"`
}

type DriveConfig struct {
	RotatingMassFactor float64             `yaml:"rotating_mass_factor"`
	ClimbSpeedKmh      float64             `yaml:"climb_speed_kmh"`
	Powertrain         dynamics.Powertrain `yaml:"powertrain"`
	Road               dynamics.Road       `yaml:"road"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:  DefaultPresetName,
		Model: DefaultModel,
		Rig: RigConfig{
			MassKg:   DefaultMassKg,
			CG:       DefaultCG,
			Spacings: append([]float64(nil), defaultSpacings...),
		},
		Assume: chassis.DefaultAssumptions(),
		Sweep:  loadshare.SweepRange{From: 1.8, To: 6.6, Step: DefaultSweepStep},
		Drive: DriveConfig{
			RotatingMassFactor: dynamics.DefaultRotatingMassFactor,
			ClimbSpeedKmh:      DefaultClimbSpeed,
			Powertrain:         defaultPowertrain(),
			Road: dynamics.Road{
				Rolling:         DefaultRolling,
				DragCoefficient: DefaultDrag,
				FrontalArea:     DefaultFrontalArea,
				AirDensity:      DefaultAirDensity,
				Adhesion:        DefaultAdhesion,
			},
		},
		Tolerance: chassis.DefaultTolerance,
	}
}

func defaultPowertrain() dynamics.Powertrain {
	gears := make([]dynamics.Gear, len(defaultRatios))
	for i, r := range defaultRatios {
		gears[i] = dynamics.Gear{Name: fmt.Sprintf("%d", i+1), Ratio: r}
	}
	return dynamics.Powertrain{
		Gears:       gears,
		FinalDrive:  DefaultFinalDrive,
		Efficiency:  DefaultEfficiency,
		WheelRadius: DefaultWheelRadius,
		Curve: dynamics.TorqueCurve{
			Speeds: append([]float64(nil), defaultRPM...),
			Torque: append([]float64(nil), defaultTorque...),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, defaultFileMode)
}

// Layout resolves the axle positions.
func (c *Config) Layout() (chassis.AxleLayout, error) {
	switch {
	case len(c.Rig.Axles) == chassis.NumAxles:
		var l chassis.AxleLayout
		copy(l.Positions[:], c.Rig.Axles)
		return l, l.Validate()
	case len(c.Rig.Axles) > 0:
		return chassis.AxleLayout{}, chassis.Invalid(chassis.ConstraintLayout, float64(len(c.Rig.Axles)), "axles_m needs 4 positions")
	case len(c.Rig.Spacings) == numSpacings:
		s := c.Rig.Spacings
		l := chassis.LayoutFromSpacings(s[0], s[1], s[2])
		return l, l.Validate()
	default:
		return chassis.AxleLayout{}, chassis.Invalid(chassis.ConstraintLayout, float64(len(c.Rig.Spacings)), "spacings_m needs 3 values")
	}
}

// Vehicle builds the chassis model from the vehicle section.
func (c *Config) Vehicle() (chassis.Vehicle, error) {
	layout, err := c.Layout()
	if err != nil {
		return chassis.Vehicle{}, err
	}
	if len(c.Rig.Components) > 0 {
		return chassis.VehicleFromComponents(c.Name, layout, c.Rig.Components)
	}
	// weight_kn wins when present; zero means unset
	weight := chassis.MassToWeight(c.Rig.MassKg)
	if c.Rig.WeightKN != 0 {
		weight = chassis.FromKN(c.Rig.WeightKN)
	}
	return chassis.NewVehicle(c.Name, layout, weight, c.Rig.CG)
}

func (c *Config) Assumptions() chassis.Assumptions { return c.Assume }

// Dynamics builds the longitudinal model. The mass follows the vehicle section.
func (c *Config) Dynamics() (*dynamics.Calculator, error) {
	v, err := c.Vehicle()
	if err != nil {
		return nil, err
	}
	return dynamics.New(dynamics.Vehicle{
		Mass:               chassis.WeightToMass(v.Weight),
		RotatingMassFactor: c.Drive.RotatingMassFactor,
		Powertrain:         c.Drive.Powertrain,
		Road:               c.Drive.Road,
	})
}

// LoadModel resolves the configured load-share model.
func (c *Config) LoadModel() (loadshare.Model, error) {
	return loadshare.ByName(c.Model, c.Assume)
}

func (c *Config) Validate() error {
	if _, err := c.Vehicle(); err != nil {
		return fmt.Errorf("vehicle: %w", err)
	}
	if _, err := c.LoadModel(); err != nil {
		return err
	}
	if err := c.Sweep.Validate(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if _, err := c.Dynamics(); err != nil {
		return fmt.Errorf("dynamics: %w", err)
	}
	return nil
}
