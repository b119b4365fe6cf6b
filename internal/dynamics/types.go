package dynamics

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidPowertrain indicates a non-physical powertrain or road parameter.
	ErrInvalidPowertrain = errors.New("dynamics: invalid powertrain parameters")

	// ErrSpeedOutOfRange indicates the requested road speed needs an engine
	// speed outside the torque curve in the chosen gear.
	ErrSpeedOutOfRange = errors.New("dynamics: engine speed outside torque curve")

	// ErrUnknownGear indicates a gear name or index that is not in the gearbox.
	ErrUnknownGear = errors.New("dynamics: unknown gear")
)

// DefaultRotatingMassFactor accounts for wheel and driveline inertia.
const DefaultRotatingMassFactor = 1.05

// TorqueCurve is the full-load engine characteristic.
type TorqueCurve struct {
	Speeds []float64 `yaml:"rpm" json:"rpm"`
	Torque []float64 `yaml:"torque_nm" json:"torque_nm"`
}

func (c TorqueCurve) Validate() error {
	if len(c.Speeds) < 2 || len(c.Speeds) != len(c.Torque) {
		return fmt.Errorf("%w: torque curve needs at least 2 matching samples", ErrInvalidPowertrain)
	}
	for i := range c.Speeds {
		if i > 0 && c.Speeds[i] <= c.Speeds[i-1] {
			return fmt.Errorf("%w: curve speeds must increase (%g after %g)", ErrInvalidPowertrain, c.Speeds[i], c.Speeds[i-1])
		}
		if c.Speeds[i] <= 0 || c.Torque[i] < 0 || math.IsNaN(c.Torque[i]) {
			return fmt.Errorf("%w: bad curve sample %g rpm / %g N m", ErrInvalidPowertrain, c.Speeds[i], c.Torque[i])
		}
	}
	return nil
}

func (c TorqueCurve) MinSpeed() float64 { return c.Speeds[0] }

func (c TorqueCurve) MaxSpeed() float64 { return c.Speeds[len(c.Speeds)-1] }

type Gear struct {
	Name  string  `yaml:"name" json:"name"`
	Ratio float64 `yaml:"ratio" json:"ratio"`
}

type Powertrain struct {
	Gears       []Gear      `yaml:"gears" json:"gears"`
	FinalDrive  float64     `yaml:"final_drive" json:"final_drive"`
	Efficiency  float64     `yaml:"efficiency" json:"efficiency"`
	WheelRadius float64     `yaml:"wheel_radius_m" json:"wheel_radius_m"`
	Curve       TorqueCurve `yaml:"curve" json:"curve"`
}

func (p Powertrain) Validate() error {
	if len(p.Gears) == 0 {
		return fmt.Errorf("%w: no gears", ErrInvalidPowertrain)
	}
	for _, g := range p.Gears {
		if g.Ratio <= 0 || math.IsNaN(g.Ratio) {
			return fmt.Errorf("%w: gear %q ratio %g", ErrInvalidPowertrain, g.Name, g.Ratio)
		}
	}
	if p.FinalDrive <= 0 {
		return fmt.Errorf("%w: final drive %g", ErrInvalidPowertrain, p.FinalDrive)
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return fmt.Errorf("%w: efficiency %g outside (0, 1]", ErrInvalidPowertrain, p.Efficiency)
	}
	if p.WheelRadius <= 0 {
		return fmt.Errorf("%w: wheel radius %g", ErrInvalidPowertrain, p.WheelRadius)
	}
	return p.Curve.Validate()
}

// Road holds the resistance coefficients and the default gradient (rad).
// Adhesion <= 0 disables the tyre grip limit.
type Road struct {
	Rolling         float64 `yaml:"rolling" json:"rolling"`
	DragCoefficient float64 `yaml:"drag_coefficient" json:"drag_coefficient"`
	FrontalArea     float64 `yaml:"frontal_area_m2" json:"frontal_area_m2"`
	AirDensity      float64 `yaml:"air_density" json:"air_density"`
	Grade           float64 `yaml:"grade_rad" json:"grade_rad"`
	Adhesion        float64 `yaml:"adhesion" json:"adhesion"`
}

func (r Road) Validate() error {
	for name, v := range map[string]float64{
		"rolling": r.Rolling, "drag_coefficient": r.DragCoefficient,
		"frontal_area": r.FrontalArea, "air_density": r.AirDensity, "adhesion": r.Adhesion,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s %g", ErrInvalidPowertrain, name, v)
		}
	}
	if math.Abs(r.Grade) >= math.Pi/2 {
		return fmt.Errorf("%w: grade %g rad", ErrInvalidPowertrain, r.Grade)
	}
	return nil
}

type Vehicle struct {
	Mass               float64    `yaml:"mass_kg" json:"mass_kg"`
	RotatingMassFactor float64    `yaml:"rotating_mass_factor" json:"rotating_mass_factor"`
	Powertrain         Powertrain `yaml:"powertrain" json:"powertrain"`
	Road               Road       `yaml:"road" json:"road"`
}

// Resistances are the road loads (N) at one speed and grade.
type Resistances struct {
	Rolling float64 `json:"rolling_n"`
	Aero    float64 `json:"aero_n"`
	Grade   float64 `json:"grade_n"`
	Total   float64 `json:"total_n"`
}

// OperatingPoint selects a road speed (m/s), gear and grade (rad).
type OperatingPoint struct {
	Speed float64
	Gear  string
	Grade float64
}

// Result of one direct evaluation. Net and Acceleration keep their sign: a
// non-positive Net means the vehicle cannot hold Speed at Grade.
type Result struct {
	Speed           float64     `json:"speed_ms"`
	Grade           float64     `json:"grade_rad"`
	Gear            string      `json:"gear,omitempty"`
	EngineSpeed     float64     `json:"engine_rpm,omitempty"`
	Torque          float64     `json:"torque_nm,omitempty"`
	Tractive        float64     `json:"tractive_n"`
	AdhesionLimited bool        `json:"adhesion_limited"`
	Resistance      Resistances `json:"resistance"`
	Net             float64     `json:"net_n"`
	Acceleration    float64     `json:"acceleration_ms2"`
	MaxGrade        float64     `json:"max_grade_rad"`
	CanMove         bool        `json:"can_move"`
	CanClimb        bool        `json:"can_climb"`
}
