package dynamics

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/rigload/internal/chassis"
)

// Calculator evaluates longitudinal performance for one vehicle. It is
// immutable after New and safe for concurrent use.
type Calculator struct {
	v     Vehicle
	curve interp.PiecewiseLinear
}

func New(v Vehicle) (*Calculator, error) {
	if v.Mass <= 0 || math.IsNaN(v.Mass) {
		return nil, fmt.Errorf("%w: mass %g", ErrInvalidPowertrain, v.Mass)
	}
	if v.RotatingMassFactor == 0 {
		v.RotatingMassFactor = DefaultRotatingMassFactor
	}
	if v.RotatingMassFactor < 1 {
		return nil, fmt.Errorf("%w: rotating mass factor %g below 1", ErrInvalidPowertrain, v.RotatingMassFactor)
	}
	if err := v.Powertrain.Validate(); err != nil {
		return nil, err
	}
	if err := v.Road.Validate(); err != nil {
		return nil, err
	}

	c := &Calculator{v: v}
	if err := c.curve.Fit(v.Powertrain.Curve.Speeds, v.Powertrain.Curve.Torque); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPowertrain, err)
	}
	return c, nil
}

func (c *Calculator) Vehicle() Vehicle { return c.v }

func (c *Calculator) weight() float64 { return c.v.Mass * chassis.Gravity }

func (c *Calculator) totalRatio(g Gear) float64 { return g.Ratio * c.v.Powertrain.FinalDrive }

// Gear resolves a gear by name or by 1-based index.
func (c *Calculator) Gear(name string) (Gear, error) {
	gears := c.v.Powertrain.Gears
	for _, g := range gears {
		if g.Name == name {
			return g, nil
		}
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 1 && i <= len(gears) {
		return gears[i-1], nil
	}
	return Gear{}, fmt.Errorf("%w: %q", ErrUnknownGear, name)
}

func (c *Calculator) Gears() []Gear { return c.v.Powertrain.Gears }

// VehicleSpeed converts engine speed (rpm) to road speed (m/s) in gear g.
func (c *Calculator) VehicleSpeed(rpm float64, g Gear) float64 {
	return 2 * math.Pi * rpm * c.v.Powertrain.WheelRadius / (60 * c.totalRatio(g))
}

// EngineSpeed is the inverse of VehicleSpeed.
func (c *Calculator) EngineSpeed(speed float64, g Gear) float64 {
	return speed * 60 * c.totalRatio(g) / (2 * math.Pi * c.v.Powertrain.WheelRadius)
}

// SpeedRange is the road speed span (m/s) the torque curve covers in gear g.
func (c *Calculator) SpeedRange(g Gear) (lo, hi float64) {
	curve := c.v.Powertrain.Curve
	return c.VehicleSpeed(curve.MinSpeed(), g), c.VehicleSpeed(curve.MaxSpeed(), g)
}

// Torque interpolates the full-load curve.
func (c *Calculator) Torque(rpm float64) (float64, error) {
	curve := c.v.Powertrain.Curve
	if rpm < curve.MinSpeed()-1e-9 || rpm > curve.MaxSpeed()+1e-9 {
		return 0, fmt.Errorf("%w: %.1f rpm not in [%g, %g]", ErrSpeedOutOfRange, rpm, curve.MinSpeed(), curve.MaxSpeed())
	}
	return c.curve.Predict(rpm), nil
}

// TractiveForce is the wheel force for engine torque in gear g, clamped by
// the adhesion limit on grade.
func (c *Calculator) TractiveForce(torque float64, g Gear, grade float64) float64 {
	return math.Min(c.wheelForce(torque, g), c.AdhesionLimit(grade))
}

func (c *Calculator) wheelForce(torque float64, g Gear) float64 {
	p := c.v.Powertrain
	return torque * c.totalRatio(g) * p.Efficiency / p.WheelRadius
}

// AdhesionLimit is the largest force the driven tyres transmit on grade.
func (c *Calculator) AdhesionLimit(grade float64) float64 {
	if c.v.Road.Adhesion <= 0 {
		return math.Inf(1)
	}
	return c.v.Road.Adhesion * c.weight() * math.Cos(grade)
}

// ResistanceAt sums the road loads at speed (m/s) on grade (rad).
func (c *Calculator) ResistanceAt(speed, grade float64) Resistances {
	r := c.v.Road
	w := c.weight()
	res := Resistances{
		Rolling: w * r.Rolling * math.Cos(grade),
		Aero:    c.aeroCoefficient() * speed * speed,
		Grade:   w * math.Sin(grade),
	}
	res.Total = res.Rolling + res.Aero + res.Grade
	return res
}

func (c *Calculator) aeroCoefficient() float64 {
	r := c.v.Road
	return 0.5 * r.DragCoefficient * r.FrontalArea * r.AirDensity
}

// Evaluate computes the force balance for a gear at the given speed.
func (c *Calculator) Evaluate(op OperatingPoint) (Result, error) {
	if op.Speed < 0 || math.IsNaN(op.Speed) {
		return Result{}, fmt.Errorf("%w: speed %g", ErrSpeedOutOfRange, op.Speed)
	}
	g, err := c.Gear(op.Gear)
	if err != nil {
		return Result{}, err
	}
	rpm := c.EngineSpeed(op.Speed, g)
	torque, err := c.Torque(rpm)
	if err != nil {
		return Result{}, fmt.Errorf("gear %s at %.2f m/s: %w", g.Name, op.Speed, err)
	}

	res := c.EvaluateForce(c.wheelForce(torque, g), op.Speed, op.Grade)
	res.Gear = g.Name
	res.EngineSpeed = rpm
	res.Torque = torque
	return res, nil
}

// EvaluateForce computes the force balance for a given engine-side tractive
// force, bypassing the gearbox. The adhesion limit still applies.
func (c *Calculator) EvaluateForce(force, speed, grade float64) Result {
	limit := c.AdhesionLimit(grade)
	res := Result{
		Speed:           speed,
		Grade:           grade,
		Tractive:        math.Min(force, limit),
		AdhesionLimited: force > limit,
		Resistance:      c.ResistanceAt(speed, grade),
	}
	res.Net = res.Tractive - res.Resistance.Total
	res.Acceleration = res.Net / (c.v.RotatingMassFactor * c.v.Mass)
	res.MaxGrade = c.MaxGrade(force, speed)
	res.CanMove = res.Net > 0
	res.CanClimb = res.MaxGrade > 0
	return res
}

// MaxGrade is the steepest grade (rad) at which force still covers the
// resistance at speed. Both the engine force and the adhesion limit bound
// it. The result is negative when even level road is too much.
func (c *Calculator) MaxGrade(force, speed float64) float64 {
	r := c.v.Road
	w := c.weight()
	aero := c.aeroCoefficient() * speed * speed

	// force - aero >= w (f cos a + sin a) = w sqrt(1+f^2) sin(a + atan f)
	engine := math.Asin(clampUnit((force-aero)/(w*math.Hypot(1, r.Rolling)))) - math.Atan(r.Rolling)
	if force-aero >= w*math.Hypot(1, r.Rolling) {
		engine = math.Pi / 2
	}
	engine = math.Max(engine, -math.Pi/2)
	if r.Adhesion <= 0 {
		return engine
	}

	// (mu - f) cos a - sin a >= aero / w
	k := r.Adhesion - r.Rolling
	grip := math.Atan(k) - math.Asin(clampUnit(aero/(w*math.Hypot(1, k))))
	return math.Min(engine, grip)
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
