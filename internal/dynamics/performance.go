package dynamics

import (
	"fmt"
	"math"

	"github.com/san-kum/rigload/internal/chassis"
)

// CurvePoint is one sample of the traction diagram.
type CurvePoint struct {
	EngineSpeed float64 `json:"engine_rpm"`
	Speed       float64 `json:"speed_ms"`
	Torque      float64 `json:"torque_nm"`
	Force       float64 `json:"force_n"`
	Power       float64 `json:"power_kw"`
}

// TractionCurve maps every torque-curve sample to road speed and wheel force
// in gear g. Force is clipped to the level-road adhesion limit.
func (c *Calculator) TractionCurve(g Gear) []CurvePoint {
	curve := c.v.Powertrain.Curve
	limit := c.AdhesionLimit(0)
	out := make([]CurvePoint, len(curve.Speeds))
	for i, rpm := range curve.Speeds {
		v := c.VehicleSpeed(rpm, g)
		f := math.Min(c.wheelForce(curve.Torque[i], g), limit)
		out[i] = CurvePoint{
			EngineSpeed: rpm,
			Speed:       v,
			Torque:      curve.Torque[i],
			Force:       f,
			Power:       f * v / 1000,
		}
	}
	return out
}

type TopSpeedResult struct {
	Gear  string  `json:"gear"`
	Speed float64 `json:"speed_ms"`
	// Governed is set when the engine reaches its top rpm before the
	// resistance catches up with the tractive force.
	Governed bool `json:"governed"`
}

// TopSpeed finds the highest speed on grade where gear g still covers
// the road load. It reports false when the gear cannot move the vehicle.
//
// Wheel force is linear between curve samples and resistance is A + B v^2,
// so each segment reduces to a quadratic.
func (c *Calculator) TopSpeed(g Gear, grade float64) (TopSpeedResult, bool) {
	curve := c.v.Powertrain.Curve
	a := c.ResistanceAt(0, grade).Total
	b := c.aeroCoefficient()

	speeds := make([]float64, len(curve.Speeds))
	forces := make([]float64, len(curve.Speeds))
	for i, rpm := range curve.Speeds {
		speeds[i] = c.VehicleSpeed(rpm, g)
		forces[i] = c.wheelForce(curve.Torque[i], g)
	}
	surplus := func(i int) float64 { return forces[i] - (a + b*speeds[i]*speeds[i]) }

	top, found := 0.0, false
	last := len(speeds) - 1
	if surplus(last) >= 0 {
		return c.limitByGrip(TopSpeedResult{Gear: g.Name, Speed: speeds[last], Governed: true}, a, b, grade), true
	}
	for i := last - 1; i >= 0 && !found; i-- {
		v0, v1 := speeds[i], speeds[i+1]
		slope := (forces[i+1] - forces[i]) / (v1 - v0)
		// b v^2 - slope v + (a - F0 + slope v0) = 0
		for _, root := range quadraticRoots(b, -slope, a-forces[i]+slope*v0) {
			if root >= v0-1e-12 && root <= v1+1e-12 && root > top {
				top, found = root, true
			}
		}
		if !found && surplus(i) >= 0 {
			top, found = v0, true
		}
	}
	if !found {
		return TopSpeedResult{Gear: g.Name}, false
	}
	return c.limitByGrip(TopSpeedResult{Gear: g.Name, Speed: top}, a, b, grade), true
}

// limitByGrip caps ts at the speed where the adhesion limit meets the road load.
func (c *Calculator) limitByGrip(ts TopSpeedResult, a, b, grade float64) TopSpeedResult {
	limit := c.AdhesionLimit(grade)
	if math.IsInf(limit, 1) || limit >= a+b*ts.Speed*ts.Speed {
		return ts
	}
	v := 0.0
	if b > 0 && limit > a {
		v = math.Sqrt((limit - a) / b)
	}
	if v < ts.Speed {
		ts.Speed = v
		ts.Governed = false
	}
	return ts
}

// quadraticRoots returns the real roots of a x^2 + b x + c, degrading to the
// linear case when a is zero.
func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}

// VehicleTopSpeed is the best TopSpeed over all gears on grade.
func (c *Calculator) VehicleTopSpeed(grade float64) (TopSpeedResult, bool) {
	var best TopSpeedResult
	ok := false
	for _, g := range c.v.Powertrain.Gears {
		ts, moved := c.TopSpeed(g, grade)
		if moved && (!ok || ts.Speed > best.Speed) {
			best, ok = ts, true
		}
	}
	return best, ok
}

// PowerPoint compares tractive and resistance power (kW) at one speed.
type PowerPoint struct {
	Speed      float64 `json:"speed_ms"`
	Tractive   float64 `json:"tractive_kw"`
	Resistance float64 `json:"resistance_kw"`
	Reserve    float64 `json:"reserve_kw"`
}

// PowerBalance compares tractive and resistance power for gear g at speed.
func (c *Calculator) PowerBalance(g Gear, speed, grade float64) (PowerPoint, error) {
	torque, err := c.Torque(c.EngineSpeed(speed, g))
	if err != nil {
		return PowerPoint{}, err
	}
	return c.powerPoint(c.TractiveForce(torque, g, grade), speed, grade), nil
}

// PowerCurve samples PowerBalance at every torque-curve point of gear g.
func (c *Calculator) PowerCurve(g Gear, grade float64) []PowerPoint {
	curve := c.v.Powertrain.Curve
	out := make([]PowerPoint, len(curve.Speeds))
	for i, rpm := range curve.Speeds {
		v := c.VehicleSpeed(rpm, g)
		out[i] = c.powerPoint(c.TractiveForce(curve.Torque[i], g, grade), v, grade)
	}
	return out
}

func (c *Calculator) powerPoint(force, speed, grade float64) PowerPoint {
	p := PowerPoint{
		Speed:      speed,
		Tractive:   force * speed / 1000,
		Resistance: c.ResistanceAt(speed, grade).Total * speed / 1000,
	}
	p.Reserve = p.Tractive - p.Resistance
	return p
}

type PerformanceSummary struct {
	TopSpeed    TopSpeedResult `json:"top_speed"`
	CanMove     bool           `json:"can_move"`
	ClimbGear   string         `json:"climb_gear"`
	ClimbSpeed  float64        `json:"climb_speed_ms"`
	MaxGrade    float64        `json:"max_grade_rad"`
	MaxGradePct float64        `json:"max_grade_pct"`
}

// Summary reports the level-road top speed and the steepest grade the
// first gear climbs near climbSpeed (m/s). climbSpeed is clamped to the
// range the first gear covers.
func (c *Calculator) Summary(climbSpeed float64) (PerformanceSummary, error) {
	if climbSpeed < 0 || math.IsNaN(climbSpeed) {
		return PerformanceSummary{}, fmt.Errorf("%w: climb speed %g", ErrSpeedOutOfRange, climbSpeed)
	}
	var s PerformanceSummary
	s.TopSpeed, s.CanMove = c.VehicleTopSpeed(0)

	first := c.v.Powertrain.Gears[0]
	lo, hi := c.SpeedRange(first)
	v := math.Max(lo, math.Min(hi, climbSpeed))
	res, err := c.Evaluate(OperatingPoint{Speed: v, Gear: first.Name})
	if err != nil {
		return PerformanceSummary{}, err
	}
	s.ClimbGear = first.Name
	s.ClimbSpeed = v
	s.MaxGrade = res.MaxGrade
	s.MaxGradePct = chassis.GradePercent(res.MaxGrade)
	return s, nil
}

// AccelPoint is the force balance at one torque-curve sample of a gear.
type AccelPoint struct {
	EngineSpeed  float64 `json:"engine_rpm"`
	Speed        float64 `json:"speed_ms"`
	Tractive     float64 `json:"tractive_n"`
	Resistance   float64 `json:"resistance_n"`
	Acceleration float64 `json:"acceleration_ms2"`
}

// AccelerationCurve evaluates (F_t - F)/(delta m) at every torque-curve
// sample of gear g on grade. Negative values mean the gear decelerates.
func (c *Calculator) AccelerationCurve(g Gear, grade float64) []AccelPoint {
	curve := c.v.Powertrain.Curve
	out := make([]AccelPoint, len(curve.Speeds))
	for i, rpm := range curve.Speeds {
		v := c.VehicleSpeed(rpm, g)
		f := c.TractiveForce(curve.Torque[i], g, grade)
		r := c.ResistanceAt(v, grade).Total
		out[i] = AccelPoint{
			EngineSpeed:  rpm,
			Speed:        v,
			Tractive:     f,
			Resistance:   r,
			Acceleration: (f - r) / (c.v.RotatingMassFactor * c.v.Mass),
		}
	}
	return out
}

// GearSeries samples one gear on a BalanceDiagram speed grid. Entries are
// NaN where the speed lies outside the gear's range.
type GearSeries struct {
	Gear         string    `json:"gear"`
	Tractive     []float64 `json:"tractive_n"`
	Acceleration []float64 `json:"acceleration_ms2"`
}

// BalanceDiagram overlays every gear's traction and acceleration on the road
// load, all sampled on one speed grid.
type BalanceDiagram struct {
	Grade      float64      `json:"grade_rad"`
	Speeds     []float64    `json:"speeds_ms"`
	Resistance []float64    `json:"resistance_n"`
	Gears      []GearSeries `json:"gears"`
}

// Balance samples the traction/resistance balance of all gears at samples
// evenly spaced speeds from standstill to the top of the highest gear.
func (c *Calculator) Balance(grade float64, samples int) BalanceDiagram {
	if samples < 2 {
		samples = 2
	}
	vmax := 0.0
	for _, g := range c.v.Powertrain.Gears {
		_, hi := c.SpeedRange(g)
		vmax = math.Max(vmax, hi)
	}

	d := BalanceDiagram{
		Grade:      grade,
		Speeds:     make([]float64, samples),
		Resistance: make([]float64, samples),
	}
	for i := range d.Speeds {
		v := vmax * float64(i) / float64(samples-1)
		d.Speeds[i] = v
		d.Resistance[i] = c.ResistanceAt(v, grade).Total
	}

	inertia := c.v.RotatingMassFactor * c.v.Mass
	for _, g := range c.v.Powertrain.Gears {
		s := GearSeries{
			Gear:         g.Name,
			Tractive:     make([]float64, samples),
			Acceleration: make([]float64, samples),
		}
		for i, v := range d.Speeds {
			torque, err := c.Torque(c.EngineSpeed(v, g))
			if err != nil {
				s.Tractive[i], s.Acceleration[i] = math.NaN(), math.NaN()
				continue
			}
			f := c.TractiveForce(torque, g, grade)
			s.Tractive[i] = f
			s.Acceleration[i] = (f - d.Resistance[i]) / inertia
		}
		d.Gears = append(d.Gears, s)
	}
	return d
}
