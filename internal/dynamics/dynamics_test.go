package dynamics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rigload/internal/chassis"
)

func testVehicle() Vehicle {
	ratios := []float64{13.8, 11.54, 9.49, 7.93, 6.53, 5.46, 4.57, 3.82, 3.02, 2.53, 2.08, 1.74, 1.43, 1.2, 1.0, 0.84}
	gears := make([]Gear, len(ratios))
	for i, r := range ratios {
		gears[i] = Gear{Name: string(rune('A' + i)), Ratio: r}
	}
	return Vehicle{
		Mass: 24700,
		Powertrain: Powertrain{
			Gears:       gears,
			FinalDrive:  6.727,
			Efficiency:  0.9,
			WheelRadius: 0.8235,
			Curve: TorqueCurve{
				Speeds: []float64{800, 1000, 1200, 1400, 1600, 1800, 1900, 2000, 2100, 2200},
				Torque: []float64{2000, 2300, 2300, 2300, 2086, 1885, 1789, 1684, 1580, 1475},
			},
		},
		Road: Road{
			Rolling:         0.05,
			DragCoefficient: 0.6,
			FrontalArea:     10.1,
			AirDensity:      1.204,
			Adhesion:        0.7,
		},
	}
}

func newCalc(t *testing.T, v Vehicle) *Calculator {
	t.Helper()
	c, err := New(v)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return c
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *Vehicle)
	}{
		{"zero mass", func(v *Vehicle) { v.Mass = 0 }},
		{"no gears", func(v *Vehicle) { v.Powertrain.Gears = nil }},
		{"zero ratio", func(v *Vehicle) { v.Powertrain.Gears[3].Ratio = 0 }},
		{"efficiency above 1", func(v *Vehicle) { v.Powertrain.Efficiency = 1.2 }},
		{"zero radius", func(v *Vehicle) { v.Powertrain.WheelRadius = 0 }},
		{"zero final drive", func(v *Vehicle) { v.Powertrain.FinalDrive = 0 }},
		{"unsorted curve", func(v *Vehicle) { v.Powertrain.Curve.Speeds[2] = 900 }},
		{"short curve", func(v *Vehicle) {
			v.Powertrain.Curve = TorqueCurve{Speeds: []float64{1000}, Torque: []float64{2000}}
		}},
		{"negative drag", func(v *Vehicle) { v.Road.DragCoefficient = -1 }},
		{"vertical road", func(v *Vehicle) { v.Road.Grade = math.Pi / 2 }},
		{"light rotating mass", func(v *Vehicle) { v.RotatingMassFactor = 0.5 }},
	}

	for _, tt := range tests {
		v := testVehicle()
		tt.mutate(&v)
		if _, err := New(v); !errors.Is(err, ErrInvalidPowertrain) {
			t.Errorf("%s: expected ErrInvalidPowertrain, got %v", tt.name, err)
		}
	}
}

func TestDefaultRotatingMassFactor(t *testing.T) {
	c := newCalc(t, testVehicle())
	if c.Vehicle().RotatingMassFactor != DefaultRotatingMassFactor {
		t.Errorf("expected delta %f, got %f", DefaultRotatingMassFactor, c.Vehicle().RotatingMassFactor)
	}
}

func TestSpeedConversionRoundTrip(t *testing.T) {
	c := newCalc(t, testVehicle())
	for _, g := range c.Gears() {
		v := c.VehicleSpeed(1500, g)
		if rpm := c.EngineSpeed(v, g); math.Abs(rpm-1500) > 1e-9 {
			t.Errorf("gear %s: expected 1500 rpm, got %f", g.Name, rpm)
		}
	}

	first, _ := c.Gear("1")
	want := 2 * math.Pi * 800 * 0.8235 / (60 * 13.8 * 6.727)
	if v := c.VehicleSpeed(800, first); math.Abs(v-want) > 1e-12 {
		t.Errorf("expected %f m/s, got %f", want, v)
	}
}

func TestGearLookup(t *testing.T) {
	c := newCalc(t, testVehicle())

	byName, err := c.Gear("C")
	if err != nil || byName.Ratio != 9.49 {
		t.Errorf("expected gear C ratio 9.49, got %v (%v)", byName, err)
	}
	byIndex, err := c.Gear("16")
	if err != nil || byIndex.Ratio != 0.84 {
		t.Errorf("expected gear 16 ratio 0.84, got %v (%v)", byIndex, err)
	}
	for _, name := range []string{"0", "17", "overdrive"} {
		if _, err := c.Gear(name); !errors.Is(err, ErrUnknownGear) {
			t.Errorf("%q: expected ErrUnknownGear, got %v", name, err)
		}
	}
}

func TestResistanceLevelStandstill(t *testing.T) {
	c := newCalc(t, testVehicle())
	r := c.ResistanceAt(0, 0)

	want := 24700 * chassis.Gravity * 0.05
	if math.Abs(r.Rolling-want) > 1e-9 {
		t.Errorf("expected rolling %f, got %f", want, r.Rolling)
	}
	if r.Aero != 0 || r.Grade != 0 {
		t.Errorf("expected rolling only, got aero %f grade %f", r.Aero, r.Grade)
	}
	if r.Total != r.Rolling {
		t.Errorf("expected total %f, got %f", r.Rolling, r.Total)
	}
}

func TestResistanceGrowsWithGradeAndSpeed(t *testing.T) {
	c := newCalc(t, testVehicle())

	prev := c.ResistanceAt(10, 0).Total
	for _, pct := range []float64{2, 5, 10, 20, 30} {
		r := c.ResistanceAt(10, chassis.AngleFromPercent(pct)).Total
		if r <= prev {
			t.Errorf("%.0f%%: resistance %f did not exceed %f", pct, r, prev)
		}
		prev = r
	}

	if math.Abs(c.ResistanceAt(20, 0).Aero-4*c.ResistanceAt(10, 0).Aero) > 1e-9 {
		t.Error("expected aerodynamic drag to scale with speed squared")
	}
}

func TestEvaluateReportsInsufficientTraction(t *testing.T) {
	c := newCalc(t, testVehicle())

	res, err := c.Evaluate(OperatingPoint{Speed: 25, Gear: "16", Grade: 0.1})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Net >= 0 || res.CanMove {
		t.Errorf("expected negative net force, got %f (can move %v)", res.Net, res.CanMove)
	}
	if res.Acceleration >= 0 {
		t.Errorf("expected deceleration, got %f", res.Acceleration)
	}
	if res.MaxGrade >= 0.1 {
		t.Errorf("expected max grade below the road grade, got %f", res.MaxGrade)
	}
}

func TestEvaluateAcceleration(t *testing.T) {
	c := newCalc(t, testVehicle())

	res, err := c.Evaluate(OperatingPoint{Speed: 10, Gear: "10"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.CanMove || !res.CanClimb {
		t.Fatalf("expected surplus traction, got net %f", res.Net)
	}
	want := res.Net / (DefaultRotatingMassFactor * 24700)
	if math.Abs(res.Acceleration-want) > 1e-12 {
		t.Errorf("expected acceleration %f, got %f", want, res.Acceleration)
	}
	if res.Gear != "J" {
		t.Errorf("expected gear J, got %s", res.Gear)
	}
}

func TestMaxGradeBalancesForces(t *testing.T) {
	c := newCalc(t, testVehicle())

	res, err := c.Evaluate(OperatingPoint{Speed: 10, Gear: "10"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.AdhesionLimited {
		t.Fatal("expected an engine-limited operating point")
	}

	at := c.EvaluateForce(res.Tractive, 10, res.MaxGrade)
	if math.Abs(at.Net) > 1e-6*24700*chassis.Gravity {
		t.Errorf("expected zero net force at max grade, got %f", at.Net)
	}
}

func TestMaxGradeAdhesionBound(t *testing.T) {
	c := newCalc(t, testVehicle())

	// far more force than the tyres can transmit
	g := c.MaxGrade(1e7, 1)
	aero := c.ResistanceAt(1, 0).Aero
	k := 0.7 - 0.05
	want := math.Atan(k) - math.Asin(aero/(24700*chassis.Gravity*math.Hypot(1, k)))
	if math.Abs(g-want) > 1e-12 {
		t.Errorf("expected grip-limited grade %f, got %f", want, g)
	}
}

func TestMaxGradeNegative(t *testing.T) {
	c := newCalc(t, testVehicle())
	if g := c.MaxGrade(1000, 20); g >= 0 {
		t.Errorf("expected negative max grade for a weak drive, got %f", g)
	}
}

func TestMaxGradeBoundedBelow(t *testing.T) {
	v := testVehicle()
	c := newCalc(t, v)
	v.Road.Adhesion = 0
	noGrip := newCalc(t, v)

	for _, calc := range []*Calculator{c, noGrip} {
		g := calc.MaxGrade(-1e9, 20)
		if g < -math.Pi/2 {
			t.Errorf("expected max grade >= -pi/2, got %f", g)
		}
		if pct := chassis.GradePercent(g); pct > 0 {
			t.Errorf("expected a negative grade percentage, got %f", pct)
		}
	}
}

func TestAdhesionClampsFirstGear(t *testing.T) {
	c := newCalc(t, testVehicle())

	res, err := c.Evaluate(OperatingPoint{Speed: 1, Gear: "1"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.AdhesionLimited {
		t.Fatal("expected first gear to exceed the adhesion limit")
	}
	if want := 0.7 * 24700 * chassis.Gravity; math.Abs(res.Tractive-want) > 1e-6 {
		t.Errorf("expected tractive %f, got %f", want, res.Tractive)
	}

	v := testVehicle()
	v.Road.Adhesion = 0
	free, err := newCalc(t, v).Evaluate(OperatingPoint{Speed: 1, Gear: "1"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if free.AdhesionLimited || free.Tractive <= res.Tractive {
		t.Errorf("expected unclamped force without adhesion, got %f", free.Tractive)
	}
}

func TestEvaluateErrors(t *testing.T) {
	c := newCalc(t, testVehicle())

	if _, err := c.Evaluate(OperatingPoint{Speed: 20, Gear: "1"}); !errors.Is(err, ErrSpeedOutOfRange) {
		t.Errorf("expected ErrSpeedOutOfRange, got %v", err)
	}
	if _, err := c.Evaluate(OperatingPoint{Speed: -1, Gear: "1"}); !errors.Is(err, ErrSpeedOutOfRange) {
		t.Errorf("expected ErrSpeedOutOfRange for negative speed, got %v", err)
	}
	if _, err := c.Evaluate(OperatingPoint{Speed: 5, Gear: "R"}); !errors.Is(err, ErrUnknownGear) {
		t.Errorf("expected ErrUnknownGear, got %v", err)
	}
}

func TestTractionCurve(t *testing.T) {
	c := newCalc(t, testVehicle())
	g, _ := c.Gear("12")

	pts := c.TractionCurve(g)
	if len(pts) != 10 {
		t.Fatalf("expected 10 samples, got %d", len(pts))
	}
	for i, p := range pts {
		if i > 0 && p.Speed <= pts[i-1].Speed {
			t.Errorf("sample %d: speed not increasing", i)
		}
		if math.Abs(p.Power-p.Force*p.Speed/1000) > 1e-9 {
			t.Errorf("sample %d: power mismatch", i)
		}
	}
}

func TestTopSpeedBalancesResistance(t *testing.T) {
	c := newCalc(t, testVehicle())

	ts, ok := c.VehicleTopSpeed(0)
	if !ok {
		t.Fatal("expected a top speed on level road")
	}
	if ts.Speed < 15 || ts.Speed > 30 {
		t.Errorf("expected top speed between 15 and 30 m/s, got %f", ts.Speed)
	}
	if ts.Governed {
		t.Fatal("expected a resistance-limited top speed")
	}

	res, err := c.Evaluate(OperatingPoint{Speed: ts.Speed, Gear: ts.Gear})
	if err != nil {
		t.Fatalf("evaluate at top speed: %v", err)
	}
	if math.Abs(res.Net) > 1e-6*24700*chassis.Gravity {
		t.Errorf("expected balanced forces at top speed, got net %f", res.Net)
	}

	for _, g := range c.Gears() {
		if other, ok := c.TopSpeed(g, 0); ok && other.Speed > ts.Speed+1e-9 {
			t.Errorf("gear %s reaches %f, faster than the best %f", g.Name, other.Speed, ts.Speed)
		}
	}
}

func TestTopSpeedGoverned(t *testing.T) {
	c := newCalc(t, testVehicle())
	g, _ := c.Gear("1")

	ts, ok := c.TopSpeed(g, 0)
	if !ok || !ts.Governed {
		t.Fatalf("expected first gear to hit the rev limit, got %+v", ts)
	}
	if _, hi := c.SpeedRange(g); math.Abs(ts.Speed-hi) > 1e-12 {
		t.Errorf("expected %f m/s, got %f", hi, ts.Speed)
	}
}

func TestTopSpeedSteepGrade(t *testing.T) {
	c := newCalc(t, testVehicle())
	g, _ := c.Gear("16")
	if _, ok := c.TopSpeed(g, 0.5); ok {
		t.Error("expected top gear to stall on a 0.5 rad grade")
	}
}

func TestPowerBalance(t *testing.T) {
	c := newCalc(t, testVehicle())
	g, _ := c.Gear("14")

	p, err := c.PowerBalance(g, 15, 0)
	if err != nil {
		t.Fatalf("power balance: %v", err)
	}
	if math.Abs(p.Reserve-(p.Tractive-p.Resistance)) > 1e-12 {
		t.Error("reserve should be tractive minus resistance power")
	}
	if want := c.ResistanceAt(15, 0).Total * 15 / 1000; math.Abs(p.Resistance-want) > 1e-9 {
		t.Errorf("expected resistance power %f, got %f", want, p.Resistance)
	}

	if _, err := c.PowerBalance(g, 100, 0); !errors.Is(err, ErrSpeedOutOfRange) {
		t.Errorf("expected ErrSpeedOutOfRange, got %v", err)
	}
	if n := len(c.PowerCurve(g, 0)); n != 10 {
		t.Errorf("expected 10 power samples, got %d", n)
	}
}

func TestSummaryClampsClimbSpeed(t *testing.T) {
	c := newCalc(t, testVehicle())

	s, err := c.Summary(chassis.KmhToMs(10))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	first, _ := c.Gear("1")
	if _, hi := c.SpeedRange(first); math.Abs(s.ClimbSpeed-hi) > 1e-12 {
		t.Errorf("expected climb speed clamped to %f, got %f", hi, s.ClimbSpeed)
	}
	if s.ClimbGear != "A" || s.MaxGrade <= 0 {
		t.Errorf("expected positive first-gear grade, got %s %f", s.ClimbGear, s.MaxGrade)
	}
	if math.Abs(s.MaxGradePct-chassis.GradePercent(s.MaxGrade)) > 1e-9 {
		t.Error("grade percent mismatch")
	}
	if !s.CanMove || s.TopSpeed.Speed <= 0 {
		t.Errorf("expected a top speed, got %+v", s.TopSpeed)
	}

	if _, err := c.Summary(-1); !errors.Is(err, ErrSpeedOutOfRange) {
		t.Errorf("expected ErrSpeedOutOfRange, got %v", err)
	}
}

func TestQuadraticRoots(t *testing.T) {
	if r := quadraticRoots(1, 0, 1); r != nil {
		t.Errorf("expected no real roots, got %v", r)
	}
	if r := quadraticRoots(0, 2, -4); len(r) != 1 || r[0] != 2 {
		t.Errorf("expected linear root 2, got %v", r)
	}
	r := quadraticRoots(1, -3, 2)
	if len(r) != 2 || r[0] != 1 || r[1] != 2 {
		t.Errorf("expected roots 1 and 2, got %v", r)
	}
}

func TestAccelerationCurveMatchesEvaluate(t *testing.T) {
	c := newCalc(t, testVehicle())
	grade := chassis.AngleFromPercent(2)

	for _, gear := range []string{"A", "F", "P"} {
		g, err := c.Gear(gear)
		if err != nil {
			t.Fatalf("gear %s: %v", gear, err)
		}
		curve := c.AccelerationCurve(g, grade)
		if len(curve) != 10 {
			t.Fatalf("gear %s: expected 10 samples, got %d", gear, len(curve))
		}
		for _, p := range curve {
			res, err := c.Evaluate(OperatingPoint{Speed: p.Speed, Gear: gear, Grade: grade})
			if err != nil {
				t.Fatalf("gear %s at %f m/s: %v", gear, p.Speed, err)
			}
			if math.Abs(res.Acceleration-p.Acceleration) > 1e-9 {
				t.Errorf("gear %s at %f m/s: expected %f, got %f", gear, p.Speed, res.Acceleration, p.Acceleration)
			}
		}
	}
}

func TestAccelerationCurveDecelerates(t *testing.T) {
	c := newCalc(t, testVehicle())
	g, _ := c.Gear("P")
	curve := c.AccelerationCurve(g, chassis.AngleFromPercent(20))
	for _, p := range curve {
		if p.Acceleration >= 0 {
			t.Errorf("expected deceleration in top gear on 20%% at %f m/s, got %f", p.Speed, p.Acceleration)
		}
	}
}

func TestBalanceDiagram(t *testing.T) {
	c := newCalc(t, testVehicle())
	d := c.Balance(0, 80)

	if len(d.Speeds) != 80 || len(d.Resistance) != 80 {
		t.Fatalf("expected 80 samples, got %d speeds and %d resistances", len(d.Speeds), len(d.Resistance))
	}
	if len(d.Gears) != 16 {
		t.Fatalf("expected 16 gears, got %d", len(d.Gears))
	}
	if d.Speeds[0] != 0 {
		t.Errorf("expected grid to start at standstill, got %f", d.Speeds[0])
	}
	if want := c.ResistanceAt(0, 0).Rolling; math.Abs(d.Resistance[0]-want) > 1e-9 {
		t.Errorf("expected rolling resistance %f at standstill, got %f", want, d.Resistance[0])
	}

	top := c.Gears()[15]
	_, hi := c.SpeedRange(top)
	if math.Abs(d.Speeds[79]-hi) > 1e-9 {
		t.Errorf("expected grid to end at %f, got %f", hi, d.Speeds[79])
	}

	for gi, s := range d.Gears {
		g := c.Gears()[gi]
		lo, hi := c.SpeedRange(g)
		inRange := 0
		for i, v := range d.Speeds {
			inside := v >= lo && v <= hi
			if inside != !math.IsNaN(s.Tractive[i]) {
				t.Errorf("gear %s at %f m/s: range %f..%f, tractive %f", s.Gear, v, lo, hi, s.Tractive[i])
			}
			if inside {
				inRange++
				want := (s.Tractive[i] - d.Resistance[i]) / (c.Vehicle().RotatingMassFactor * c.Vehicle().Mass)
				if math.Abs(s.Acceleration[i]-want) > 1e-9 {
					t.Errorf("gear %s at %f m/s: acceleration %f, want %f", s.Gear, v, s.Acceleration[i], want)
				}
			}
		}
		if inRange == 0 {
			t.Errorf("gear %s has no samples in range", s.Gear)
		}
	}
}
