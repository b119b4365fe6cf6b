package chassis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// NumAxles is fixed by the 8x8 chassis this package describes.
const NumAxles = 4

// AxleLayout holds longitudinal axle coordinates in metres, measured rearward
// from axle 1.
type AxleLayout struct {
	Positions [NumAxles]float64
}

// LayoutFromSpacings builds a layout from the 1-2, 2-3 and 3-4 spacings.
func LayoutFromSpacings(l1, l2, l3 float64) AxleLayout {
	return AxleLayout{Positions: [NumAxles]float64{0, l1, l1 + l2, l1 + l2 + l3}}
}

// Validate requires finite, strictly increasing positions with axle 1 at or
// behind the origin.
func (l AxleLayout) Validate() error {
	if l.Positions[0] < 0 {
		return Invalid(ConstraintLayout, l.Positions[0], "axle 1 ahead of the origin")
	}
	for i, x := range l.Positions {
		if !finite(x) {
			return Invalid(ConstraintLayout, x, fmt.Sprintf("axle %d", i+1))
		}
		if i > 0 && x <= l.Positions[i-1] {
			return Invalid(ConstraintLayout, x, fmt.Sprintf("axle %d not behind axle %d", i+1, i))
		}
	}
	return nil
}

// Wheelbase is the distance from axle 1 to axle 4.
func (l AxleLayout) Wheelbase() float64 {
	return l.Positions[NumAxles-1] - l.Positions[0]
}

// FrontCentroid is the mid point of axles 1 and 2.
func (l AxleLayout) FrontCentroid() float64 {
	return (l.Positions[0] + l.Positions[1]) / 2
}

// RearCentroid is the mid point of axles 3 and 4.
func (l AxleLayout) RearCentroid() float64 {
	return (l.Positions[2] + l.Positions[3]) / 2
}

func (l AxleLayout) Spacings() (l1, l2, l3 float64) {
	p := l.Positions
	return p[1] - p[0], p[2] - p[1], p[3] - p[2]
}

// Offsets returns x_i - cg for every axle; negative values are ahead of the CG.
func (l AxleLayout) Offsets(cg float64) [NumAxles]float64 {
	var d [NumAxles]float64
	for i, x := range l.Positions {
		d[i] = x - cg
	}
	return d
}

// Component is one mass contribution (chassis, mast, cab, fuel, payload) at
// longitudinal position X.
type Component struct {
	Name   string  `yaml:"name" json:"name"`
	MassKg float64 `yaml:"mass_kg" json:"mass_kg"`
	X      float64 `yaml:"x_m" json:"x_m"`
}

type Components []Component

// Aggregate returns the total mass and the mass-weighted CG position.
func (c Components) Aggregate() (massKg, cg float64, err error) {
	if len(c) == 0 {
		return 0, 0, Invalid(ConstraintMass, 0, "no components")
	}
	masses := make([]float64, len(c))
	xs := make([]float64, len(c))
	for i, comp := range c {
		if !finite(comp.MassKg) || comp.MassKg <= 0 {
			return 0, 0, Invalid(ConstraintMass, comp.MassKg, comp.Name)
		}
		if !finite(comp.X) {
			return 0, 0, Invalid(ConstraintLayout, comp.X, comp.Name)
		}
		masses[i] = comp.MassKg
		xs[i] = comp.X
	}
	massKg = floats.Sum(masses)
	return massKg, floats.Dot(masses, xs) / massKg, nil
}

// Vehicle is the immutable input to a load-distribution run. Weight is in
// newtons, CG in metres on the layout axis.
type Vehicle struct {
	Name   string
	Layout AxleLayout
	Weight float64
	CG     float64
}

func NewVehicle(name string, layout AxleLayout, weight, cg float64) (Vehicle, error) {
	v := Vehicle{Name: name, Layout: layout, Weight: weight, CG: cg}
	if err := v.Validate(); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// VehicleFromComponents derives weight and CG from the component list.
func VehicleFromComponents(name string, layout AxleLayout, comps Components) (Vehicle, error) {
	mass, cg, err := comps.Aggregate()
	if err != nil {
		return Vehicle{}, err
	}
	return NewVehicle(name, layout, MassToWeight(mass), cg)
}

func (v Vehicle) Validate() error {
	if !finite(v.Weight) || v.Weight <= 0 {
		return Invalid(ConstraintWeight, v.Weight, "")
	}
	if !finite(v.CG) {
		return Invalid(ConstraintCGOutside, v.CG, "not a number")
	}
	return v.Layout.Validate()
}

// WithCG returns a copy of v with the CG moved.
func (v Vehicle) WithCG(cg float64) Vehicle {
	v.CG = cg
	return v
}

// Assumptions lists the simplifications behind the load models so callers can
// see, and where supported vary, what each formula takes for granted.
type Assumptions struct {
	// UniformStiffness: every axle has the same spring rate. When cleared the
	// inverse-distance model weights each axle by Stiffness[i].
	UniformStiffness bool `yaml:"uniform_stiffness" json:"uniform_stiffness"`
	// RigidFrame: the frame does not bend between axles.
	RigidFrame bool `yaml:"rigid_frame" json:"rigid_frame"`
	// LinearSuspension: deflection is proportional to load.
	LinearSuspension bool `yaml:"linear_suspension" json:"linear_suspension"`
	// EqualPairSharing: the paired model splits each pair's load evenly.
	EqualPairSharing bool `yaml:"equal_pair_sharing" json:"equal_pair_sharing"`
	// Stiffness is the per-axle spring rate (N/m), used only when
	// UniformStiffness is false.
	Stiffness [NumAxles]float64 `yaml:"stiffness" json:"stiffness"`
}

func DefaultAssumptions() Assumptions {
	return Assumptions{
		UniformStiffness: true,
		RigidFrame:       true,
		LinearSuspension: true,
		EqualPairSharing: true,
	}
}

// StiffnessWeights returns k_i per axle; all ones under uniform stiffness.
func (a Assumptions) StiffnessWeights() ([NumAxles]float64, error) {
	var k [NumAxles]float64
	for i := range k {
		if a.UniformStiffness {
			k[i] = 1
			continue
		}
		if !finite(a.Stiffness[i]) || a.Stiffness[i] <= 0 {
			return k, Invalid(ConstraintStiffness, a.Stiffness[i], fmt.Sprintf("axle %d", i+1))
		}
		k[i] = a.Stiffness[i]
	}
	return k, nil
}
