package loadshare

import (
	"fmt"

	"github.com/san-kum/rigload/internal/chassis"
	"gonum.org/v1/gonum/mat"
)

const RigidFrameName = "rigid"

// RigidFrame is the deflection-compatibility model: a rigid frame on linear
// springs stays planar, so every spring deflects by a + b*d_i and carries
// k_i*(a + b*d_i). Force and moment balance give two equations in a and b:
//
//	a*sum(k)     + b*sum(k d)   = W
//	a*sum(k d)   + b*sum(k d^2) = 0
type RigidFrame struct {
	Assumptions chassis.Assumptions
}

func NewRigidFrame(a chassis.Assumptions) *RigidFrame {
	return &RigidFrame{Assumptions: a}
}

func (m *RigidFrame) Name() string { return RigidFrameName }

func (m *RigidFrame) Distribute(v chassis.Vehicle) (Distribution, error) {
	if err := v.Validate(); err != nil {
		return Distribution{}, err
	}
	if !m.Assumptions.RigidFrame || !m.Assumptions.LinearSuspension {
		return Distribution{}, chassis.Invalid(chassis.ConstraintAssumption, 0, "rigid-frame model requires a rigid frame on linear springs")
	}
	k, err := m.Assumptions.StiffnessWeights()
	if err != nil {
		return Distribution{}, err
	}

	d := v.Layout.Offsets(v.CG)
	var sk, skd, skdd float64
	for i, off := range d {
		sk += k[i]
		skd += k[i] * off
		skdd += k[i] * off * off
	}

	a := mat.NewDense(2, 2, []float64{sk, skd, skd, skdd})
	b := mat.NewVecDense(2, []float64{v.Weight, 0})
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Distribution{}, chassis.Invalid(chassis.ConstraintLayout, v.CG, fmt.Sprintf("deflection system singular: %v", err))
	}

	out := Distribution{
		Model:  RigidFrameName,
		CG:     v.CG,
		Weight: v.Weight,
		Layout: v.Layout,
	}
	for i, off := range d {
		f := k[i] * (x.AtVec(0) + x.AtVec(1)*off)
		if f < -chassis.DefaultTolerance*v.Weight {
			return Distribution{}, chassis.Invalid(chassis.ConstraintCGOutside, v.CG,
				fmt.Sprintf("axle %d would lift off (load %.1f N)", i+1, f))
		}
		out.Axles[i] = f
	}
	return out, nil
}
