package loadshare

import (
	"fmt"
	"math"

	"github.com/san-kum/rigload/internal/chassis"
)

const InverseDistanceName = "refined"

// InverseDistance loads each axle in inverse proportion to its distance from
// the CG. A small rotation of the rigid frame about the CG deflects axle i by
// an amount proportional to |d_i|; with spring rate k_i the load picked up by
// that axle goes as k_i/|d_i|, so under uniform stiffness k cancels.
//
// Axles ahead of and behind the CG form two groups. Inside a group the loads
// follow w_i = k_i/|d_i|. Each axle then contributes F_i*|d_i| = G*k_i/W_g to
// its group's moment, which makes the group totals
//
//	G_f = W * (W_f/K_f) / H,  G_r = W * (W_r/K_r) / H,  H = W_f/K_f + W_r/K_r
//
// with W_g = sum(w_i) and K_g = sum(k_i) over the group. Both totals sum to W
// and the two group moments cancel, so F_i = W*w_i / (K_g*H) in closed form.
type InverseDistance struct {
	Assumptions chassis.Assumptions
}

func NewInverseDistance(a chassis.Assumptions) *InverseDistance {
	return &InverseDistance{Assumptions: a}
}

func (m *InverseDistance) Name() string { return InverseDistanceName }

func (m *InverseDistance) Distribute(v chassis.Vehicle) (Distribution, error) {
	if err := v.Validate(); err != nil {
		return Distribution{}, err
	}
	if !m.Assumptions.RigidFrame {
		return Distribution{}, chassis.Invalid(chassis.ConstraintAssumption, 0, "inverse-distance model requires a rigid frame")
	}
	if !m.Assumptions.LinearSuspension {
		return Distribution{}, chassis.Invalid(chassis.ConstraintAssumption, 0, "inverse-distance model requires linear suspension")
	}
	k, err := m.Assumptions.StiffnessWeights()
	if err != nil {
		return Distribution{}, err
	}

	axles, err := InverseDistanceLoads(v.Weight, v.Layout.Offsets(v.CG), k)
	if err != nil {
		if chassis.Violated(err, chassis.ConstraintCGOutside) {
			return Distribution{}, chassis.Invalid(chassis.ConstraintCGOutside, v.CG,
				fmt.Sprintf("cg must lie between axle 1 (%.4f) and axle 4 (%.4f)", v.Layout.Positions[0], v.Layout.Positions[chassis.NumAxles-1]))
		}
		return Distribution{}, err
	}
	return Distribution{
		Model:  InverseDistanceName,
		CG:     v.CG,
		Weight: v.Weight,
		Layout: v.Layout,
		Axles:  axles,
	}, nil
}

// InverseDistanceLoads splits weight over axles at signed offsets d from the
// CG with spring rates k. At least one offset must be negative and one
// positive, and none may be zero.
func InverseDistanceLoads(weight float64, d, k [chassis.NumAxles]float64) ([chassis.NumAxles]float64, error) {
	var w, loads [chassis.NumAxles]float64
	var wFore, wAft, kFore, kAft float64
	for i, off := range d {
		if math.Abs(off) < chassis.CoincidenceEpsilon {
			return loads, chassis.Invalid(chassis.ConstraintAxleAtCG, off, fmt.Sprintf("axle %d", i+1))
		}
		w[i] = k[i] / math.Abs(off)
		if off < 0 {
			wFore += w[i]
			kFore += k[i]
		} else {
			wAft += w[i]
			kAft += k[i]
		}
	}
	if kFore == 0 || kAft == 0 {
		return loads, chassis.Invalid(chassis.ConstraintCGOutside, 0, "all axles on one side of the cg")
	}

	h := wFore/kFore + wAft/kAft
	for i, off := range d {
		kg := kAft
		if off < 0 {
			kg = kFore
		}
		loads[i] = weight * w[i] / (kg * h)
	}
	return loads, nil
}
