package loadshare

import (
	"fmt"
	"math"

	"github.com/san-kum/rigload/internal/chassis"
)

const PairedName = "paired"

// Paired reduces the chassis to an equivalent two-axle vehicle: axles 1-2
// share the front load equally, axles 3-4 the rear load. A single moment
// balance about the CG fixes the split between the pairs.
type Paired struct {
	Assumptions chassis.Assumptions
}

func NewPaired(a chassis.Assumptions) *Paired {
	return &Paired{Assumptions: a}
}

func (p *Paired) Name() string { return PairedName }

func (p *Paired) Distribute(v chassis.Vehicle) (Distribution, error) {
	if err := v.Validate(); err != nil {
		return Distribution{}, err
	}
	if !p.Assumptions.EqualPairSharing {
		return Distribution{}, chassis.Invalid(chassis.ConstraintAssumption, 0, "paired model requires equal pair sharing")
	}

	xf := v.Layout.FrontCentroid()
	xr := v.Layout.RearCentroid()
	if v.CG < xf-chassis.CoincidenceEpsilon || v.CG > xr+chassis.CoincidenceEpsilon {
		return Distribution{}, chassis.Invalid(chassis.ConstraintCGOutside, v.CG,
			fmt.Sprintf("paired model needs %.4f <= cg <= %.4f", xf, xr))
	}

	front := v.Weight * (xr - v.CG) / (xr - xf)
	front = math.Min(math.Max(front, 0), v.Weight)
	rear := v.Weight - front

	return Distribution{
		Model:  PairedName,
		CG:     v.CG,
		Weight: v.Weight,
		Layout: v.Layout,
		Axles:  [chassis.NumAxles]float64{front / 2, front / 2, rear / 2, rear / 2},
	}, nil
}
