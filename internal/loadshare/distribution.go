package loadshare

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rigload/internal/chassis"
)

// ErrImbalance means a distribution breaks force or moment equilibrium.
var ErrImbalance = errors.New("loadshare: distribution out of equilibrium")

// Model maps a vehicle to per-axle loads.
type Model interface {
	Name() string
	Distribute(v chassis.Vehicle) (Distribution, error)
}

// Distribution is the vertical load (N) on each axle for one CG position.
type Distribution struct {
	Model  string                    `json:"model"`
	CG     float64                   `json:"cg_m"`
	Weight float64                   `json:"weight_n"`
	Layout chassis.AxleLayout        `json:"-"`
	Axles  [chassis.NumAxles]float64 `json:"axles_n"`
}

// Front is the combined load on axles 1 and 2.
func (d Distribution) Front() float64 { return d.Axles[0] + d.Axles[1] }

// Rear is the combined load on axles 3 and 4.
func (d Distribution) Rear() float64 { return d.Axles[2] + d.Axles[3] }

func (d Distribution) Sum() float64 { return d.Front() + d.Rear() }

func (d Distribution) FrontShare() float64 { return d.Front() / d.Weight }

func (d Distribution) RearShare() float64 { return d.Rear() / d.Weight }

// Moment is sum(F_i * (x_i - cg)); zero in equilibrium.
func (d Distribution) Moment() float64 {
	m := 0.0
	for i, off := range d.Layout.Offsets(d.CG) {
		m += d.Axles[i] * off
	}
	return m
}

// Check verifies that the loads are non-negative, sum to the vehicle weight
// and balance about the CG, all to relative tolerance tol.
func Check(d Distribution, tol float64) error {
	if tol <= 0 {
		tol = chassis.DefaultTolerance
	}
	for i, f := range d.Axles {
		if f < -tol*d.Weight || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: axle %d load %g", ErrImbalance, i+1, f)
		}
	}
	if diff := math.Abs(d.Sum() - d.Weight); diff > tol*d.Weight {
		return fmt.Errorf("%w: force sum %g differs from weight %g", ErrImbalance, d.Sum(), d.Weight)
	}
	ref := d.Weight * d.Layout.Wheelbase()
	if m := d.Moment(); math.Abs(m) > tol*ref {
		return fmt.Errorf("%w: moment about cg %g", ErrImbalance, m)
	}
	return nil
}
