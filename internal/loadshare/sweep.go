package loadshare

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/rigload/internal/chassis"
)

// MaxSweepPoints caps the number of CG positions a single sweep evaluates.
const MaxSweepPoints = 100000

var ErrInvalidRange = errors.New("loadshare: invalid sweep range")

// SweepRange is an inclusive range of CG positions (m).
type SweepRange struct {
	From float64 `yaml:"from_m" json:"from_m"`
	To   float64 `yaml:"to_m" json:"to_m"`
	Step float64 `yaml:"step_m" json:"step_m"`
}

func (r SweepRange) Validate() error {
	for _, v := range []float64{r.From, r.To, r.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound %g", ErrInvalidRange, v)
		}
	}
	if r.Step <= 0 {
		return fmt.Errorf("%w: step %g", ErrInvalidRange, r.Step)
	}
	if r.From > r.To {
		return fmt.Errorf("%w: from %g beyond to %g", ErrInvalidRange, r.From, r.To)
	}
	// ratio stays a float until it is known to fit
	if n := r.span() + 1; n > MaxSweepPoints {
		return fmt.Errorf("%w: %.0f points exceeds %d", ErrInvalidRange, n, MaxSweepPoints)
	}
	return nil
}

func (r SweepRange) span() float64 {
	return math.Floor((r.To-r.From)/r.Step + 1e-9)
}

func (r SweepRange) count() int {
	return int(r.span()) + 1
}

// Positions lists From + i*Step for every point in the range. It returns
// nil for a range that fails Validate.
func (r SweepRange) Positions() []float64 {
	if r.Validate() != nil {
		return nil
	}
	n := r.count()
	out := make([]float64, n)
	for i := range out {
		out[i] = r.From + float64(i)*r.Step
	}
	return out
}

// SkippedPoint is a CG position the model rejected.
type SkippedPoint struct {
	CG  float64
	Err error
}

type SweepResult struct {
	Model   string
	Points  []Distribution
	Skipped []SkippedPoint
}

// Sweep evaluates m at every CG position in r. Positions the model rejects
// (CG on an axle, CG outside the pairs) are collected in Skipped. Long
// ranges are split across workers; the result keeps range order.
func Sweep(m Model, v chassis.Vehicle, r SweepRange) (*SweepResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	positions := r.Positions()
	dists := make([]Distribution, len(positions))
	errs := make([]error, len(positions))
	parallelFor(len(positions), minSweepChunk, func(start, end int) {
		for i := start; i < end; i++ {
			dists[i], errs[i] = m.Distribute(v.WithCG(positions[i]))
		}
	})

	res := &SweepResult{Model: m.Name(), Points: make([]Distribution, 0, len(positions))}
	for i, cg := range positions {
		if err := errs[i]; err != nil {
			if !errors.Is(err, chassis.ErrInvalidConfiguration) {
				return nil, err
			}
			log.Debugf("[loadshare] %s skipped cg=%.4f: %v", m.Name(), cg, err)
			res.Skipped = append(res.Skipped, SkippedPoint{CG: cg, Err: err})
			continue
		}
		res.Points = append(res.Points, dists[i])
	}
	return res, nil
}

// SpecialPoints are the notable positions of a sweep.
type SpecialPoints struct {
	Balance  Distribution // front and rear totals closest
	MaxFront Distribution
	MaxRear  Distribution
}

// FindSpecialPoints reports false when points is empty.
func FindSpecialPoints(points []Distribution) (SpecialPoints, bool) {
	if len(points) == 0 {
		return SpecialPoints{}, false
	}
	sp := SpecialPoints{Balance: points[0], MaxFront: points[0], MaxRear: points[0]}
	minDiff := math.Abs(points[0].Front() - points[0].Rear())
	for _, p := range points[1:] {
		if diff := math.Abs(p.Front() - p.Rear()); diff < minDiff {
			minDiff = diff
			sp.Balance = p
		}
		if p.Front() > sp.MaxFront.Front() {
			sp.MaxFront = p
		}
		if p.Rear() > sp.MaxRear.Rear() {
			sp.MaxRear = p
		}
	}
	return sp, true
}
