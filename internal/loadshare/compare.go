package loadshare

import (
	"errors"

	"github.com/san-kum/rigload/internal/chassis"
)

// CompareRow holds two models' loads at one CG position. Diffs are A - B and
// percentages are relative to B.
type CompareRow struct {
	CG           float64
	A, B         Distribution
	Diff         [chassis.NumAxles]float64
	DiffPct      [chassis.NumAxles]float64
	FrontDiff    float64
	RearDiff     float64
	FrontDiffPct float64
	RearDiffPct  float64
}

// Compare evaluates both models at each position. Positions either model
// rejects are returned as skipped.
func Compare(a, b Model, v chassis.Vehicle, positions []float64) ([]CompareRow, []SkippedPoint, error) {
	rows := make([]CompareRow, 0, len(positions))
	var skipped []SkippedPoint
	for _, cg := range positions {
		at := v.WithCG(cg)
		da, err := a.Distribute(at)
		if err == nil {
			var db Distribution
			db, err = b.Distribute(at)
			if err == nil {
				rows = append(rows, compareRow(da, db))
				continue
			}
		}
		if !errors.Is(err, chassis.ErrInvalidConfiguration) {
			return nil, nil, err
		}
		skipped = append(skipped, SkippedPoint{CG: cg, Err: err})
	}
	return rows, skipped, nil
}

func compareRow(a, b Distribution) CompareRow {
	row := CompareRow{CG: a.CG, A: a, B: b}
	for i := range a.Axles {
		row.Diff[i] = a.Axles[i] - b.Axles[i]
		row.DiffPct[i] = percent(row.Diff[i], b.Axles[i])
	}
	row.FrontDiff = a.Front() - b.Front()
	row.RearDiff = a.Rear() - b.Rear()
	row.FrontDiffPct = percent(row.FrontDiff, b.Front())
	row.RearDiffPct = percent(row.RearDiff, b.Rear())
	return row
}

func percent(diff, ref float64) float64 {
	if ref == 0 {
		return 0
	}
	return diff / ref * 100
}
