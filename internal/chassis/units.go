package chassis

import "math"

const (
	// Gravity converts kilograms to newtons.
	Gravity = 9.81

	// DefaultTolerance bounds the relative error of the force and moment sums.
	DefaultTolerance = 1e-6

	// CoincidenceEpsilon is the distance (m) below which an axle counts as
	// sitting on the center of gravity.
	CoincidenceEpsilon = 1e-9
)

func MassToWeight(kg float64) float64 { return kg * Gravity }

func WeightToMass(n float64) float64 { return n / Gravity }

// KN converts newtons to kilonewtons.
func KN(n float64) float64 { return n / 1000 }

// FromKN converts kilonewtons to newtons.
func FromKN(kn float64) float64 { return kn * 1000 }

func KmhToMs(kmh float64) float64 { return kmh / 3.6 }

func MsToKmh(ms float64) float64 { return ms * 3.6 }

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// GradePercent expresses a road angle as rise over run in percent.
func GradePercent(angle float64) float64 { return math.Tan(angle) * 100 }

// AngleFromPercent is the inverse of GradePercent.
func AngleFromPercent(pct float64) float64 { return math.Atan(pct / 100) }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
