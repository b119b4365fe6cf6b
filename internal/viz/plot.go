package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/dynamics"
	"github.com/san-kum/rigload/internal/loadshare"
)

const (
	plotHeight = 12
	plotWidth  = 80
)

// gearColors cycles across gears; resistance is always drawn in white.
var gearColors = []asciigraph.AnsiColor{
	asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Blue,
	asciigraph.Magenta, asciigraph.Cyan, asciigraph.Goldenrod, asciigraph.Orange,
}

// PlotPairs charts front and rear pair loads (kN) across a sweep.
func PlotPairs(points []loadshare.Distribution) string {
	if len(points) < 2 {
		return ""
	}
	front := make([]float64, len(points))
	rear := make([]float64, len(points))
	for i, p := range points {
		front[i] = chassis.KN(p.Front())
		rear[i] = chassis.KN(p.Rear())
	}
	return asciigraph.PlotMany([][]float64{front, rear},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Goldenrod),
		asciigraph.Caption(fmt.Sprintf("%s: front (cyan) / rear (gold) kN, cg %.2f..%.2f m",
			points[0].Model, points[0].CG, points[len(points)-1].CG)),
	)
}

// PlotAxle charts a single axle's load (kN) across a sweep.
func PlotAxle(points []loadshare.Distribution, axle int) string {
	if len(points) < 2 || axle < 0 || axle >= chassis.NumAxles {
		return ""
	}
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = chassis.KN(p.Axles[axle])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight/2),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("axle %d (kN)", axle+1)),
	)
}

// PlotTraction charts wheel force (kN) against the curve samples of one gear.
func PlotTraction(curve []dynamics.CurvePoint, gear string) string {
	if len(curve) < 2 {
		return ""
	}
	force := make([]float64, len(curve))
	for i, p := range curve {
		force[i] = chassis.KN(p.Force)
	}
	return asciigraph.Plot(force,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("gear %s: tractive force (kN), %.1f..%.1f km/h",
			gear, chassis.MsToKmh(curve[0].Speed), chassis.MsToKmh(curve[len(curve)-1].Speed))),
	)
}

// PlotPower charts tractive and resistance power (kW) for one gear.
func PlotPower(points []dynamics.PowerPoint, gear string) string {
	if len(points) < 2 {
		return ""
	}
	tractive := make([]float64, len(points))
	resistance := make([]float64, len(points))
	for i, p := range points {
		tractive[i] = p.Tractive
		resistance[i] = p.Resistance
	}
	return asciigraph.PlotMany([][]float64{tractive, resistance},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("gear %s: tractive (green) / resistance (red) kW", gear)),
	)
}

// PlotBalance overlays every gear's tractive force on the road load (kN).
// Gaps mark speeds a gear cannot reach.
func PlotBalance(d dynamics.BalanceDiagram) string {
	if len(d.Speeds) < 2 {
		return ""
	}
	series := [][]float64{scaled(d.Resistance, chassis.KN)}
	colors := []asciigraph.AnsiColor{asciigraph.White}
	for i, g := range d.Gears {
		series = append(series, scaled(g.Tractive, chassis.KN))
		colors = append(colors, gearColors[i%len(gearColors)])
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight*2),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("tractive force per gear vs resistance (white), kN, 0..%.1f km/h on %.1f%%",
			chassis.MsToKmh(d.Speeds[len(d.Speeds)-1]), chassis.GradePercent(d.Grade))),
	)
}

// PlotAcceleration draws each gear's acceleration (m/s^2) over the same grid.
func PlotAcceleration(d dynamics.BalanceDiagram) string {
	if len(d.Speeds) < 2 || len(d.Gears) == 0 {
		return ""
	}
	var series [][]float64
	var colors []asciigraph.AnsiColor
	for i, g := range d.Gears {
		series = append(series, g.Acceleration)
		colors = append(colors, gearColors[i%len(gearColors)])
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("acceleration per gear (m/s^2), 0..%.1f km/h",
			chassis.MsToKmh(d.Speeds[len(d.Speeds)-1]))),
	)
}

func scaled(values []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = fn(v)
	}
	return out
}
