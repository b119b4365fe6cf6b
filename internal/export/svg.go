package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/loadshare"
)

// AxleColors is the stroke color per axle, front to rear.
var AxleColors = [chassis.NumAxles]string{"#00d7ff", "#00ff87", "#ffaf00", "#ff5f87"}

type Series struct {
	Name  string
	Color string
	X, Y  []float64
}

// LinesToSVG draws every series on shared axes with a legend.
func LinesToSVG(series []Series, width, height int, title string) string {
	var pts int
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, s := range series {
		for i := range s.X {
			if pts == 0 {
				minX, maxX, minY, maxY = s.X[i], s.X[i], s.Y[i], s.Y[i]
			}
			pts++
			minX, maxX = min(minX, s.X[i]), max(maxX, s.X[i])
			minY, maxY = min(minY, s.Y[i]), max(maxY, s.Y[i])
		}
	}
	if pts < 2 {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if minY < 0 && maxY > 0 {
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444" stroke-dasharray="4 4"/>
`, py(0), width, py(0)))
	}
	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="18" fill="#ccc" font-family="monospace" font-size="14">%s</text>
`, escape(title)))
	}

	for n, s := range series {
		if len(s.X) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color))
		for i := range s.X {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(s.X[i]), py(s.Y[i])))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(s.X[i]), py(s.Y[i])))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, width-120, 20+16*n, s.Color, escape(s.Name)))
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// SweepSeries turns a sweep into one series per axle, loads in kN.
func SweepSeries(points []loadshare.Distribution) []Series {
	series := make([]Series, chassis.NumAxles)
	for i := range series {
		series[i] = Series{
			Name:  fmt.Sprintf("axle %d", i+1),
			Color: AxleColors[i],
			X:     make([]float64, len(points)),
			Y:     make([]float64, len(points)),
		}
	}
	for j, p := range points {
		for i := range series {
			series[i].X[j] = p.CG
			series[i].Y[j] = chassis.KN(p.Axles[i])
		}
	}
	return series
}

// SweepToSVG charts axle load (kN) against CG position.
func SweepToSVG(points []loadshare.Distribution, width, height int) string {
	title := "axle load vs cg"
	if len(points) > 0 {
		title = fmt.Sprintf("%s: axle load (kN) vs cg (m)", points[0].Model)
	}
	return LinesToSVG(SweepSeries(points), width, height, title)
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
