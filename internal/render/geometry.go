package render

import (
	"math"
	"strconv"
	"strings"
)

// Gauge geometry on a 220x160 view box: pills hang off a 62px inner radius
// along a 200..340 degree arc centred at (110, 130).
const (
	gaugeSegments = 12
	gaugeCX       = 110.0
	gaugeCY       = 130.0
	gaugeSegW     = 20.0
	gaugeSegLen   = 56.0
	gaugeRInner   = 62.0
	gaugeArcStart = 200.0
	gaugeArcEnd   = 340.0

	colorAccent = "#F05914"
	colorEmpty  = "#EEEEEE"
	colorTrack  = "#E5E7EB"
)

var donutPalette = []string{"#F05914", "#111827", "#6B7280", "#D4D4D8", "#FDBA74", "#374151", "#A1A1AA"} //nolint:gochecknoglobals // fixed palette

// f2 prints an SVG coordinate with two decimals.
func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func f3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

// Pill is one gauge segment.
type Pill struct {
	Transform string
	X         string
	W         string
	H         string
	R         string
	Fill      string
}

// GaugePills lays out segments pills for a 0..100 percent; the first
// round(percent/100*segments) pills are filled.
func GaugePills(percent float64, segments int) []Pill {
	if segments <= 0 {
		segments = gaugeSegments
	}
	percent = max(0, min(100, percent))
	filled := int(math.RoundToEven(percent / 100 * float64(segments)))
	step := (gaugeArcEnd - gaugeArcStart) / float64(segments)

	out := make([]Pill, segments)
	for i := range out {
		ang := gaugeArcStart + (float64(i)+0.5)*step
		rad := ang * math.Pi / 180
		x := gaugeCX + gaugeRInner*math.Cos(rad)
		y := gaugeCY + gaugeRInner*math.Sin(rad)
		fill := colorEmpty
		if i < filled {
			fill = colorAccent
		}
		out[i] = Pill{
			Transform: "translate(" + f2(x) + " " + f2(y) + ") rotate(" + f2(ang-90) + ")",
			X:         f2(-gaugeSegW / 2),
			W:         f2(gaugeSegW),
			H:         f2(gaugeSegLen),
			R:         f2(gaugeSegW / 2),
			Fill:      fill,
		}
	}
	return out
}

// Ring is one donut segment drawn with a dash pattern.
type Ring struct {
	Color     string
	DashArray string
	Offset    string
}

// Donut is a full ring split by percent.
type Donut struct {
	Size   int
	Center string
	Radius string
	Stroke int
	Track  string
	Rings  []Ring
}

// DonutRings splits a circle of the given size by each percent, in order.
func DonutRings(percents []float64, size, stroke int) Donut {
	r := float64(size-stroke) / 2
	c := 2 * math.Pi * r
	d := Donut{
		Size:   size,
		Center: f2(float64(size) / 2),
		Radius: f2(r),
		Stroke: stroke,
		Track:  colorTrack,
	}
	start := 0.0
	for i, p := range percents {
		length := c * max(0, p) / 100
		offset := 0.0
		if start > 0 {
			offset = -start
		}
		d.Rings = append(d.Rings, Ring{
			Color:     donutPalette[i%len(donutPalette)],
			DashArray: f3(length) + " " + f3(c-length),
			Offset:    f3(offset),
		})
		start += length
	}
	return d
}

// Spark is an area (signed) plus line (paid) chart on a 100x40 view box.
type Spark struct {
	Area     string
	Line     string
	LastX    string
	LastY    string
	Baseline string
	Top      string
}

const (
	sparkW    = 100.0
	sparkH    = 40.0
	sparkPadT = 4.0
	sparkPadB = 6.0
)

// Sparkline builds the chart. It returns nil unless both series have at
// least two points; longer series are cut to the shorter length.
func Sparkline(area, line []float64) *Spark {
	n := min(len(area), len(line))
	if n < 2 {
		return nil
	}
	area, line = area[:n], line[:n]

	top := 0.0
	for i := range n {
		top = max(top, area[i], line[i])
	}
	if top <= 0 {
		top = 1
	}
	plotH := sparkH - sparkPadT - sparkPadB
	xy := func(i int, v float64) (float64, float64) {
		return float64(i) / float64(n-1) * sparkW, sparkPadT + (1-v/top)*plotH
	}

	var a, l strings.Builder
	a.WriteString("M ")
	for i := range n {
		x, y := xy(i, area[i])
		if i > 0 {
			a.WriteString(" L ")
		}
		a.WriteString(f2(x) + " " + f2(y))
	}
	a.WriteString(" L " + f2(sparkW) + " " + f2(sparkH-sparkPadB) + " L 0.00 " + f2(sparkH-sparkPadB) + " Z")

	var lx, ly float64
	for i := range n {
		lx, ly = xy(i, line[i])
		if i > 0 {
			l.WriteByte(' ')
		}
		l.WriteString(f2(lx) + "," + f2(ly))
	}

	return &Spark{
		Area:     a.String(),
		Line:     l.String(),
		LastX:    f2(lx),
		LastY:    f2(ly),
		Baseline: f2(sparkH - sparkPadB),
		Top:      f2(sparkPadT),
	}
}
