package orient

import (
	"math"
	"strings"
)

// Granularity is the angular step a rotatable object supports.
type Granularity uint8

const (
	GranularityNone Granularity = iota
	Granularity22_5
	Granularity22_5Not45
	Granularity45
	Granularity90
)

// AngleEpsilon absorbs floating point error in angle membership tests.
const AngleEpsilon = 0.01

var granularityNames = map[Granularity]string{
	GranularityNone:      "none",
	Granularity22_5:      "22.5deg",
	Granularity22_5Not45: "22.5degnot45deg",
	Granularity45:        "45deg",
	Granularity90:        "90deg",
}

func (g Granularity) String() string {
	if s, ok := granularityNames[g]; ok {
		return s
	}
	return "none"
}

// ParseGranularity parses a metadata value such as "90deg".
// Unknown or empty values yield GranularityNone.
func ParseGranularity(s string) Granularity {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range granularityNames {
		if s == name {
			return g
		}
	}
	return GranularityNone
}

var angleTables = map[Granularity][]float64{
	GranularityNone: nil,
	Granularity90:   stepAngles(90, nil),
	Granularity45:   stepAngles(45, nil),
	Granularity22_5: stepAngles(22.5, nil),
	// Odd multiples of 45° are dropped; multiples of 90° stay.
	Granularity22_5Not45: stepAngles(22.5, []float64{45, 135, 225, 315}),
}

func stepAngles(step float64, exclude []float64) []float64 {
	var out []float64
	for i := 0; float64(i)*step < 360; i++ {
		a := float64(i) * step
		skip := false
		for _, e := range exclude {
			if angleEqual(a, e) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, a)
		}
	}
	return out
}

// Angles returns the sorted valid angles, in degrees, for g.
// The returned slice is a copy.
func Angles(g Granularity) []float64 {
	src := angleTables[g]
	if len(src) == 0 {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// IsValidAngle reports whether angle (any real value, wrapped into [0,360))
// is a member of g's table within AngleEpsilon.
func IsValidAngle(g Granularity, angle float64) bool {
	a := NormalizeAngle(angle)
	for _, v := range angleTables[g] {
		if angleEqual(a, v) {
			return true
		}
	}
	return false
}

// NormalizeAngle wraps angle into [0,360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// AngleDistance returns the unsigned distance between a and b on the
// circle, in [0, 180].
func AngleDistance(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	return math.Min(d, 360-d)
}

// angleEqual compares on the circle, so 359.995 matches 0.
func angleEqual(a, b float64) bool {
	return AngleDistance(a, b) <= AngleEpsilon
}
