package vectors

import "math"

// Interval is the real range [Min, Max]. An interval with Min > Max is empty.
type Interval struct {
	Min, Max float64
}

var (
	Empty    = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	Universe = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// Contains reports whether Min <= x <= Max.
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds reports whether Min < x < Max.
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// Clamp clips x into [Min, Max].
func (i Interval) Clamp(x float64) float64 {
	if x < i.Min {
		return i.Min
	}
	if x > i.Max {
		return i.Max
	}
	return x
}

// Expand pads the interval by delta/2 on each side.
func (i Interval) Expand(delta float64) Interval {
	pad := delta / 2
	return Interval{Min: i.Min - pad, Max: i.Max + pad}
}
