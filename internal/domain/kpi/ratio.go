package kpi

import "github.com/okian/painel/internal/domain/types"

// DefaultRatioCeiling is the largest value still read as a 0..1 ratio.
// Values in (1, ceiling] are ambiguous: 1.2 may be a stray ratio or 1.2%.
const DefaultRatioCeiling = 1.5

// Policy decides whether a rate cell holds a ratio or a percent.
type Policy struct {
	RatioCeiling float64
}

// DefaultPolicy reads 0..1.5 as a ratio.
func DefaultPolicy() Policy { return Policy{RatioCeiling: DefaultRatioCeiling} }

func (p Policy) ceiling() float64 {
	if p.RatioCeiling <= 0 {
		return DefaultRatioCeiling
	}
	return p.RatioCeiling
}

// IsRatio reports whether v is read as a ratio.
func (p Policy) IsRatio(v float64) bool {
	return v >= 0 && v <= p.ceiling()
}

// RatioToPercent normalizes a rate to a percent in [0, 100]. None is 0.
func (p Policy) RatioToPercent(n types.Num) float64 {
	v, ok := n.Get()
	if !ok {
		return 0
	}
	if p.IsRatio(v) {
		v *= 100
	}
	return clamp(v, 0, 100)
}

// AsRatio normalizes a rate to a ratio without clamping, so 120% stays 1.2.
func (p Policy) AsRatio(n types.Num) types.Num {
	v, ok := n.Get()
	if !ok {
		return n
	}
	if p.IsRatio(v) {
		return n
	}
	return types.Some(v / 100)
}

// RatioToPercent applies the default policy.
func RatioToPercent(n types.Num) float64 { return DefaultPolicy().RatioToPercent(n) }

// PercentOfRatio is clamp(r*100, 0, 100); None is 0.
func PercentOfRatio(r types.Num) float64 {
	v, ok := r.Get()
	if !ok {
		return 0
	}
	return clamp(v*100, 0, 100)
}

// Ratio divides num by den. A missing or zero denominator is None; a missing
// numerator is None.
func Ratio(num, den types.Num) types.Num {
	d, ok := den.Get()
	if !ok || d == 0 {
		return types.None()
	}
	n, ok := num.Get()
	if !ok {
		return types.None()
	}
	return types.Some(n / d)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
