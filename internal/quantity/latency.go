package quantity

import "math"

const weightSumTolerance = 1e-4

// Latency is a (min, avg, max) triple in nanoseconds. Arithmetic always
// re-establishes min <= avg <= max.
type Latency struct {
	MinNS float64
	AvgNS float64
	MaxNS float64
}

// Infinite is used where no remaining weight can absorb a deduced latency.
var Infinite = Latency{MinNS: math.Inf(1), AvgNS: math.Inf(1), MaxNS: math.Inf(1)}

// NewLatency constructs a Latency, repairing ordering if necessary.
func NewLatency(minNS, avgNS, maxNS float64) Latency {
	l := Latency{MinNS: minNS, AvgNS: avgNS, MaxNS: maxNS}
	return l.repair()
}

// Flat constructs a Latency with min == avg == max.
func Flat(ns float64) Latency {
	return Latency{MinNS: ns, AvgNS: ns, MaxNS: ns}
}

func (l Latency) repair() Latency {
	if l.MinNS > l.AvgNS {
		l.MinNS = l.AvgNS
	}
	if l.MaxNS < l.AvgNS {
		l.MaxNS = l.AvgNS
	}
	return l
}

// Add returns l + other component-wise.
func (l Latency) Add(other Latency) Latency {
	return Latency{
		MinNS: l.MinNS + other.MinNS,
		AvgNS: l.AvgNS + other.AvgNS,
		MaxNS: l.MaxNS + other.MaxNS,
	}
}

// Sub returns l - other component-wise, saturating each component at zero.
func (l Latency) Sub(other Latency) Latency {
	sub := func(a, b float64) float64 {
		d := a - b
		if d < 0 {
			d = 0
		}
		return d
	}
	return Latency{
		MinNS: sub(l.MinNS, other.MinNS),
		AvgNS: sub(l.AvgNS, other.AvgNS),
		MaxNS: sub(l.MaxNS, other.MaxNS),
	}.repair()
}

// WeightedLatency is one (weight, latency) term in a combine/deduce call.
type WeightedLatency struct {
	Weight  float64
	Latency Latency
}

// Combine returns the weighted average of the avg components; min is the
// minimum of the weighted-nonzero inputs' min, max is the maximum of their
// max. Weights must sum to ~1 within weightSumTolerance.
func Combine(terms ...WeightedLatency) Latency {
	var total float64
	for _, t := range terms {
		total += t.Weight
	}
	if len(terms) > 0 && math.Abs(total-1) > weightSumTolerance {
		panic("quantity: Latency.Combine weights do not sum to 1")
	}

	var avg float64
	min, max := math.Inf(1), math.Inf(-1)
	any := false
	for _, t := range terms {
		avg += t.Weight * t.Latency.AvgNS
		if t.Weight == 0 {
			continue
		}
		any = true
		if t.Latency.MinNS < min {
			min = t.Latency.MinNS
		}
		if t.Latency.MaxNS > max {
			max = t.Latency.MaxNS
		}
	}
	if !any {
		return Latency{}
	}
	return NewLatency(min, avg, max)
}

// Deduce returns the latency value that the remaining weight must
// contribute so that Combine(partials..., {remainingWeight, result}) would
// equal target. Returns Infinite when remainingWeight is (near) zero.
func Deduce(target Latency, remainingWeight float64, partials ...WeightedLatency) Latency {
	if remainingWeight <= 1e-9 {
		return Infinite
	}
	var committedWeight, committedAvg float64
	for _, p := range partials {
		committedWeight += p.Weight
		committedAvg += p.Weight * p.Latency.AvgNS
	}
	remainingAvg := (target.AvgNS - committedAvg) / remainingWeight
	if remainingAvg < 0 {
		remainingAvg = 0
	}
	return Flat(remainingAvg)
}

// GetRatio returns the weight w on lower such that
// (w*lower + (1-w)*higher).avg == target.avg, saturated to [0,1]. Requires
// lower.avg <= target.avg <= higher.avg for a meaningful interpolation but
// always returns a value clamped into range.
func GetRatio(target, lower, higher Latency) float64 {
	span := higher.AvgNS - lower.AvgNS
	if span == 0 {
		return 1
	}
	w := (higher.AvgNS - target.AvgNS) / span
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	return w
}
