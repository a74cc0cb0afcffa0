package quantity

import "math"

// Durability is a probability in [0,1] of not losing data over a year.
// Higher is better.
type Durability struct {
	Probability float64
}

// FromNines constructs a Durability from a count of leading nines, e.g.
// FromNines(3) == 0.999.
func FromNines(n int) Durability {
	result := 0.0
	delta := 0.9
	for i := 0; i < n; i++ {
		result += delta
		delta *= 0.1
	}
	return Durability{Probability: result}
}

// FromProbability wraps a raw probability directly.
func FromProbability(p float64) Durability {
	if p > 1 {
		p = 1
	}
	return Durability{Probability: p}
}

// CalculateFromMTTR derives a one-year Durability from a Poisson model of
// node failures: numNodes nodes each with the given monthly availability,
// surviving as long as fewer than (numNodes - minNodesForDurability + 1)
// fail within one MTTR-length repair window.
func CalculateFromMTTR(numNodes int, nodeAvailabilityPerMonth float64, mttrSeconds float64, minNodesForDurability int) Durability {
	const secondsInYear = 3600 * 24 * 365
	const secondsInMonth = 3600 * 24 * 30

	afr := 1.0 - nodeAvailabilityPerMonth
	lambda := (float64(numNodes) * afr * mttrSeconds) / secondsInMonth

	result := 0.0
	maxFailures := numNodes - minNodesForDurability
	for i := 0; i <= maxFailures; i++ {
		fact := math.Gamma(float64(i) + 1)
		v := (math.Exp(-lambda) * math.Pow(lambda, float64(i))) / fact
		result += v
	}
	if result > 1.0 {
		result = 1.0
	}

	intervalsPerYear := secondsInYear / mttrSeconds
	d := math.Pow(result, intervalsPerYear)
	return FromProbability(d)
}

// GreaterOrEqual reports whether d is at least as durable as other.
func (d Durability) GreaterOrEqual(other Durability) bool {
	return d.Probability >= other.Probability
}

// FailoverTime is seconds from primary loss to the replacement serving
// reads at warm-cache throughput. Ordering is reversed: smaller is better.
type FailoverTime struct {
	Seconds float64
}

// Add returns the sum of two failover contributions.
func (f FailoverTime) Add(other FailoverTime) FailoverTime {
	return FailoverTime{Seconds: f.Seconds + other.Seconds}
}

// Less reports whether f is a BETTER (smaller) failover time than other.
func (f FailoverTime) Less(other FailoverTime) bool {
	return f.Seconds < other.Seconds
}
