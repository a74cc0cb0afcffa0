// Package scale provides the small numeric helpers the Ec2-backed service
// sizing formulas share: taking the binding (largest) of several resource
// scale factors, and nudging just past it to avoid a floating-point tie
// landing exactly on a feasibility boundary.
package scale

import "math"

// Max returns the largest of vs.
func Max(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// MaxAfter returns the float64 immediately above Max(vs...). Every
// Ec2-backed sizing formula is "the node fraction needed to satisfy the
// most demanding of several scale factors"; nudging past the max rather
// than using it exactly avoids a scale factor landing precisely on 1.0
// being accepted or rejected by rounding direction alone.
func MaxAfter(vs ...float64) float64 {
	return math.Nextafter(Max(vs...), math.Inf(1))
}
