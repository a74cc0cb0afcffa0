// Package resource defines the resource descriptors an architecture
// reserves against: CPU, Memory, Network, InstanceStorage,
// MachineEBSLimits, RemoteBlockDevice, S3, and the Node that aggregates
// them. All types here are value types, freely copied.
package resource

import "github.com/guimove/clusterfit/internal/quantity"

// CPU describes a node's compute capacity: a cycle count per second split
// across Count identical cores running at SpeedHz.
type CPU struct {
	Count   uint64
	SpeedHz float64
	Vendor  string
}

// GetOps returns the achievable rate of operations costing cyclesPerOp
// CPU cycles each.
func (c CPU) GetOps(cyclesPerOp uint64) quantity.Rate {
	if cyclesPerOp == 0 {
		return quantity.Unlimited
	}
	return quantity.Secondly(float64(c.Count) * c.SpeedHz / float64(cyclesPerOp))
}
