package resource

import (
	"strings"

	"github.com/guimove/clusterfit/internal/quantity"
)

// MachineEBSLimits caps the aggregate IOPS/throughput a single instance
// can drive across all of its attached remote block devices.
type MachineEBSLimits struct {
	BaseIOPS      quantity.Rate
	BurstIOPS     quantity.Rate
	BaseThroughput  float64
	BurstThroughput float64
}

// EBSAllotment tracks a single family's cumulative reservation against a
// Primary's MachineEBSLimits.
type EBSAllotment struct {
	Family     BlockDeviceFamily
	Size       uint64
	IOPS       quantity.Rate
	Bandwidth  uint64
	MaxIOPSize uint64
}

// Node-level fixed failover timing constants.
var (
	NodeSpinupTime      = quantity.FailoverTime{Seconds: 60}
	SecondaryTakeover   = quantity.FailoverTime{Seconds: 5}
	NodeAvailability    = quantity.FromProbability(0.995)
)

// Node bundles the hardware/pricing profile of one catalog entry.
// Immutable after construction; freely copied by value.
type Node struct {
	Name            string
	CPU             CPU
	Memory          Memory
	Network         Network
	Price           quantity.Price
	InstanceStorage InstanceStorage
	MachineEBS      MachineEBSLimits
}

// MaxEBSDevices returns the maximum number of EBS devices this node can
// attach, on top of its network and local-storage device counts.
//
// The source computes `name.find("metal") ? 31 : 28`. In C++,
// std::string::find returns the match index, or npos (a large, truthy
// value) when there is no match; only a match AT POSITION ZERO yields the
// falsy 0 — both "not found at all" and "found at any nonzero index" are
// truthy. So the only names that get
// the lower limit are ones where "metal" occurs as a literal prefix; an
// ordinary bare-metal name like "m5.metal" has "metal" at a nonzero
// index and gets 31, same as a non-metal name. Reproduced here as
// strings.HasPrefix rather than strings.Contains to match that exactly.
func (n Node) MaxEBSDevices() uint64 {
	base := uint64(31)
	if strings.HasPrefix(n.Name, "metal") {
		base = 28
	}
	if base < n.Network.Devices+uint64(n.InstanceStorage.Devices) {
		return 0
	}
	return base - n.Network.Devices - uint64(n.InstanceStorage.Devices)
}

// Availability returns the node's fixed monthly availability figure.
func (n Node) Availability() quantity.Durability { return NodeAvailability }

// InstanceType returns the instance-family prefix (text before the first
// '.') of the node's name, e.g. "m5" from "m5.xlarge".
func (n Node) InstanceType() string {
	if i := strings.IndexByte(n.Name, '.'); i >= 0 {
		return n.Name[:i]
	}
	return n.Name
}
