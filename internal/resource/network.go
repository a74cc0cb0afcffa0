package resource

import "github.com/guimove/clusterfit/internal/quantity"

// S3TransferSize is the effective per-op transfer size used to convert
// S3 request throughput into a network-op rate.
const S3TransferSize = 2 * 1024 * 1024

// InterAZCostPerGiBSecondHourly is the hourly price of sustaining one
// GiB/sec of cross-AZ traffic: $0.02 per GiB transferred, scaled up by the
// 3600 seconds in an hour a GiB/sec rate sustains.
const InterAZCostPerGiBSecondHourly = 0.02 * 3600

// Network describes a node's network interface: speed in Gbit/s, number
// of devices, and whether the speed is a "burstable/up-to" figure.
type Network struct {
	SpeedGbps      uint64
	BurstSpeedGbps uint64
	Devices        uint64
	UpTo           bool
}

// ReadLimit returns the achievable inbound byte rate.
func (n Network) ReadLimit() quantity.Rate {
	return quantity.Secondly(float64(n.Devices*n.SpeedGbps) * 1e9 / 8)
}

// WriteLimit returns the achievable outbound byte rate.
func (n Network) WriteLimit() quantity.Rate {
	return quantity.Secondly(float64(n.Devices*n.SpeedGbps) * 1e9 / 8)
}

// S3ReadOps returns the achievable S3 GET rate given the read limit.
func (n Network) S3ReadOps() quantity.Rate {
	return n.ReadLimit().Scale(1.0 / S3TransferSize)
}

// S3WriteOps returns the achievable S3 PUT rate given the write limit.
func (n Network) S3WriteOps() quantity.Rate {
	return n.WriteLimit().Scale(1.0 / S3TransferSize)
}
