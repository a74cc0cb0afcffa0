package resource

import "github.com/guimove/clusterfit/internal/quantity"

// StorageType distinguishes the locally-attached storage technology.
type StorageType string

const (
	StorageNone StorageType = ""
	StorageNVMe StorageType = "nvme"
	StorageSSD  StorageType = "ssd"
	StorageHDD  StorageType = "hdd"
)

// Fixed per-device op rates, measured on representative instance families.
const (
	ssdReadOps = 100_000
	ssdWriteOps = 50_000
	hddReadOps = 100
	hddWriteOps = 100

	// MaxIOPSize is the fixed per-IO size assumed for local storage ops.
	MaxIOPSize = 4 * 1024

	// nvmeReadPenalty derates NVMe read IOPS relative to their rated spec,
	// measured on an i3en.24xlarge.
	nvmeReadPenalty = 0.8
)

var (
	localWriteLatency = quantity.Flat(44_000)
	localReadLatency  = quantity.Flat(132_000)
)

// InstanceStorage describes locally-attached ephemeral storage. Devices
// may be fractional to model an instance that shares part of a physical
// device.
type InstanceStorage struct {
	Type         StorageType
	SizePerDevice uint64
	Devices      float64
	ReadOps      uint64
	WriteOps     uint64
}

// TotalSize returns the aggregate raw capacity across all devices.
func (s InstanceStorage) TotalSize() uint64 {
	return uint64(float64(s.SizePerDevice) * s.Devices)
}

// UsableSize returns the capacity usable for data, after the NVMe/SSD
// 10% reserve (HDD has none).
func (s InstanceStorage) UsableSize() uint64 {
	factor := 1.0
	if s.Type == StorageNVMe || s.Type == StorageSSD {
		factor = 0.9
	}
	return uint64(float64(s.TotalSize()) * factor)
}

// GetReadOps returns the achievable read-op rate, derated for NVMe.
func (s InstanceStorage) GetReadOps() quantity.Rate {
	penalty := 1.0
	if s.Type == StorageNVMe {
		penalty = nvmeReadPenalty
	}
	return quantity.Secondly(penalty * float64(s.ReadOps))
}

// GetWriteOps returns the achievable write-op rate.
func (s InstanceStorage) GetWriteOps() quantity.Rate {
	return quantity.Secondly(float64(s.WriteOps))
}

// GetReadThroughput and GetWriteThroughput report raw byte/sec throughput
// at the fixed per-IO size, independent of the NVMe read derating applied
// by GetReadOps.
func (s InstanceStorage) GetReadThroughput() uint64  { return s.ReadOps * MaxIOPSize }
func (s InstanceStorage) GetWriteThroughput() uint64 { return s.WriteOps * MaxIOPSize }

// ReadLatency and WriteLatency are the fixed op latencies for local
// storage, independent of device type.
func (s InstanceStorage) ReadLatency() quantity.Latency  { return localReadLatency }
func (s InstanceStorage) WriteLatency() quantity.Latency { return localWriteLatency }

// Present reports whether this descriptor represents any actual storage.
func (s InstanceStorage) Present() bool { return s.Devices != 0 }

// IsParetoBetter reports whether s strictly dominates other on usable
// size, read ops, and write ops simultaneously — the stricter-than-classical
// Pareto test used to select storage-node candidates (spec Open Question 4;
// preserved intentionally, see DESIGN.md).
func (s InstanceStorage) IsParetoBetter(other InstanceStorage) bool {
	return s.UsableSize() > other.UsableSize() &&
		s.GetReadOps().PerSecond() > other.GetReadOps().PerSecond() &&
		s.GetWriteOps().PerSecond() > other.GetWriteOps().PerSecond()
}

// InstanceStorageAllotment tracks cumulative reservations against a
// Primary's local storage.
type InstanceStorageAllotment struct {
	Size  uint64
	Reads quantity.Rate
	Writes quantity.Rate
}
