package resource

import "github.com/guimove/clusterfit/internal/quantity"

// MemoryReadLatency is the fixed memory access latency (~1100 cycles at
// 2GHz) used as the op-latency for in-memory hits.
var MemoryReadLatency = quantity.Flat(555)

// Memory is a byte count.
type Memory struct {
	Bytes uint64
}

// MemoryMiB constructs a Memory from a mebibyte count.
func MemoryMiB(n uint64) Memory { return Memory{Bytes: n * MiB} }

// MemoryGiB constructs a Memory from a gibibyte count.
func MemoryGiB(n uint64) Memory { return Memory{Bytes: n * GiB} }

// Add returns m + other.
func (m Memory) Add(other Memory) Memory {
	return Memory{Bytes: m.Bytes + other.Bytes}
}
