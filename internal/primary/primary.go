// Package primary models the node hosting an architecture's write path:
// its local-storage and remote-block-device reservations, and the
// two-level cache-hit probability model (§4.3) shared by every
// architecture family.
package primary

import (
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

const numEBSFamilies = 4

var ebsFamilyOrder = [numEBSFamilies]resource.BlockDeviceFamily{
	resource.FamilyGP3, resource.FamilyGP2, resource.FamilyIO1, resource.FamilyIO2,
}

func ebsFamilyIndex(f resource.BlockDeviceFamily) int {
	for i, ff := range ebsFamilyOrder {
		if ff == f {
			return i
		}
	}
	return -1
}

// Primary owns a Node by value plus the mutable reservation tallies
// against it. Each Primary instance is single-owner: no service variant
// holds a back-pointer into it (spec.md §9's "cyclic references" note) —
// callers receive reservation results as values instead.
type Primary struct {
	Parameter workload.Parameter
	Node      resource.Node

	UsesBufferPoolExtension bool

	ebs         [numEBSFamilies]*resource.RemoteBlockDevice
	ebsReserved [numEBSFamilies]resource.EBSAllotment
	reserved    resource.InstanceStorageAllotment

	probFirstCacheHit float64
	probSecondCacheHit float64
	probCacheHit       float64
	probIndexCacheHit  float64

	NetworkIn  uint64
	NetworkOut uint64
	LogVolume  uint64
}

// New constructs a Primary and computes its cache-hit probabilities.
// rbpex enables the remote buffer-pool-extension mode, which claims the
// whole local device as an L2 cache and disables ordinary local-storage
// reservation.
func New(p workload.Parameter, n resource.Node, rbpex bool) *Primary {
	pr := &Primary{Parameter: p, Node: n, UsesBufferPoolExtension: rbpex}
	pr.computeCacheProbabilities()
	return pr
}

func (pr *Primary) bufferCacheSize() uint64 {
	size := uint64(float64(pr.Node.Memory.Bytes) * pr.Parameter.UsableMemory)
	if pr.UsesBufferPoolExtension {
		size += pr.Node.InstanceStorage.UsableSize()
	}
	return size
}

func (pr *Primary) indexInCache() uint64 {
	return min64(pr.bufferCacheSize(), pr.Parameter.IndexSize())
}

func (pr *Primary) dataInCache() uint64 {
	cache := pr.bufferCacheSize()
	idx := pr.indexInCache()
	if idx > cache {
		idx = cache
	}
	return min64(cache-idx, pr.Parameter.DataSize())
}

// DataInFirstCache returns the bytes of the dataset held in node memory.
func (pr *Primary) DataInFirstCache() uint64 {
	return min64(uint64(float64(pr.Node.Memory.Bytes)*pr.Parameter.UsableMemory), pr.Parameter.DataSize())
}

func (pr *Primary) dataNotInFirstCache() uint64 {
	return pr.Parameter.DataSize() - pr.DataInFirstCache()
}

// DataInSecondCache returns the bytes held in the local-NVMe L2 extension
// (zero unless RBPEx is enabled).
func (pr *Primary) DataInSecondCache() uint64 {
	if !pr.UsesBufferPoolExtension {
		return 0
	}
	return min64(pr.Node.InstanceStorage.UsableSize(), pr.dataNotInFirstCache())
}

func (pr *Primary) computeCacheProbabilities() {
	if pr.Parameter.LookupZipf != 0 {
		cacheGB := pr.dataInCache() / resource.GiB
		firstCacheGB := pr.DataInFirstCache() / resource.GiB
		datasetGB := pr.Parameter.DataSize() / resource.GiB
		pr.probCacheHit = accumulatedZipf(cacheGB, datasetGB, pr.Parameter.LookupZipf)
		pr.probFirstCacheHit = accumulatedZipf(firstCacheGB, datasetGB, pr.Parameter.LookupZipf)
		pr.probSecondCacheHit = pr.probCacheHit - pr.probFirstCacheHit
		return
	}

	pr.probCacheHit = float64(pr.dataInCache()) / float64(pr.Parameter.DataSize())
	if pr.Parameter.IndexOnlyTables {
		pr.probIndexCacheHit = 1.0
	} else {
		pr.probIndexCacheHit = float64(pr.indexInCache()) / float64(pr.Parameter.IndexSize())
	}
	pr.probFirstCacheHit = float64(pr.DataInFirstCache()) / float64(pr.Parameter.DataSize())
	pr.probSecondCacheHit = float64(pr.DataInSecondCache()) / float64(pr.Parameter.DataSize())
}

// ProbCacheHit, ProbCacheMiss, ProbIndexCacheHit, ProbIndexCacheMiss
// report the cached probabilities computed at construction.
func (pr *Primary) ProbCacheHit() float64      { return pr.probCacheHit }
func (pr *Primary) ProbCacheMiss() float64     { return 1.0 - pr.probCacheHit }
func (pr *Primary) ProbIndexCacheHit() float64 { return pr.probIndexCacheHit }
func (pr *Primary) ProbIndexCacheMiss() float64 {
	v := 1.0 - pr.probIndexCacheHit
	if v < 0 {
		return 0
	}
	return v
}

// ProbDirty is the fraction of ops that are updates (mutation pressure on
// cached pages).
func (pr *Primary) ProbDirty() float64 {
	total := pr.Parameter.RequiredUpdateOps.PerSecond() + pr.Parameter.RequiredLookupOps.PerSecond()
	if total == 0 {
		return 0
	}
	return pr.Parameter.RequiredUpdateOps.PerSecond() / total
}

// ProbEvictDirtyPageFromCache is the probability a cache miss evicts a
// dirty page that must be written back.
func (pr *Primary) ProbEvictDirtyPageFromCache() float64 {
	return pr.ProbCacheMiss() * pr.ProbDirty()
}

// CacheHitLatency returns the op latency contributed by a cache hit: pure
// memory-read latency, or a weighted blend of memory and local-storage
// read latency when RBPEx is enabled.
func (pr *Primary) CacheHitLatency() quantity.Latency {
	if !pr.UsesBufferPoolExtension {
		return resource.MemoryReadLatency
	}
	if pr.probCacheHit == 0 {
		return resource.MemoryReadLatency
	}
	return quantity.Combine(
		quantity.WeightedLatency{Weight: pr.probFirstCacheHit / pr.probCacheHit, Latency: resource.MemoryReadLatency},
		quantity.WeightedLatency{Weight: pr.probSecondCacheHit / pr.probCacheHit, Latency: pr.Node.InstanceStorage.ReadLatency()},
	)
}

// CacheHitOps returns the rate of additional cache-hit operations this
// node can sustain beyond alreadyUsed. Without RBPEx this is bounded only
// by CPU; with RBPEx it is also bounded by the local device's read/write
// IOPS, since a cache hit there is itself a storage access.
func (pr *Primary) CacheHitOps(alreadyUsed quantity.Rate) quantity.Rate {
	cpuOps := pr.Node.CPU.GetOps(pr.Parameter.CPUCost).PerSecond() - alreadyUsed.PerSecond()
	if !pr.UsesBufferPoolExtension {
		return quantity.Secondly(cpuOps)
	}
	iopsPerPage := resource.DivRoundUp(pr.Parameter.PageSize, resource.MaxIOPSize)
	storagePageWrites := pr.Node.InstanceStorage.GetWriteOps().PerSecond() / float64(iopsPerPage)
	storagePageReads := pr.Node.InstanceStorage.GetReadOps().PerSecond() / float64(iopsPerPage)
	remainingWrites := storagePageWrites - alreadyUsed.PerSecond()*pr.probSecondCacheHit
	remainingReads := storagePageReads - alreadyUsed.PerSecond()*pr.probSecondCacheHit
	return quantity.Secondly(minFloat(cpuOps, remainingWrites/pr.probSecondCacheHit, remainingReads/pr.probSecondCacheHit))
}

func minFloat(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Assemble constructs a Primary and rejects it up front if the node
// cannot even sustain the per-node op rate on cache hits alone.
func Assemble(p workload.Parameter, n resource.Node, rbpex bool) (*Primary, bool) {
	pr := New(p, n, rbpex)
	if pr.CacheHitOps(quantity.Zero).Less(p.RequiredOpsPerNode()) {
		return nil, false
	}
	return pr, true
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// ReserveInstanceStorage atomically reserves size bytes and reads/writes
// rate against the node's local storage. Fails (returns false) if RBPEx
// is enabled (it claims the whole device) or any cumulative limit would
// be exceeded.
func (pr *Primary) ReserveInstanceStorage(size uint64, reads, writes quantity.Rate) (resource.InstanceStorageAllotment, bool) {
	if pr.UsesBufferPoolExtension {
		return resource.InstanceStorageAllotment{}, false
	}
	if pr.reserved.Size+size > pr.Node.InstanceStorage.UsableSize() {
		return resource.InstanceStorageAllotment{}, false
	}
	if pr.reserved.Reads.Add(reads).PerSecond() > pr.Node.InstanceStorage.GetReadOps().PerSecond() {
		return resource.InstanceStorageAllotment{}, false
	}
	if pr.reserved.Writes.Add(writes).PerSecond() > pr.Node.InstanceStorage.GetWriteOps().PerSecond() {
		return resource.InstanceStorageAllotment{}, false
	}
	pr.reserved.Size += size
	pr.reserved.Reads = pr.reserved.Reads.Add(reads)
	pr.reserved.Writes = pr.reserved.Writes.Add(writes)
	return resource.InstanceStorageAllotment{Size: size, Reads: reads, Writes: writes}, true
}

// AddEBSCapacity tentatively grows the family's synthesized device to
// cover the additional size/iops/bandwidth, tallies aggregate per-machine
// IOPS/throughput/device-count across all four families, and fails if any
// machine-level limit would be exceeded.
func (pr *Primary) AddEBSCapacity(family resource.BlockDeviceFamily, size uint64, iops quantity.Rate, bandwidth, ioSize uint64) (resource.EBSAllotment, bool) {
	idx := ebsFamilyIndex(family)
	if idx < 0 {
		return resource.EBSAllotment{}, false
	}

	var totalIOPS quantity.Rate
	var totalThroughput, totalDevices uint64

	var tentative resource.RemoteBlockDevice
	for i := 0; i < numEBSFamilies; i++ {
		if i == idx {
			allot := pr.ebsReserved[i]
			tentative = resource.CreateVolume(pr.Node.Name, family, allot.Size+size, uint64(allot.IOPS.Add(iops).PerSecond()+0.999999), allot.Bandwidth+bandwidth, maxU64(allot.MaxIOPSize, ioSize))
			totalIOPS = totalIOPS.Add(tentative.TotalIOPS())
			totalThroughput += tentative.TotalThroughput()
			totalDevices += tentative.NumDevices
		} else if pr.ebs[i] != nil {
			totalIOPS = totalIOPS.Add(pr.ebs[i].TotalIOPS())
			totalThroughput += pr.ebs[i].TotalThroughput()
			totalDevices += pr.ebs[i].NumDevices
		}
	}

	if totalIOPS.PerSecond() > pr.Node.MachineEBS.BaseIOPS.PerSecond() {
		return resource.EBSAllotment{}, false
	}
	if float64(totalThroughput) > pr.Node.MachineEBS.BaseThroughput {
		return resource.EBSAllotment{}, false
	}
	if totalDevices > pr.Node.MaxEBSDevices() {
		return resource.EBSAllotment{}, false
	}

	allot := pr.ebsReserved[idx]
	allot.Family = family
	allot.Size += size
	allot.IOPS = allot.IOPS.Add(iops)
	allot.Bandwidth += bandwidth
	if ioSize > allot.MaxIOPSize {
		allot.MaxIOPSize = ioSize
	}
	pr.ebsReserved[idx] = allot

	dev := tentative
	pr.ebs[idx] = &dev

	return allot, true
}

func maxU64(vs ...uint64) uint64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// EBSPrice sums the price of every synthesized remote-block device.
func (pr *Primary) EBSPrice() quantity.Price {
	total := quantity.Hourly(0, quantity.CategoryEBS)
	for _, d := range pr.ebs {
		if d != nil {
			total = total.Add(d.Price())
		}
	}
	return total
}

// Price returns the node's own hourly price, after the configured EC2
// discount.
func (pr *Primary) Price() quantity.Price {
	return quantity.Hourly(pr.Node.Price.Value*(1-pr.Parameter.EC2Discount), pr.Node.Price.Category)
}

// Description returns a human-readable label for this primary.
func (pr *Primary) Description() string {
	if pr.UsesBufferPoolExtension {
		return pr.Node.Name + "-rbpex"
	}
	return pr.Node.Name
}

// Secondaries is a count of homogeneous replica nodes. At most one acts as
// hot standby; the rest may serve lookups.
type Secondaries struct {
	Count uint
	Node  resource.Node
}

// Price returns count * node price.
func (s Secondaries) Price() quantity.Price {
	return quantity.Hourly(float64(s.Count)*s.Node.Price.Value, quantity.CategoryCompute)
}

// HasStandby reports whether at least one secondary exists.
func (s Secondaries) HasStandby() bool { return s.Count > 0 }

// AvailableForLookups returns the secondary count minus the hot standby.
func (s Secondaries) AvailableForLookups() uint {
	if s.Count == 0 {
		return 0
	}
	return s.Count - 1
}
