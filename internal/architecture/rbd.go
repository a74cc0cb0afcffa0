package architecture

import (
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/service"
	"github.com/guimove/clusterfit/internal/workload"
)

// BuildRemoteBlockDevice assembles the architecture where both the dataset
// and its ARIES log live on a single synthesized EBS-style volume, sharing
// one IOPS pool (spec.md §4.6, RemoteBlockDevice).
func BuildRemoteBlockDevice(p workload.Parameter, n resource.Node, family resource.BlockDeviceFamily) (*Architecture, bool) {
	p.IndexOnlyTables = true
	p.WALIncludesUndo = true
	pr := primary.New(p, n, false)

	size := p.DataSize() + p.GetRequiredAriesLogStorage()
	iopsPerPage := resource.DivRoundUp(p.PageSize, resource.MaxIopSize)
	recordSize := p.GetAriesLogRecordSize()
	logScalar := logWritesPerUpdateScalar(p.GroupCommit, recordSize, resource.MaxIopSize)

	pageWrites := p.RequiredOps().Scale(pr.ProbEvictDirtyPageFromCache() * float64(iopsPerPage))
	pageReads := p.RequiredOps().Scale(pr.ProbCacheMiss() * float64(iopsPerPage))
	logWrites := p.RequiredUpdateOps.Scale(logScalar)

	totalIops := pageWrites.Add(pageReads).Add(logWrites)
	bandwidth := uint64(totalIops.PerSecond()) * p.PageSize

	alloc, ok := pr.AddEBSCapacity(family, size, totalIops, bandwidth, resource.MaxIopSize)
	if !ok {
		return nil, false
	}
	if p.RequiredOps().PerSecond() > pr.Node.CPU.GetOps(p.CPUCost).PerSecond() {
		return nil, false
	}

	durability := resource.FamilyDurability(family)

	a := &Architecture{
		Type:      RemoteBlockDevice,
		Parameter: p,
		Primary:   pr,
		Secondaries: primary.Secondaries{Count: p.NumSecondaries, Node: n},
		PageService: service.Capabilities{
			Kind:        service.KindEBS,
			Description: string(family) + "-pages",
			Price:       quantity.Hourly(0, quantity.CategoryPageService),
			TotalSize:   size,
		},
		LogService: service.Capabilities{
			Kind:              service.KindEBS,
			Description:       string(family) + "-log",
			Price:             quantity.Hourly(0, quantity.CategoryLogService),
			ServiceDurability: durability,
		},
	}

	cpuUpdates := pr.Node.CPU.GetOps(p.CPUCost)
	ebsScale := pr.ProbEvictDirtyPageFromCache()*float64(iopsPerPage) + pr.ProbCacheMiss()*float64(iopsPerPage) + logScalar
	updates := quantity.Min(cpuUpdates, alloc.IOPS.Scale(1.0/ebsScale), p.RequiredUpdateOps)
	a.Updates = updates

	cpuLookups := cpuUpdates.Sub(updates)
	lookupScale := pr.ProbEvictDirtyPageFromCache()*float64(iopsPerPage) + pr.ProbCacheMiss()*float64(iopsPerPage)
	remainingIops := alloc.IOPS.Sub(updates.Scale(ebsScale))
	a.Lookups = quantity.Min(cpuLookups, remainingIops.Scale(1.0/lookupScale), p.RequiredLookupOps)

	pr.LogVolume = uint64(a.Updates.PerSecond() * float64(recordSize))
	a.DurabilityVal = durability
	a.CommitLatency = resource.RemoteWriteLatency
	a.OpLatency = quantity.Combine(
		quantity.WeightedLatency{Weight: pr.ProbCacheMiss(), Latency: resource.RemoteReadLatency},
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: resource.MemoryReadLatency},
	)

	ebsBandwidth := pr.Node.MachineEBS.BaseThroughput
	if ebsBandwidth < 10 {
		ebsBandwidth = 10
	}
	a.FailoverTimeVal = resource.NodeSpinupTime.Add(quantity.FailoverTime{Seconds: float64(pr.DataInFirstCache()) / ebsBandwidth})

	return a, true
}
