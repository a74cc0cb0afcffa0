package architecture

import (
	"github.com/guimove/clusterfit/internal/pageservice"
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

// BuildAuroraLike assembles the architecture where the primary ships only
// its redo log to a dedicated, multi-tenant storage service that itself
// materializes pages and serves reads back — no dirty-page writeback from
// the primary (spec.md §4.6, AuroraLike).
func BuildAuroraLike(p workload.Parameter, n resource.Node, storageNode resource.Node) (*Architecture, bool) {
	p.WALIncludesUndo = false
	if !n.InstanceStorage.Present() {
		return nil, false
	}
	pr := primary.New(p, n, false)

	storageLatencyBudget := quantity.Deduce(p.RequiredOpLatency, pr.ProbCacheMiss(),
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: pr.CacheHitLatency()})
	storageSvc, ok := pageservice.AssembleCombined(p, pr, storageNode, storageLatencyBudget)
	if !ok {
		return nil, false
	}

	adjustedOps := p.RequiredOpsPerNode()
	if adjustedOps.PerSecond() > pr.Node.CPU.GetOps(p.CPUCost).PerSecond() {
		return nil, false
	}

	a := &Architecture{
		Type:        AuroraLike,
		Parameter:   p,
		Primary:     pr,
		Secondaries: primary.Secondaries{Count: p.NumSecondaries, Node: n},
		PageService: storageSvc,
		LogService:  storageSvc.AsLogView(),
	}

	replication := float64(p.NumSecondaries) + 1
	networkWriteLimit := pr.Node.Network.WriteLimit()
	networkReadLimit := pr.Node.Network.ReadLimit()
	probMiss := pr.ProbCacheMiss() + pr.ProbIndexCacheMiss()

	updateLimitViaWrites := quantity.Min(networkWriteLimit.Scale(1.0/(replication)), storageSvc.UpdateOpsAvailable)
	var updateLimitViaReads quantity.Rate
	if probMiss > 0 {
		updateLimitViaReads = quantity.Min(networkReadLimit, storageSvc.PageReadOpsAvailable).Scale(1.0 / probMiss)
	} else {
		updateLimitViaReads = quantity.Unlimited
	}
	cpuUpdates := pr.Node.CPU.GetOps(p.CPUCost)
	a.Updates = quantity.Min(cpuUpdates, updateLimitViaWrites, updateLimitViaReads, p.RequiredUpdateOps)

	cpuLookups := cpuUpdates.Sub(a.Updates)
	remainingReads := storageSvc.PageReadOpsAvailable.Sub(a.Updates.Scale(probMiss))
	a.Lookups = quantity.Min(cpuLookups, remainingReads, p.RequiredLookupOps)

	if a.Secondaries.AvailableForLookups() > 0 {
		a.SecLookups = quantity.Min(a.Lookups.Scale(float64(a.Secondaries.AvailableForLookups())), p.RequiredLookupOps.Sub(a.Lookups))
	}

	totalOps := a.Updates.Add(a.Lookups).Add(a.SecLookups)
	networkOverheadTraffic := totalOps.PerSecond() * float64(p.PageSize) * p.NetworkOverhead * probMiss
	a.InterAZTraffic = interAZRatioTraffic(p, networkOverheadTraffic)

	a.CommitLatency = storageSvc.CommitLatency
	a.OpLatency = quantity.Combine(
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: resource.MemoryReadLatency},
		quantity.WeightedLatency{Weight: pr.ProbCacheMiss(), Latency: storageSvc.OpLatency},
	)
	a.DurabilityVal = storageSvc.ServiceDurability

	dataInCache := pr.DataInFirstCache()
	throughputBound := pr.Node.Network.ReadLimit().PerSecond()
	pageOps := storageSvc.PageReadOpsAvailable.PerSecond() * float64(p.PageSize)
	if pageOps < throughputBound {
		throughputBound = pageOps
	}
	a.FailoverTimeVal = resource.NodeSpinupTime.Add(quantity.FailoverTime{Seconds: float64(dataInCache) / throughputBound})

	return a, true
}
