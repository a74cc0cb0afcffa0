package architecture

import (
	"github.com/guimove/clusterfit/internal/logservice"
	"github.com/guimove/clusterfit/internal/pageservice"
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

// BuildHADR assembles the log-shipping architecture: the primary's ARIES
// log is streamed directly to every secondary over the network, in
// addition to the same local page+log storage Classic uses (spec.md §4.6,
// HADR).
func BuildHADR(p workload.Parameter, n resource.Node) (*Architecture, bool) {
	p.IndexOnlyTables = true
	p.WALIncludesUndo = true
	if !n.InstanceStorage.Present() {
		return nil, false
	}
	pr := primary.New(p, n, false)

	size := p.DataSize() + p.GetRequiredAriesLogStorage()
	iopsPerPage := resource.DivRoundUp(p.PageSize, resource.MaxIOPSize)
	recordSize := p.GetAriesLogRecordSize()
	logScalar := logWritesPerUpdateScalar(p.GroupCommit, recordSize, resource.MaxIOPSize)

	storage := pr.Node.InstanceStorage
	pageWrites := p.RequiredOps().Scale(pr.ProbEvictDirtyPageFromCache() * float64(iopsPerPage))
	pageReads := p.RequiredOps().Scale(pr.ProbCacheMiss() * float64(iopsPerPage))
	logWrites := p.RequiredUpdateOps.Scale(logScalar)

	networkOutLimit := pr.Node.Network.WriteLimit()
	secondariesCount := float64(p.NumSecondaries)
	networkShipWrites := p.RequiredUpdateOps.Scale(float64(recordSize) * secondariesCount)

	if p.RequiredOps().PerSecond() > pr.Node.CPU.GetOps(p.CPUCost).PerSecond() {
		return nil, false
	}
	if size > storage.UsableSize() {
		return nil, false
	}
	if pageReads.PerSecond() > storage.GetReadOps().PerSecond() {
		return nil, false
	}
	if pageWrites.Add(logWrites).PerSecond() > storage.GetWriteOps().PerSecond() {
		return nil, false
	}
	if secondariesCount > 0 && networkShipWrites.PerSecond() > networkOutLimit.PerSecond() {
		return nil, false
	}

	pageSvc, ok := pageservice.AssembleInstanceStorage(p, pr)
	if !ok {
		return nil, false
	}
	logSvc, ok := logservice.AssembleInstanceStorage(p, pr)
	if !ok {
		return nil, false
	}

	a := &Architecture{
		Type:        HADR,
		Parameter:   p,
		Primary:     pr,
		Secondaries: primary.Secondaries{Count: p.NumSecondaries, Node: n},
		PageService: pageSvc,
		LogService:  logSvc,
	}

	cpuUpdates := pr.CacheHitOps(quantity.Zero)
	writesPerUpdate := pr.ProbEvictDirtyPageFromCache()*float64(iopsPerPage) + logScalar
	readsPerUpdate := pr.ProbCacheMiss() * float64(iopsPerPage)
	readIops := storage.GetReadOps()
	writeIops := storage.GetWriteOps()

	readScale := readIops.Scale(1.0 / readsPerUpdate)
	writeScale := writeIops.Scale(1.0 / writesPerUpdate)

	updates := quantity.Min(cpuUpdates, readScale, writeScale, p.RequiredUpdateOps)
	if secondariesCount > 0 {
		networkScale := networkOutLimit.Scale(1.0 / (float64(recordSize) * secondariesCount))
		updates = quantity.Min(updates, networkScale)
	}
	a.Updates = updates

	cpuLookups := cpuUpdates.Sub(a.Updates)
	writesPerLookup := pr.ProbEvictDirtyPageFromCache() * float64(iopsPerPage)
	readsPerLookup := pr.ProbCacheMiss() * float64(iopsPerPage)
	remainingWriteOps := writeIops.Sub(a.Updates.Scale(writesPerUpdate))
	remainingReadOps := readIops.Sub(a.Updates.Scale(readsPerUpdate))
	a.Lookups = quantity.Min(cpuLookups, remainingWriteOps.Scale(1.0/writesPerLookup), remainingReadOps.Scale(1.0/readsPerLookup), p.RequiredLookupOps)

	if a.Secondaries.AvailableForLookups() > 0 {
		a.SecLookups = quantity.Min(a.Lookups.Scale(float64(a.Secondaries.AvailableForLookups())), p.RequiredLookupOps.Sub(a.Lookups))
	}

	pr.LogVolume = uint64(a.Updates.PerSecond() * float64(recordSize))
	a.InterAZTraffic = hadrInterAZTraffic(p, a.Updates, recordSize)

	a.CommitLatency = storage.WriteLatency()
	a.OpLatency = quantity.Combine(
		quantity.WeightedLatency{Weight: pr.ProbCacheMiss(), Latency: storage.ReadLatency()},
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: resource.MemoryReadLatency},
	)

	minNodesForDurability := 1
	a.DurabilityVal = quantity.CalculateFromMTTR(int(p.NumSecondaries)+1, pr.Node.Availability().Probability, float64(p.DataSize())/(50*float64(resource.MiB)), minNodesForDurability)

	readThroughput := pr.Node.InstanceStorage.GetReadThroughput()
	writeThroughput := pr.Node.InstanceStorage.GetWriteThroughput()
	denom := pr.Node.Network.ReadLimit().PerSecond()
	if float64(readThroughput) < denom {
		denom = float64(readThroughput)
	}
	if float64(writeThroughput) < denom {
		denom = float64(writeThroughput)
	}
	a.FailoverTimeVal = resource.NodeSpinupTime.Add(quantity.FailoverTime{Seconds: float64(p.DataSize()) / denom})

	return a, true
}

// hadrInterAZTraffic distributes secondaries evenly across the deployed
// AZs (the primary occupies one of them) and ships the ARIES log to every
// secondary not co-located with the primary.
func hadrInterAZTraffic(p workload.Parameter, updates quantity.Rate, recordSize uint64) uint64 {
	if !p.DeployAcrossAZ || p.NumSecondaries == 0 {
		return 0
	}
	secondariesPerAZ := float64(p.NumSecondaries) / float64(p.NumberOfAZs)
	secondariesInSameAZ := secondariesPerAZ
	if secondariesInSameAZ > float64(p.NumSecondaries) {
		secondariesInSameAZ = float64(p.NumSecondaries)
	}
	remote := float64(p.NumSecondaries) - secondariesInSameAZ
	return uint64(remote * updates.PerSecond() * float64(recordSize))
}
