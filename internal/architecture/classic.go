package architecture

import (
	"github.com/guimove/clusterfit/internal/logservice"
	"github.com/guimove/clusterfit/internal/pageservice"
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

// logWritesPerUpdateScalar is the number of maxIopSize-sized device IOPs one
// log record of recordSize costs: a fraction under group commit (several
// records share one IOP), else the whole number of IOPs one record needs
// (rounded up).
func logWritesPerUpdateScalar(groupCommit bool, recordSize, maxIopSize uint64) float64 {
	if groupCommit {
		return float64(recordSize) / float64(maxIopSize)
	}
	return float64(resource.DivRoundUp(recordSize, maxIopSize))
}

// BuildClassic assembles the single-node, single-device architecture: the
// dataset and its ARIES-style (redo+undo) log share one instance-storage
// device on the primary, with no separate page or log service (spec.md
// §4.6, Classic).
func BuildClassic(p workload.Parameter, n resource.Node) (*Architecture, bool) {
	p.IndexOnlyTables = true
	p.WALIncludesUndo = true
	if !n.InstanceStorage.Present() {
		return nil, false
	}
	pr := primary.New(p, n, false)

	size := p.DataSize() + p.GetRequiredAriesLogStorage()
	iopsPerPage := resource.DivRoundUp(p.PageSize, resource.MaxIOPSize)
	pageWrites := p.RequiredOps().Scale(pr.ProbEvictDirtyPageFromCache() * float64(iopsPerPage))
	pageReads := p.RequiredOps().Scale(pr.ProbCacheMiss() * float64(iopsPerPage))
	logWrites := p.RequiredUpdateOps.Scale(logWritesPerUpdateScalar(p.GroupCommit, p.GetAriesLogRecordSize(), resource.MaxIOPSize))

	storage := pr.Node.InstanceStorage
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

	pageSvc, ok := pageservice.AssembleInstanceStorage(p, pr)
	if !ok {
		return nil, false
	}
	logSvc, ok := logservice.AssembleInstanceStorage(p, pr)
	if !ok {
		return nil, false
	}

	a := &Architecture{
		Type:        Classic,
		Parameter:   p,
		Primary:     pr,
		Secondaries: primary.Secondaries{Count: p.NumSecondaries, Node: n},
		PageService: pageSvc,
		LogService:  logSvc,
	}

	cpuUpdates := pr.Node.CPU.GetOps(p.CPUCost)
	writesPerUpdate := pr.ProbEvictDirtyPageFromCache()*float64(iopsPerPage) + logWritesPerUpdateScalar(p.GroupCommit, p.GetAriesLogRecordSize(), resource.MaxIOPSize)
	readsPerUpdate := pr.ProbCacheMiss() * float64(iopsPerPage)
	readIops := storage.GetReadOps()
	writeIops := storage.GetWriteOps()

	readScale := readIops.Scale(1.0 / readsPerUpdate)
	writeScale := writeIops.Scale(1.0 / writesPerUpdate)
	a.Updates = quantity.Min(cpuUpdates, readScale, writeScale, p.RequiredUpdateOps)

	cpuLookups := cpuUpdates.Sub(a.Updates)
	writesPerLookup := pr.ProbEvictDirtyPageFromCache() * float64(iopsPerPage)
	readsPerLookup := pr.ProbCacheMiss() * float64(iopsPerPage)
	remainingWriteOps := writeIops.Sub(a.Updates.Scale(writesPerUpdate))
	remainingReadOps := readIops.Sub(a.Updates.Scale(readsPerUpdate))
	a.Lookups = quantity.Min(cpuLookups, remainingWriteOps.Scale(1.0/writesPerLookup), remainingReadOps.Scale(1.0/readsPerLookup), p.RequiredLookupOps)

	pr.LogVolume = uint64(a.Updates.PerSecond() * float64(p.GetAriesLogRecordSize()))
	a.CommitLatency = storage.WriteLatency()
	a.OpLatency = quantity.Combine(
		quantity.WeightedLatency{Weight: pr.ProbCacheMiss(), Latency: storage.ReadLatency()},
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: resource.MemoryReadLatency},
	)
	a.DurabilityVal = quantity.FromProbability(pow(pr.Node.Availability().Probability, 12))
	a.FailoverTimeVal = classicFailoverTime(p, pr)

	return a, true
}

func classicFailoverTime(p workload.Parameter, pr *primary.Primary) quantity.FailoverTime {
	download := quantity.FailoverTime{Seconds: float64(p.DataSize()) / pr.Node.Network.ReadLimit().PerSecond()}
	diskWrite := quantity.FailoverTime{Seconds: float64(p.DataSize()) / float64(pr.Node.InstanceStorage.GetWriteThroughput())}
	recovery := quantity.FailoverTime{Seconds: float64(p.GetRequiredLogStorage()) / (100 * float64(resource.MiB))}
	longer := download
	if diskWrite.Seconds > longer.Seconds {
		longer = diskWrite
	}
	return resource.NodeSpinupTime.Add(longer).Add(recovery)
}
