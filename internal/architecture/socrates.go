package architecture

import (
	"strings"

	"github.com/guimove/clusterfit/internal/logservice"
	"github.com/guimove/clusterfit/internal/pageservice"
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

// socratesDurability is the fixed durability ceiling this family promises
// regardless of which EBS family ends up backing the log landing zone: the
// log is always eventually moved off to an object store as durable as S3,
// so durability is capped at the lower of a single io2 volume's figure
// and S3's.
var socratesDurability = func() quantity.Durability {
	io2 := resource.FamilyDurability(resource.FamilyIO2)
	if resource.S3Durability.GreaterOrEqual(io2) {
		return io2
	}
	return resource.S3Durability
}()

// BuildSocratesLike assembles the architecture with two dedicated
// services: a page server (with optional RBPEx local cache) and a
// separate log server, each independently sized and priced (spec.md §4.6,
// SocratesLike).
func BuildSocratesLike(p workload.Parameter, n resource.Node, pageNode resource.Node, logNode resource.Node) (*Architecture, bool) {
	p.WALIncludesUndo = false
	if !n.InstanceStorage.Present() {
		return nil, false
	}
	if n.InstanceStorage.UsableSize() < n.Memory.Bytes {
		return nil, false
	}
	useRbpex := true
	if strings.HasPrefix(n.Name, "p4d.24") {
		// Super fast networking but not enough local IOPS: RBPEx does not
		// pay for itself on this shape.
		useRbpex = false
	}

	pr := primary.New(p, n, useRbpex)

	logSvc, ok := logservice.AssembleEc2(p, pr, logNode, p.PageServerReplication)
	if !ok {
		return nil, false
	}
	pageLatencyBudget := quantity.Deduce(p.RequiredOpLatency, pr.ProbCacheMiss(),
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: pr.CacheHitLatency()})
	pageSvc, ok := pageservice.AssembleEc2(p, pr, pageNode, pageLatencyBudget, p.PageServerReplication, useRbpex)
	if !ok {
		return nil, false
	}

	adjustedOps := p.RequiredOpsPerNode()
	cpuUpdates := pr.Node.CPU.GetOps(p.CPUCost)
	if adjustedOps.PerSecond() > cpuUpdates.PerSecond() {
		return nil, false
	}

	a := &Architecture{
		Type:        SocratesLike,
		Parameter:   p,
		Primary:     pr,
		Secondaries: primary.Secondaries{Count: p.NumSecondaries, Node: n},
		PageService: pageSvc,
		LogService:  logSvc,
	}

	iopsPerPage := resource.DivRoundUp(p.PageSize, resource.MaxIOPSize)
	storagePageWrites := pr.Node.InstanceStorage.GetWriteOps().Scale(1.0 / float64(iopsPerPage))
	storagePageReads := pr.Node.InstanceStorage.GetReadOps().Scale(1.0 / float64(iopsPerPage))

	probMiss := pr.ProbCacheMiss()
	probSecond := 0.0
	if useRbpex {
		probSecond = 1.0
	}

	candidates := []quantity.Rate{cpuUpdates, logSvc.UpdateOpsAvailable}
	if probMiss > 0 {
		candidates = append(candidates, pageSvc.PageReadOpsAvailable.Scale(1.0/probMiss))
	}
	if useRbpex && probSecond > 0 {
		candidates = append(candidates, storagePageWrites.Scale(1.0/probSecond), storagePageReads.Scale(1.0/probSecond))
	}
	candidates = append(candidates, p.RequiredUpdateOps)
	a.Updates = quantity.Min(candidates...)

	cpuLookups := cpuUpdates.Sub(a.Updates)
	remainingPageReads := pageSvc.PageReadOpsAvailable.Sub(a.Updates.Scale(probMiss))
	lookupCandidates := []quantity.Rate{cpuLookups, p.RequiredLookupOps}
	if probMiss > 0 {
		lookupCandidates = append(lookupCandidates, remainingPageReads.Scale(1.0/probMiss))
	}
	a.Lookups = quantity.Min(lookupCandidates...)

	if a.Secondaries.AvailableForLookups() > 0 {
		a.SecLookups = quantity.Min(a.Lookups.Scale(float64(a.Secondaries.AvailableForLookups())), p.RequiredLookupOps.Sub(a.Lookups))
	}

	totalPageTraffic := a.Updates.Add(a.Lookups).Add(a.SecLookups).PerSecond() * float64(p.PageSize) * probMiss
	logShipTraffic := a.Updates.PerSecond() * float64(p.GetRedoLogRecordSize()) * float64(p.NumSecondaries+1)
	a.InterAZTraffic = interAZRatioTraffic(p, totalPageTraffic+logShipTraffic)

	a.CommitLatency = logSvc.CommitLatency
	a.OpLatency = quantity.Combine(
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: pr.CacheHitLatency()},
		quantity.WeightedLatency{Weight: pr.ProbCacheMiss(), Latency: pageSvc.OpLatency},
	)
	a.DurabilityVal = socratesDurability

	firstCacheWarm := quantity.FailoverTime{Seconds: float64(pr.DataInFirstCache()) / minF(pr.Node.Network.ReadLimit().PerSecond(), float64(pr.Node.InstanceStorage.GetReadThroughput()))}
	var secondCacheWarm quantity.FailoverTime
	if useRbpex {
		secondCacheWarm = quantity.FailoverTime{Seconds: float64(pr.DataInSecondCache()) / minF(pr.Node.Network.ReadLimit().PerSecond(), float64(pr.Node.InstanceStorage.GetReadThroughput()))}
	}
	a.FailoverTimeVal = resource.NodeSpinupTime.Add(firstCacheWarm).Add(secondCacheWarm)

	return a, true
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
