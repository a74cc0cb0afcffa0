package architecture

import (
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/service"
	"github.com/guimove/clusterfit/internal/workload"
)

// BuildDynamic assembles one already-chosen (page service, log service)
// combination into an Architecture. The source generates every
// (page-kind, log-kind, RBPEx on/off, secondary-count) combination inline
// in one constructor; here the cross-product walk belongs to the
// enumerator package, which calls this constructor once per combination it
// wants scored (spec.md §4.6, Dynamic).
func BuildDynamic(p workload.Parameter, n resource.Node, useRbpex bool, pageSvc, logSvc service.Capabilities) (*Architecture, bool) {
	pr := primary.New(p, n, useRbpex)

	cacheHitOps := pr.CacheHitOps(quantity.Zero)
	if cacheHitOps.Less(p.RequiredOpsPerNode()) {
		return nil, false
	}

	probMiss := pr.ProbCacheMiss()

	var pageReadOps quantity.Rate
	if probMiss > 0 {
		pageReadOps = pageSvc.PageReadOpsAvailable.Scale(1.0 / probMiss)
	} else {
		pageReadOps = quantity.Unlimited
	}
	pageWriteOps := pageSvc.PageWriteOpsAvailable

	a := &Architecture{
		Type:        Dynamic,
		Parameter:   p,
		Primary:     pr,
		Secondaries: primary.Secondaries{Count: p.NumSecondaries, Node: n},
		PageService: pageSvc,
		LogService:  logSvc,
	}

	a.Updates = quantity.Min(cacheHitOps, pageReadOps, pageWriteOps, logSvc.UpdateOpsAvailable, p.RequiredUpdateOps)

	cacheHitOpsForLookups := pr.CacheHitOps(a.Updates)
	remainingPageReads := pageSvc.PageReadOpsAvailable.Sub(a.Updates.Scale(probMiss))
	var lookupReadLimit quantity.Rate
	if probMiss > 0 {
		lookupReadLimit = remainingPageReads.Scale(1.0 / probMiss)
	} else {
		lookupReadLimit = quantity.Unlimited
	}
	a.Lookups = quantity.Min(cacheHitOpsForLookups, lookupReadLimit, p.RequiredLookupOps)

	if a.Secondaries.AvailableForLookups() > 0 {
		a.SecLookups = quantity.Min(a.Lookups.Scale(float64(a.Secondaries.AvailableForLookups())), p.RequiredLookupOps.Sub(a.Lookups))
	}

	a.OpLatency = quantity.Combine(
		quantity.WeightedLatency{Weight: pr.ProbCacheMiss(), Latency: pageSvc.OpLatency},
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: pr.CacheHitLatency()},
	)
	a.CommitLatency = logSvc.CommitLatency
	a.DurabilityVal = logSvc.ServiceDurability

	totalOps := a.Updates.Add(a.Lookups).Add(a.SecLookups)
	a.InterAZTraffic = interAZRatioTraffic(p, totalOps.PerSecond()*float64(p.PageSize)*p.NetworkOverhead*probMiss)
	a.FailoverTimeVal = resource.NodeSpinupTime.Add(quantity.FailoverTime{Seconds: float64(pr.DataInFirstCache()) / pr.Node.Network.ReadLimit().PerSecond()})

	return a, true
}
