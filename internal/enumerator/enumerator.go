// Package enumerator walks the filtered instance catalog against every
// requested architecture family and collects the survivors (spec.md
// §4.7). It is the outer loop the architecture package's per-family
// constructors assume: each Build* call is one candidate tuple, and this
// package owns the iteration over nodes, EBS device families, and replica
// counts that produces those tuples.
package enumerator

import (
	"sort"

	"github.com/guimove/clusterfit/internal/architecture"
	"github.com/guimove/clusterfit/internal/logservice"
	"github.com/guimove/clusterfit/internal/pageservice"
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/service"
	"github.com/guimove/clusterfit/internal/workload"
)

// Families is the full default search set.
var Families = []architecture.Type{
	architecture.Classic,
	architecture.HADR,
	architecture.RemoteBlockDevice,
	architecture.InMemory,
	architecture.AuroraLike,
	architecture.SocratesLike,
	architecture.Dynamic,
}

var ebsFamilies = []resource.BlockDeviceFamily{
	resource.FamilyGP3,
	resource.FamilyGP2,
	resource.FamilyIO1,
	resource.FamilyIO2,
	resource.FamilyIO2X,
}

// Candidate is one surviving, durability-qualified architecture together
// with the primary node it was assembled on.
type Candidate struct {
	Architecture *architecture.Architecture
	Node         resource.Node
}

// Run enumerates every (family, node, replica-count, device-family) tuple
// permitted by families (the full Families set if empty) and p's replica
// bounds, against the given pre-filtered node catalog. nodes is assumed
// already reduced to catalog rows the caller wants considered (the
// catalog's consider column with --show-hidden, and --instance-names,
// apply before this call).
func Run(p workload.Parameter, nodes []resource.Node, families []architecture.Type) []Candidate {
	if len(families) == 0 {
		families = Families
	}
	wanted := make(map[architecture.Type]bool, len(families))
	for _, f := range families {
		wanted[f] = true
	}

	storageNodes := paretoStorageNodes(nodes)
	logNodes := logNodeCandidates(p, storageNodes)

	var out []Candidate
	for _, n := range nodes {
		if wanted[architecture.Classic] {
			out = tryAppend(out, p, n, architecture.BuildClassic)
		}
		if wanted[architecture.InMemory] {
			out = tryAppend(out, p, n, architecture.BuildInMemory)
		}
		if wanted[architecture.RemoteBlockDevice] {
			for _, fam := range ebsFamilies {
				fam := fam
				out = tryAppend(out, p, n, func(p workload.Parameter, n resource.Node) (*architecture.Architecture, bool) {
					return architecture.BuildRemoteBlockDevice(p, n, fam)
				})
			}
		}
		if wanted[architecture.HADR] {
			out = append(out, runHADR(p, n)...)
		}
		if wanted[architecture.AuroraLike] {
			out = append(out, runAurora(p, n, storageNodes)...)
		}
		if wanted[architecture.SocratesLike] {
			out = append(out, runSocrates(p, n, storageNodes, logNodes)...)
		}
		if wanted[architecture.Dynamic] {
			out = append(out, runDynamic(p, n, storageNodes, logNodes)...)
		}
	}
	return out
}

// tryAppend runs one assemble attempt and keeps it only if it both
// assembled and met the durability floor.
func tryAppend(out []Candidate, p workload.Parameter, n resource.Node, build func(workload.Parameter, resource.Node) (*architecture.Architecture, bool)) []Candidate {
	a, ok := build(p, n)
	if !ok {
		return out
	}
	if !a.DurabilityVal.GreaterOrEqual(p.RequiredDurability) {
		return out
	}
	return append(out, Candidate{Architecture: a, Node: n})
}

// secondaryRange returns the [min,max] replica counts to search,
// clamped to the family's own minimum when that family cannot function
// without at least one secondary (HADR and AuroraLike need a replication
// target to ship the log to).
func secondaryRange(p workload.Parameter, requireAtLeastOne bool) (uint, uint) {
	min := p.MinSecondaries
	if requireAtLeastOne && min < 1 {
		min = 1
	}
	max := p.MaxSecondaries
	if max < min {
		max = min
	}
	return min, max
}

func runHADR(p workload.Parameter, n resource.Node) []Candidate {
	var out []Candidate
	min, max := secondaryRange(p, true)
	for k := min; k <= max; k++ {
		attempt := p
		attempt.NumSecondaries = k
		out = tryAppend(out, attempt, n, architecture.BuildHADR)
	}
	return out
}

func runAurora(p workload.Parameter, n resource.Node, storageNodes []resource.Node) []Candidate {
	var out []Candidate
	min, max := secondaryRange(p, true)
	for _, storageNode := range storageNodes {
		storageNode := storageNode
		for k := min; k <= max; k++ {
			attempt := p
			attempt.NumSecondaries = k
			out = tryAppend(out, attempt, n, func(p workload.Parameter, n resource.Node) (*architecture.Architecture, bool) {
				return architecture.BuildAuroraLike(p, n, storageNode)
			})
		}
	}
	return out
}

func runSocrates(p workload.Parameter, n resource.Node, storageNodes, logNodes []resource.Node) []Candidate {
	var out []Candidate
	min, max := secondaryRange(p, false)
	for _, pageNode := range storageNodes {
		pageNode := pageNode
		for _, logNode := range logNodes {
			logNode := logNode
			for k := min; k <= max; k++ {
				attempt := p
				attempt.NumSecondaries = k
				out = tryAppend(out, attempt, n, func(p workload.Parameter, n resource.Node) (*architecture.Architecture, bool) {
					return architecture.BuildSocratesLike(p, n, pageNode, logNode)
				})
			}
		}
	}
	return out
}

// pageOption is one candidate page-service assembly the Dynamic sweep
// tries, paired with the useRbpex flag the primary must be constructed
// with to match it and the WAL record shape the dataset stored under it
// requires.
type pageOption struct {
	useRbpex        bool
	walIncludesUndo bool
	assemble        func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool)
}

// pageLatencyBudget deduces the latency the page service itself is
// allowed to spend, net of the primary's own cache-hit contribution,
// matching the per-family Deduce call every dedicated page-service
// family performs before sizing its remote cache.
func pageLatencyBudget(p workload.Parameter, pr *primary.Primary) quantity.Latency {
	return quantity.Deduce(p.RequiredOpLatency, pr.ProbCacheMiss(),
		quantity.WeightedLatency{Weight: pr.ProbCacheHit(), Latency: pr.CacheHitLatency()})
}

// logOption is one candidate log-service assembly.
type logOption struct {
	assemble func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool)
}

func pageOptions(n resource.Node, storageNodes []resource.Node) []pageOption {
	opts := []pageOption{
		{useRbpex: false, walIncludesUndo: false, assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
			return pageservice.AssembleInMemory(p, n)
		}},
		{useRbpex: false, walIncludesUndo: true, assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
			return pageservice.AssembleInstanceStorage(p, pr)
		}},
	}
	for _, fam := range ebsFamilies {
		fam := fam
		opts = append(opts, pageOption{useRbpex: false, walIncludesUndo: true, assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
			return pageservice.AssembleEBS(p, pr, fam)
		}})
	}
	for _, storageNode := range storageNodes {
		storageNode := storageNode
		opts = append(opts, pageOption{useRbpex: false, walIncludesUndo: false, assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
			return pageservice.AssembleCombined(p, pr, storageNode, pageLatencyBudget(p, pr))
		}})
		for _, rbpex := range []bool{false, true} {
			rbpex := rbpex
			opts = append(opts, pageOption{useRbpex: rbpex, walIncludesUndo: false, assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
				return pageservice.AssembleEc2(p, pr, storageNode, pageLatencyBudget(p, pr), p.PageServerReplication, rbpex)
			}})
		}
	}
	return opts
}

func logOptions(logNodes []resource.Node) []logOption {
	opts := []logOption{
		{assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
			return logservice.AssembleInstanceStorage(p, pr)
		}},
	}
	for _, fam := range ebsFamilies {
		fam := fam
		opts = append(opts, logOption{assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
			return logservice.AssembleEBS(p, pr, fam)
		}})
	}
	for _, logNode := range logNodes {
		logNode := logNode
		opts = append(opts, logOption{assemble: func(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
			return logservice.AssembleEc2(p, pr, logNode, p.PageServerReplication)
		}})
	}
	return opts
}

// runDynamic walks the Cartesian product of page-service kind, log-service
// kind, and replica count described in spec.md §4.6 for the Dynamic
// family, calling architecture.BuildDynamic once per surviving
// (pageSvc, logSvc) pair.
func runDynamic(p workload.Parameter, n resource.Node, storageNodes, logNodes []resource.Node) []Candidate {
	var out []Candidate
	min, max := secondaryRange(p, false)
	pages := pageOptions(n, storageNodes)
	logs := logOptions(logNodes)

	for k := min; k <= max; k++ {
		for _, po := range pages {
			attempt := p
			attempt.NumSecondaries = k
			attempt.WALIncludesUndo = po.walIncludesUndo
			assemblePr := primary.New(attempt, n, po.useRbpex)
			pageSvc, ok := po.assemble(attempt, assemblePr)
			if !ok {
				continue
			}
			for _, lo := range logs {
				logSvc, ok := lo.assemble(attempt, assemblePr)
				if !ok {
					continue
				}
				a, ok := architecture.BuildDynamic(attempt, n, po.useRbpex, pageSvc, logSvc)
				if !ok {
					continue
				}
				if !a.DurabilityVal.GreaterOrEqual(attempt.RequiredDurability) {
					continue
				}
				out = append(out, Candidate{Architecture: a, Node: n})
			}
		}
	}
	return out
}

// logNodeCandidates returns the Ec2 log-node search space: the full
// Pareto set, unless the workload has no update traffic at all, in which
// case a log service is never the bottleneck and the search short-
// circuits to the single cheapest node (spec.md §4.7, S4).
func logNodeCandidates(p workload.Parameter, storageNodes []resource.Node) []resource.Node {
	if p.RequiredUpdateOps.PerSecond() > 0 || len(storageNodes) == 0 {
		return storageNodes
	}
	cheapest := storageNodes[0]
	for _, n := range storageNodes[1:] {
		if n.Price.Value < cheapest.Price.Value {
			cheapest = n
		}
	}
	return []resource.Node{cheapest}
}

// paretoStorageNodes projects the catalog to the nodes worth trying as a
// dedicated page/log server: one representative per instance class (the
// largest, by usable local storage then memory then price), then the
// subset of those not strictly dominated by another candidate on network
// read throughput, instance storage, and price simultaneously.
func paretoStorageNodes(nodes []resource.Node) []resource.Node {
	byClass := make(map[string]resource.Node, len(nodes))
	for _, n := range nodes {
		cls := n.InstanceType()
		cur, ok := byClass[cls]
		if !ok || isLargerShape(n, cur) {
			byClass[cls] = n
		}
	}

	candidates := make([]resource.Node, 0, len(byClass))
	for _, n := range byClass {
		candidates = append(candidates, n)
	}

	var kept []resource.Node
	for _, a := range candidates {
		dominated := false
		for _, b := range candidates {
			if a.Name == b.Name {
				continue
			}
			if b.Network.ReadLimit().PerSecond() > a.Network.ReadLimit().PerSecond() &&
				b.InstanceStorage.IsParetoBetter(a.InstanceStorage) &&
				b.Price.Value < a.Price.Value {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, a)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Name < kept[j].Name })
	return kept
}

func isLargerShape(a, b resource.Node) bool {
	if au, bu := a.InstanceStorage.UsableSize(), b.InstanceStorage.UsableSize(); au != bu {
		return au > bu
	}
	if a.Memory.Bytes != b.Memory.Bytes {
		return a.Memory.Bytes > b.Memory.Bytes
	}
	return a.Price.Value > b.Price.Value
}
