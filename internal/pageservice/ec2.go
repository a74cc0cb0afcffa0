package pageservice

import (
	"fmt"

	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/scale"
	"github.com/guimove/clusterfit/internal/service"
	"github.com/guimove/clusterfit/internal/workload"
)

// networkLatency returns the blended same-AZ/cross-AZ network hop latency
// a page request to a dedicated page-service node incurs.
func networkLatency(p workload.Parameter) quantity.Latency {
	return quantity.Combine(
		quantity.WeightedLatency{Weight: p.GetSameAZRatio(), Latency: resource.SameDatacenterLatency},
		quantity.WeightedLatency{Weight: p.GetRemoteAZRatio(), Latency: resource.SameRegionLatency},
	)
}

// AssembleEc2 sizes a fractional share of a dedicated page-service node
// (SocratesLike) to simultaneously satisfy five independent scale factors:
// raw storage capacity, inbound network for redo-log shipping, outbound
// network for serving reads, local-storage IOPS, and memory deep enough to
// hit the target op latency. pageNode is the candidate instance type;
// useRbpex additionally lets the node's local storage back a cache
// extension behind its memory.
func AssembleEc2(p workload.Parameter, pr *primary.Primary, pageNode resource.Node, targetLatency quantity.Latency, replication uint, useRbpex bool) (service.Capabilities, bool) {
	if pageNode.InstanceStorage.Devices <= 0 {
		panic("pageservice: Ec2 page node must have local storage")
	}
	repl := float64(replication)

	rbpexBytes := 0.0
	if useRbpex {
		rbpexBytes = float64(pageNode.Memory.Bytes)
	}
	storageScale := (repl * float64(p.DataSize())) / (float64(pageNode.InstanceStorage.UsableSize()) + rbpexBytes)

	// A page server reads a log record from the network for every log
	// record that gets applied.
	networkReadScale := (p.RequiredUpdateOps.PerSecond() * repl * float64(p.GetLogRecordSize())) / pageNode.Network.ReadLimit().PerSecond()

	// Latency is unaffected by rbpex: a good implementation moves disk
	// writes off the hot path, so cache misses still only pay storage read
	// latency.
	network := networkLatency(p)
	minRequiredCacheHitRate := quantity.GetRatio(targetLatency.Sub(quantity.Flat(network.AvgNS)), resource.MemoryReadLatency, pageNode.InstanceStorage.ReadLatency())
	memoryScaleForLatency := (repl * float64(p.DataSize()) * minRequiredCacheHitRate) / float64(pageNode.Memory.Bytes)

	iopsPerPage := resource.DivRoundUp(p.PageSize, resource.MaxIOPSize)
	requiredPageNodeGets := p.RequiredOps().Scale(pr.ProbCacheMiss())
	networkWriteScale := requiredPageNodeGets.PerSecond() / (pageNode.Network.WriteLimit().PerSecond() / float64(p.PageSize))

	writeOps := pageNode.InstanceStorage.GetWriteOps().Scale(1.0 / float64(iopsPerPage))
	readOps := pageNode.InstanceStorage.GetReadOps().Scale(1.0 / float64(iopsPerPage))
	diskOps := readOps
	if useRbpex {
		diskOps = quantity.Min(writeOps, readOps)
	}
	iopsScale := (requiredPageNodeGets.PerSecond() * float64(p.DataSize())) /
		(diskOps.PerSecond()*float64(p.DataSize()) + requiredPageNodeGets.PerSecond()*float64(pageNode.Memory.Bytes))

	fraction := scale.MaxAfter(storageScale, networkReadScale, networkWriteScale, iopsScale, memoryScaleForLatency)

	cacheMiss := ec2CacheMiss(p.DataSize(), fraction, pageNode.Memory.Bytes)
	pageAccess := quantity.Combine(
		quantity.WeightedLatency{Weight: cacheMiss, Latency: pageNode.InstanceStorage.ReadLatency()},
		quantity.WeightedLatency{Weight: 1 - cacheMiss, Latency: resource.MemoryReadLatency},
	)
	opLatency := quantity.Flat(network.AvgNS).Add(pageAccess)

	diskReads := pageNode.InstanceStorage.GetReadOps().Scale(fraction / float64(iopsPerPage))
	diskWrites := pageNode.InstanceStorage.GetWriteOps().Scale(fraction / float64(iopsPerPage))
	readLimitOps := diskReads
	if useRbpex {
		readLimitOps = quantity.Min(diskReads, diskWrites)
	}
	var pageNodeStorageLimit quantity.Rate
	if cacheMiss > 0 {
		pageNodeStorageLimit = readLimitOps.Scale(1.0 / cacheMiss)
	} else {
		pageNodeStorageLimit = quantity.Unlimited
	}
	pageNodeNetworkOutLimit := pageNode.Network.WriteLimit().Scale(fraction / float64(p.PageSize))

	desc := fmt.Sprintf("%.2gx%s", fraction, pageNode.Name)
	if useRbpex {
		desc += "-rbpex"
	}

	totalSize := uint64(fraction * (float64(pageNode.InstanceStorage.UsableSize()) + rbpexBytes))

	return service.Capabilities{
		Kind:                  service.KindEc2,
		Description:           desc,
		Price:                 quantity.Hourly(fraction*pageNode.Price.Value, quantity.CategoryPageService),
		TotalSize:             totalSize,
		PageReadOpsAvailable:  quantity.Min(pageNodeStorageLimit, pageNodeNetworkOutLimit),
		PageWriteOpsAvailable: quantity.Unlimited, // no write-back of materialized pages
		OpLatency:             opLatency,
	}, true
}

func ec2CacheMiss(dataSize uint64, fraction float64, memBytes uint64) float64 {
	dataInCache := uint64(fraction * float64(memBytes))
	if dataInCache > dataSize {
		dataInCache = dataSize
	}
	return float64(dataSize-dataInCache) / float64(dataSize)
}
