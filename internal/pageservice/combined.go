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

// Combined storage-node replication factors for the Aurora-style service:
// the data itself is 3-way replicated, the log 6-way (read quorum needs
// 4 of 6; durability needs 3 of 6 alive).
const (
	combinedDataReplication = 3
	combinedLogReplication  = 6
	combinedReplication     = combinedLogReplication
)

// AssembleCombined sizes a fractional share of a dedicated multi-tenant
// storage node (AuroraLike, and the Dynamic family's combined option) that
// serves as both the page
// service and the log service: it is the model's one polymorphic value
// meant to be consumed from two call sites (page-service methods here,
// and log-service methods via Capabilities.AsLogView).
func AssembleCombined(p workload.Parameter, pr *primary.Primary, storageNode resource.Node, targetLatency quantity.Latency) (service.Capabilities, bool) {
	grossStorageSize := float64(p.DataSize()+p.IndexSize())*combinedDataReplication + float64(p.GetRequiredLogStorage())*combinedLogReplication
	// No divRoundUp here: this models a multi-tenant service, not a single
	// dedicated device.
	datasetScale := grossStorageSize / float64(storageNode.InstanceStorage.UsableSize())

	network := networkLatency(p)
	minRequiredCacheHitRate := quantity.GetRatio(targetLatency.Sub(quantity.Flat(network.AvgNS)), resource.MemoryReadLatency, storageNode.InstanceStorage.ReadLatency())
	latencyScale := (float64(p.DataSize()) * minRequiredCacheHitRate) / float64(storageNode.Memory.Bytes)

	requiredStorageWriteOps := p.RequiredUpdateOps.Scale(combinedReplication)
	networkReadScale := (requiredStorageWriteOps.PerSecond() * float64(p.GetRedoLogRecordSize())) / storageNode.Network.ReadLimit().PerSecond()

	adjustedStorageWriteOps := p.GetLogWritesRequiredForUpdates(resource.MaxIOPSize).Scale(combinedReplication)
	storageWriteScale := adjustedStorageWriteOps.PerSecond() / storageNode.InstanceStorage.GetWriteOps().PerSecond()

	iopsPerPage := resource.DivRoundUp(p.PageSize, resource.MaxIOPSize)
	// Not divided by node count: the storage layer answers requests from
	// the primary and every secondary.
	requiredPageNodeGets := p.RequiredOps().Scale(pr.ProbCacheMiss() + pr.ProbIndexCacheMiss())
	diskOps := storageNode.InstanceStorage.GetReadOps().Scale(1.0 / float64(iopsPerPage))
	memSize := float64(storageNode.Memory.Bytes)
	iopsScale := (requiredPageNodeGets.PerSecond() * float64(p.DataSize())) /
		(diskOps.PerSecond()*float64(p.DataSize()) + requiredPageNodeGets.PerSecond()*memSize)

	networkWriteScale := requiredPageNodeGets.PerSecond() / (storageNode.Network.WriteLimit().PerSecond() / float64(p.PageSize))

	fraction := scale.MaxAfter(datasetScale, networkReadScale, storageWriteScale, networkWriteScale, iopsScale, latencyScale)

	cacheMiss := ec2CacheMiss(p.DataSize(), fraction, storageNode.Memory.Bytes)

	durability := quantity.CalculateFromMTTR(combinedReplication, storageNode.Availability().Probability, 10, 3)

	var commitNetwork quantity.Latency
	if p.DeployAcrossAZ {
		commitNetwork = quantity.Flat(resource.SameRegionLatency.MaxNS)
	} else {
		commitNetwork = quantity.Flat(resource.SameDatacenterLatency.MaxNS)
	}
	commitLatency := commitNetwork.Add(storageNode.InstanceStorage.WriteLatency())

	pageAccess := quantity.Combine(
		quantity.WeightedLatency{Weight: cacheMiss, Latency: storageNode.InstanceStorage.ReadLatency()},
		quantity.WeightedLatency{Weight: 1 - cacheMiss, Latency: resource.MemoryReadLatency},
	)
	opLatency := network.Add(pageAccess)

	var storageWritesPerUpdate float64
	if p.GroupCommit {
		storageWritesPerUpdate = float64(p.GetLogRecordSize()) / float64(resource.MaxIOPSize)
	} else {
		storageWritesPerUpdate = float64(resource.DivRoundUp(p.GetLogRecordSize(), resource.MaxIOPSize))
	}
	possibleStorageWrites := storageNode.InstanceStorage.GetWriteOps().Scale(fraction)
	storageWrites := possibleStorageWrites.Scale(1.0 / storageWritesPerUpdate)
	networkReads := storageNode.Network.ReadLimit().Scale(fraction / float64(p.GetLogRecordSize()))
	updateOps := quantity.Min(storageWrites, networkReads).Scale(1.0 / combinedReplication)

	storageReads := storageNode.InstanceStorage.GetReadOps().Scale(fraction / float64(iopsPerPage) / cacheMiss)
	networkWrites := storageNode.Network.WriteLimit().Scale(fraction / float64(p.PageSize))
	pageReadOps := quantity.Min(storageReads, networkWrites)

	return service.Capabilities{
		Kind:                  service.KindCombined,
		Description:           fmt.Sprintf("comb-p+l(%.2gx%s)", fraction, storageNode.Name),
		Price:                 quantity.Hourly(fraction*storageNode.Price.Value, quantity.CategoryPageService),
		TotalSize:             uint64(fraction * float64(storageNode.InstanceStorage.UsableSize())),
		PageReadOpsAvailable:  pageReadOps,
		PageWriteOpsAvailable: quantity.Unlimited, // no write-back of materialized pages
		OpLatency:             opLatency,
		CommitLatency:         commitLatency,
		MaxIOSize:             resource.MaxIOPSize,
		UpdateOpsAvailable:    updateOps,
		ServiceDurability:     durability,
	}, true
}
