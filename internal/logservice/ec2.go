package logservice

import (
	"fmt"

	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/scale"
	"github.com/guimove/clusterfit/internal/service"
	"github.com/guimove/clusterfit/internal/workload"
)

// computeScale returns the fraction of logNode that logTargets replicas'
// worth of log traffic would require, or 0 if there are no updates to log
// at all.
func computeScale(p workload.Parameter, logNode resource.Node, logTargets uint) float64 {
	if p.RequiredUpdateOps.PerSecond() == 0 {
		return 0.0
	}

	storageScale := float64(p.GetRequiredLogStorage()) * ec2LogReplication / float64(logNode.InstanceStorage.UsableSize())

	// The log node must be able to receive all writes via the network.
	networkReadScale := (p.RequiredUpdateOps.PerSecond() * ec2LogReplication) / (logNode.Network.ReadLimit().PerSecond() / float64(p.GetLogRecordSize()))

	// Log records need not be written instantly but the node must sustain
	// the aggregate write throughput.
	logVolumeWriteScale := (p.RequiredUpdateOps.PerSecond() * ec2LogReplication * float64(p.GetLogRecordSize())) / float64(logNode.InstanceStorage.GetWriteThroughput())
	logNetworkWriteScale := (p.RequiredUpdateOps.PerSecond() * float64(p.GetLogRecordSize()) * float64(logTargets)) / logNode.Network.WriteLimit().PerSecond()

	return scale.MaxAfter(storageScale, networkReadScale, logVolumeWriteScale, logNetworkWriteScale)
}

// ec2LogReplication is the fixed replication factor this log-service
// variant always assumes (scaling across more than one log node is not
// modeled).
const ec2LogReplication = 1.0

// AssembleEc2 synthesizes an io2 EBS volume of the required log-storage
// size to hold the log and sizes a fraction of a dedicated log-service node to stream
// writes to numSecondaries+replication consumers. Fails if the required
// fraction would exceed a single node (scaling the log service across more
// than one node is not modeled).
func AssembleEc2(p workload.Parameter, pr *primary.Primary, logNode resource.Node, replication uint) (service.Capabilities, bool) {
	writes := p.GetLogWritesRequiredForUpdates(resource.MaxIopSize)
	throughput := uint64(p.RequiredUpdateOps.PerSecond() * float64(p.GetLogRecordSize()))
	size := p.GetRequiredLogStorage()

	ioSize := resource.MaxIopSize
	if !p.GroupCommit {
		ioSize = p.GetLogRecordSize()
	}

	// Conceptually the EBS device belongs to the log service, but
	// physically it is attached to the primary.
	alloc, ok := pr.AddEBSCapacity(resource.FamilyIO2, size, writes, throughput, ioSize)
	if !ok {
		return service.Capabilities{}, false
	}

	logTargets := p.NumSecondaries + replication
	fraction := computeScale(p, logNode, logTargets)
	if fraction > 1.0 {
		return service.Capabilities{}, false
	}

	logicalRecordSize := float64(p.GetLogRecordSize())
	storageWriteVolume := quantity.Secondly(float64(logNode.InstanceStorage.GetWriteThroughput()) * fraction / logicalRecordSize)
	networkReads := logNode.Network.ReadLimit().Scale(fraction / logicalRecordSize)
	networkWrites := logNode.Network.WriteLimit().Scale(fraction / logicalRecordSize / float64(logTargets))
	deviceThroughput := quantity.Secondly(float64(alloc.Bandwidth) / logicalRecordSize)

	updateOps := quantity.Min(storageWriteVolume, networkReads, networkWrites, deviceThroughput)
	if !p.GroupCommit {
		// Each commit is a separate device IOP without group commit.
		updateOps = quantity.Min(updateOps, alloc.IOPS)
	}

	return service.Capabilities{
		Kind:               service.KindEc2,
		Description:        fmt.Sprintf("%.2gx%s", fraction, logNode.Name),
		Price:              quantity.Hourly(fraction*logNode.Price.Value, quantity.CategoryLogService),
		MaxIOSize:          resource.MaxIopSize,
		CommitLatency:      resource.RemoteWriteLatency,
		UpdateOpsAvailable: updateOps,
		ServiceDurability:  resource.FamilyDurability(alloc.Family),
	}, true
}
