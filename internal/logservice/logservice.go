// Package logservice assembles the write-ahead-log half of an
// architecture (spec.md §4.5): where committed update records durably
// land, at what price, commit latency, and update-rate capacity. The
// Aurora-style combined variant lives in package pageservice
// (AssembleCombined) and is exposed here only through
// service.Capabilities.AsLogView — this package never constructs it
// itself, matching the source's CombinedPageServiceLogWrapper forwarding
// a narrow view over one owned value instead of allocating a second
// object.
package logservice

import (
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/service"
	"github.com/guimove/clusterfit/internal/workload"
)

// AssembleNoop returns the null log service: no separate log store and no
// price. (Classic keeps its log on the primary's own storage through
// AssembleInstanceStorage, not through this variant.)
func AssembleNoop() service.Capabilities {
	return service.Capabilities{Kind: service.KindNoop, Description: "no-log", Price: quantity.Hourly(0, quantity.CategoryLogService)}
}

func logWritesPerUpdate(p workload.Parameter, maxIopSize uint64) float64 {
	if p.GroupCommit {
		return float64(p.GetLogRecordSize()) / float64(maxIopSize)
	}
	return float64(resource.DivRoundUp(p.GetLogRecordSize(), maxIopSize))
}

// AssembleInstanceStorage reserves local NVMe/SSD/HDD capacity on the
// primary's own node to hold LogServiceCapacitySeconds worth of records at
// the required update rate.
func AssembleInstanceStorage(p workload.Parameter, pr *primary.Primary) (service.Capabilities, bool) {
	writes := p.GetLogWritesRequiredForUpdates(resource.MaxIOPSize)
	alloc, ok := pr.ReserveInstanceStorage(p.GetRequiredLogStorage(), quantity.Zero, writes)
	if !ok {
		return service.Capabilities{}, false
	}
	updateOps := alloc.Writes.Scale(1.0 / logWritesPerUpdate(p, resource.MaxIOPSize))

	// Durability holds as long as the node survives each month of the
	// year independently.
	availability := pr.Node.Availability().Probability
	durability := quantity.FromProbability(pow(availability, 12))

	return service.Capabilities{
		Kind:               service.KindInstanceStorage,
		Description:        "inst-stor",
		Price:              quantity.Hourly(0, quantity.CategoryLogService),
		MaxIOSize:          resource.MaxIOPSize,
		CommitLatency:      pr.Node.InstanceStorage.WriteLatency(),
		UpdateOpsAvailable: updateOps,
		ServiceDurability:  durability,
	}, true
}

// AssembleEBS synthesizes a remote-block-device volume of the given family
// sized to hold the required log storage at the required write rate.
func AssembleEBS(p workload.Parameter, pr *primary.Primary, family resource.BlockDeviceFamily) (service.Capabilities, bool) {
	writes := p.GetLogWritesRequiredForUpdates(resource.MaxIopSize)
	bandwidth := uint64(p.RequiredUpdateOps.PerSecond() * float64(p.GetLogRecordSize()))
	size := p.GetRequiredLogStorage()

	ioSize := resource.MaxIopSize
	if !p.GroupCommit {
		ioSize = p.GetLogRecordSize()
	}

	alloc, ok := pr.AddEBSCapacity(family, size, writes, bandwidth, ioSize)
	if !ok {
		return service.Capabilities{}, false
	}
	updateOps := alloc.IOPS.Scale(1.0 / logWritesPerUpdate(p, resource.MaxIopSize))
	durability := resource.FamilyDurability(family)

	return service.Capabilities{
		Kind:               service.KindEBS,
		Description:        string(family) + "-log",
		Price:              quantity.Hourly(0, quantity.CategoryLogService),
		MaxIOSize:          resource.MaxIopSize,
		UpdateOpsAvailable: updateOps,
		ServiceDurability:  durability,
	}, true
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
