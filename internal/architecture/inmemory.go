package architecture

import (
	"github.com/guimove/clusterfit/internal/logservice"
	"github.com/guimove/clusterfit/internal/pageservice"
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

// BuildInMemory assembles the architecture where the whole dataset lives
// resident in node memory; only the redo log (no undo image) needs to
// survive a crash, and it lands on local instance storage (spec.md §4.6,
// InMemory).
func BuildInMemory(p workload.Parameter, n resource.Node) (*Architecture, bool) {
	p.WALIncludesUndo = false
	if !n.InstanceStorage.Present() {
		return nil, false
	}
	if n.Memory.Bytes < p.DataSize() {
		return nil, false
	}
	pr := primary.New(p, n, false)

	if p.RequiredOps().PerSecond() > pr.Node.CPU.GetOps(p.CPUCost).PerSecond() {
		return nil, false
	}

	recordSize := p.GetRedoLogRecordSize()
	logScalar := logWritesPerUpdateScalar(p.GroupCommit, recordSize, resource.MaxIOPSize)
	logWrites := p.RequiredUpdateOps.Scale(logScalar)
	storage := pr.Node.InstanceStorage
	if logWrites.PerSecond() > storage.GetWriteOps().PerSecond() {
		return nil, false
	}

	logSvc, ok := logservice.AssembleInstanceStorage(p, pr)
	if !ok {
		return nil, false
	}
	pageCapable, ok := pageservice.AssembleInMemory(p, n)
	if !ok {
		return nil, false
	}

	a := &Architecture{
		Type:        InMemory,
		Parameter:   p,
		Primary:     pr,
		Secondaries: primary.Secondaries{Count: p.NumSecondaries, Node: n},
		PageService: pageCapable,
		LogService:  logSvc,
	}

	cpuUpdates := pr.Node.CPU.GetOps(p.CPUCost)
	writeScale := storage.GetWriteOps().Scale(1.0 / logScalar)
	a.Updates = quantity.Min(cpuUpdates, writeScale, p.RequiredUpdateOps)
	a.Lookups = quantity.Min(cpuUpdates.Sub(a.Updates), p.RequiredLookupOps)

	pr.LogVolume = uint64(a.Updates.PerSecond() * float64(recordSize))
	a.CommitLatency = storage.WriteLatency()
	a.OpLatency = resource.MemoryReadLatency
	a.DurabilityVal = logSvc.ServiceDurability
	a.FailoverTimeVal = inMemoryFailoverTime(p, pr)

	return a, true
}

func inMemoryFailoverTime(p workload.Parameter, pr *primary.Primary) quantity.FailoverTime {
	download := quantity.FailoverTime{Seconds: float64(p.DataSize()) / pr.Node.Network.ReadLimit().PerSecond()}
	recovery := quantity.FailoverTime{Seconds: float64(p.GetRequiredLogStorage()) / (1000 * float64(resource.MiB))}
	return resource.NodeSpinupTime.Add(download).Add(recovery)
}
