// Package workload defines the immutable input parameter describing the
// dataset, target workload, and deployment knobs an architecture is
// assembled against.
package workload

import "github.com/guimove/clusterfit/internal/quantity"

// Parameter is the immutable description of what an architecture must
// sustain. It is copied by value into every Architecture.
type Parameter struct {
	DatasetSizeBytes uint64
	DataBloat        float64 // index-only vs table+index growth factor
	UsableMemory     float64 // fraction of node memory usable as cache
	NetworkOverhead  float64 // protocol/framing overhead fraction

	RequiredLookupOps quantity.Rate
	LookupZipf        float64 // 0 disables Zipf (uniform cache-hit model)
	RequiredUpdateOps quantity.Rate

	TupleSize uint64
	PageSize  uint64
	CPUCost   uint64 // cycles per op

	MinSecondaries uint
	MaxSecondaries uint

	// NumSecondaries is set per-attempt by the enumerator as it walks
	// MinSecondaries..MaxSecondaries; it is not a dataset-wide constant.
	NumSecondaries uint

	IntraAZLatencyNS float64
	InterAZLatencyNS float64
	EC2Discount      float64
	NumberOfAZs      uint

	LogServiceCapacitySeconds uint64
	LogServiceReplication     uint64
	LogRecordHeaderSize       uint64

	PageServerReplication uint
	GroupCommit           bool
	DeployAcrossAZ        bool
	WALIncludesUndo       bool
	IndexOnlyTables       bool

	RequiredOpLatency quantity.Latency
	RequiredDurability quantity.Durability
}

// RequiredOps returns the sum of required lookup and update rates.
func (p Parameter) RequiredOps() quantity.Rate {
	return p.RequiredLookupOps.Add(p.RequiredUpdateOps)
}

// NumTuples returns the dataset's tuple count.
func (p Parameter) NumTuples() uint64 {
	if p.TupleSize == 0 {
		return 0
	}
	return p.DatasetSizeBytes / p.TupleSize
}

// RequiredOpsPerNode returns the per-node op rate an individual page/log
// service node must sustain: all updates, plus lookups spread evenly
// across however many secondaries are serving reads this attempt (the
// primary itself always counts as one of the servers).
func (p Parameter) RequiredOpsPerNode() quantity.Rate {
	if p.NumSecondaries > 1 {
		return p.RequiredUpdateOps.Add(p.RequiredLookupOps.Scale(1.0 / float64(p.NumSecondaries)))
	}
	return p.RequiredUpdateOps.Add(p.RequiredLookupOps)
}

// GetRedoLogRecordSize returns the size of a redo-only log record: header
// plus tuple.
func (p Parameter) GetRedoLogRecordSize() uint64 {
	return p.TupleSize + p.LogRecordHeaderSize
}

// GetAriesLogRecordSize returns the size of a full ARIES-style log record
// that also carries the undo image: header plus two tuple copies.
func (p Parameter) GetAriesLogRecordSize() uint64 {
	return 2*p.TupleSize + p.LogRecordHeaderSize
}

// GetLogRecordSize dispatches between the redo-only and ARIES record sizes
// depending on WALIncludesUndo.
func (p Parameter) GetLogRecordSize() uint64 {
	if p.WALIncludesUndo {
		return p.GetAriesLogRecordSize()
	}
	return p.GetRedoLogRecordSize()
}

func (p Parameter) getRequiredLogStorageImpl(logRecordSize uint64) uint64 {
	return uint64(p.RequiredUpdateOps.PerSecond() * float64(p.LogServiceCapacitySeconds) * float64(logRecordSize))
}

// GetRequiredRedoLogStorage returns the log-service capacity needed to hold
// LogServiceCapacitySeconds worth of redo-only records at the required
// update rate.
func (p Parameter) GetRequiredRedoLogStorage() uint64 {
	return p.getRequiredLogStorageImpl(p.GetRedoLogRecordSize())
}

// GetRequiredAriesLogStorage is the ARIES-record equivalent of
// GetRequiredRedoLogStorage.
func (p Parameter) GetRequiredAriesLogStorage() uint64 {
	return p.getRequiredLogStorageImpl(p.GetAriesLogRecordSize())
}

// GetRequiredLogStorage dispatches between the redo and ARIES log storage
// sizes depending on WALIncludesUndo.
func (p Parameter) GetRequiredLogStorage() uint64 {
	if p.WALIncludesUndo {
		return p.GetRequiredAriesLogStorage()
	}
	return p.GetRequiredRedoLogStorage()
}

// GetLogWritesRequiredForUpdates returns the log-write op rate needed to
// cover the required update rate, given a maximum single-IOP size. With
// group commit several records share one IOP (size is amortized); without
// it each update needs its own ceil'd IOP count.
func (p Parameter) GetLogWritesRequiredForUpdates(maxIopSize uint64) quantity.Rate {
	recordSize := p.GetLogRecordSize()
	if p.GroupCommit {
		return p.RequiredUpdateOps.Scale(float64(recordSize) / float64(maxIopSize))
	}
	iopsPerRecord := (recordSize + maxIopSize - 1) / maxIopSize
	return p.RequiredUpdateOps.Scale(float64(iopsPerRecord))
}

// GetRemoteAZRatio is the fraction of traffic that crosses an AZ boundary
// when deployed across NumberOfAZs availability zones.
func (p Parameter) GetRemoteAZRatio() float64 {
	if !p.DeployAcrossAZ {
		return 0.0
	}
	return (float64(p.NumberOfAZs) - 1.0) / float64(p.NumberOfAZs)
}

// GetSameAZRatio is the complement of GetRemoteAZRatio.
func (p Parameter) GetSameAZRatio() float64 {
	if !p.DeployAcrossAZ {
		return 1.0
	}
	return 1.0 / float64(p.NumberOfAZs)
}

// DataSize returns the dataset size after applying DataBloat — the
// on-disk/in-cache footprint of the data itself, independent of any
// separate index structure.
func (p Parameter) DataSize() uint64 {
	return uint64(float64(p.DatasetSizeBytes) * p.DataBloat)
}

// IndexSize returns the separate index footprint: zero for index-only
// (single clustered b-tree) layouts, else a fixed per-tuple entry size.
func (p Parameter) IndexSize() uint64 {
	if p.IndexOnlyTables {
		return 0
	}
	return p.NumTuples() * 20
}

// Default returns a Parameter with the same defaults as the original
// model: index-only tables, group commit enabled, 6-way log replication,
// 2-way page-server replication, 3 AZs.
func Default() Parameter {
	return Parameter{
		DataBloat:                 1.4,
		UsableMemory:              0.9,
		NetworkOverhead:           1.05,
		TupleSize:                 100,
		PageSize:                  8192,
		CPUCost:                   4000,
		MinSecondaries:            0,
		MaxSecondaries:            5,
		IntraAZLatencyNS:          500_000,
		InterAZLatencyNS:          2_000_000,
		EC2Discount:               0,
		NumberOfAZs:               3,
		LogServiceCapacitySeconds: 3600,
		LogServiceReplication:     6,
		LogRecordHeaderSize:       48,
		PageServerReplication:     2,
		GroupCommit:               true,
		DeployAcrossAZ:            false,
		WALIncludesUndo:           false,
		IndexOnlyTables:           true,
		RequiredDurability:        quantity.FromNines(6),
	}
}
