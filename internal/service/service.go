// Package service defines the shared capability vocabulary that every
// page-service and log-service variant exposes (spec.md §3, §9). The
// source models these as a virtual-inheritance hierarchy; here they are a
// single tagged value type discriminated by Kind, with capability
// accessors that are meaningful (or sensibly zero/unlimited) regardless of
// variant. The combined Aurora-style page+log service is one Capabilities
// value returned from two call sites — "two borrowable views over a
// single owned value" rather than two distinct objects.
package service

import "github.com/guimove/clusterfit/internal/quantity"

// Kind discriminates which page-/log-service variant produced a
// Capabilities value.
type Kind string

const (
	KindNoop            Kind = "noop"
	KindInMemory        Kind = "in-memory"
	KindInstanceStorage Kind = "instance-storage"
	KindEBS             Kind = "ebs"
	KindS3              Kind = "s3"
	KindEc2             Kind = "ec2"
	KindCombined        Kind = "combined-aurora"
)

// Capabilities is the full capability set shared by page and log
// services. Variants populate only the fields meaningful to them; the
// rest are left at their zero value (Rate{} is zero throughput, not a
// sentinel — callers must consult the Kind to know which fields apply,
// exactly as the source dispatches on which virtual override exists).
type Capabilities struct {
	Kind Kind

	Description string
	Price       quantity.Price

	TotalSize             uint64
	WriteVolume           quantity.Rate
	ReadVolume            quantity.Rate
	IsOnRemoteObjectStore bool
	MaxIOSize             uint64

	OpLatency     quantity.Latency
	CommitLatency quantity.Latency

	PageReadOpsAvailable  quantity.Rate
	PageWriteOpsAvailable quantity.Rate
	UpdateOpsAvailable    quantity.Rate

	ServiceDurability quantity.Durability
}

// AsLogView narrows a combined page+log Capabilities value (KindCombined)
// down to what a log-service consumer may see: the page-service side
// already carries the node's price, so the log side's price is zero
// (mirrors the "two borrowable views over a single owned value" wrapper
// the source uses for its Aurora-style combined service).
func (c Capabilities) AsLogView() Capabilities {
	return Capabilities{
		Kind:               c.Kind,
		Description:        c.Description,
		Price:              quantity.Hourly(0, quantity.CategoryLogService),
		MaxIOSize:          c.MaxIOSize,
		CommitLatency:      c.CommitLatency,
		UpdateOpsAvailable: c.UpdateOpsAvailable,
		ServiceDurability:  c.ServiceDurability,
	}
}
