// Package architecture computes the closed-form feasibility and
// performance figures for one candidate deployment of a workload onto a
// node shape (spec.md §4.6). The source models the seven families as a
// class hierarchy under a common Architecture base with virtual getters;
// here every family's constructor returns the same Architecture value,
// tagged by Type, with the fields a would-be override would have
// returned populated directly.
package architecture

import (
	"github.com/guimove/clusterfit/internal/primary"
	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/service"
	"github.com/guimove/clusterfit/internal/workload"
)

// Type names one of the seven architecture families.
type Type uint8

const (
	Classic Type = iota
	HADR         // Log shipping directly to secondaries.
	RemoteBlockDevice
	InMemory
	AuroraLike   // No dirty-page writing; only the redo log goes to page servers.
	SocratesLike // Dirty-page writing only for cache warmth; log goes to a dedicated service.
	Dynamic
)

// String returns the family's lowercase display name.
func (t Type) String() string {
	switch t {
	case Classic:
		return "classic"
	case HADR:
		return "hadr"
	case RemoteBlockDevice:
		return "rbd"
	case InMemory:
		return "inmem"
	case AuroraLike:
		return "aurora"
	case SocratesLike:
		return "socrates"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Architecture is one fully-assembled, feasible candidate: a primary node,
// its secondaries, the page/log services backing it, and the derived
// throughput/latency/durability/cost figures the ranking stage compares
// candidates on.
type Architecture struct {
	Type       Type
	Parameter  workload.Parameter
	Primary    *primary.Primary
	Secondaries primary.Secondaries

	PageService service.Capabilities
	LogService  service.Capabilities

	// Achieved throughput, after solving for the bottleneck resource.
	Updates    quantity.Rate
	Lookups    quantity.Rate
	SecLookups quantity.Rate

	OpLatency     quantity.Latency
	CommitLatency quantity.Latency

	S3StorageBytes uint64
	S3GETRate      quantity.Rate
	S3PUTRate      quantity.Rate
	InterAZTraffic uint64

	DurabilityVal   quantity.Durability
	FailoverTimeVal quantity.FailoverTime

	cachedPrice *quantity.Price
}

// RandomLookupTx is the total achieved lookup rate across the primary and
// any secondaries serving reads.
func (a *Architecture) RandomLookupTx() quantity.Rate {
	return a.Lookups.Add(a.SecLookups)
}

// RandomUpdateTx is the achieved update rate.
func (a *Architecture) RandomUpdateTx() quantity.Rate { return a.Updates }

// TotalPrice sums every cost contribution, memoized after first call
// exactly as the source caches its computed total.
func (a *Architecture) TotalPrice() quantity.Price {
	if a.cachedPrice != nil {
		return *a.cachedPrice
	}
	price := a.Primary.Price()
	price = price.Add(a.Primary.EBSPrice())
	price = price.Add(a.Secondaries.Price())
	// Secondaries always carry the same EBS devices as the primary.
	price = price.Add(quantity.Hourly(float64(a.Secondaries.Count)*a.Primary.EBSPrice().Value, quantity.CategoryEBS))
	price = price.Add(a.PageService.Price)
	if a.PageService.Kind != service.KindCombined {
		price = price.Add(a.LogService.Price)
	}
	price = price.Add(a.NetworkPrice())
	price = price.Add(a.S3Price())

	a.cachedPrice = &price
	return price
}

// NetworkPrice is the hourly cost of sustaining InterAZTraffic bytes/sec of
// cross-AZ transfer.
func (a *Architecture) NetworkPrice() quantity.Price {
	gibPerSec := float64(a.InterAZTraffic) / float64(resource.GiB)
	return quantity.Hourly(gibPerSec*resource.InterAZCostPerGiBSecondHourly, quantity.CategoryNetwork)
}

// S3Price is the hourly storage cost of S3StorageBytes plus the GET/PUT
// request cost of S3GETRate/S3PUTRate.
func (a *Architecture) S3Price() quantity.Price {
	s3 := resource.S3{}
	price := s3.StorageCost(a.S3StorageBytes)
	if !a.S3GETRate.IsUnlimited() && a.S3GETRate.PerSecond() > 0 {
		price = price.Add(s3.GetPrice().TimesRate(a.S3GETRate))
	}
	if !a.S3PUTRate.IsUnlimited() && a.S3PUTRate.PerSecond() > 0 {
		price = price.Add(s3.PutPrice().TimesRate(a.S3PUTRate))
	}
	return price
}

// interAZRatioTraffic scales a byte/sec traffic figure by the fraction of
// it that crosses an availability zone, per GetRemoteAZRatio.
func interAZRatioTraffic(p workload.Parameter, bytesPerSec float64) uint64 {
	return uint64(bytesPerSec * p.GetRemoteAZRatio())
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
