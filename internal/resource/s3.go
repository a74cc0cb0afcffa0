package resource

import "github.com/guimove/clusterfit/internal/quantity"

// S3 models an object-store tier: unlimited capacity, request-priced,
// tiered per-GB storage cost, fixed ~30ms-class latency (not modeled here
// directly; callers add a fixed network hop latency instead).
type S3 struct{}

const (
	s3First50TBPerGB = 0.023
	s3Next450TBPerGB = 0.022
	s3Over500TBPerGB = 0.021

	s3PutPricePerThousand = 0.005
	s3GetPricePerThousand = 0.0004
)

// S3Durability is S3's documented eleven-nines durability.
var S3Durability = quantity.FromNines(11)

// StorageCost returns the monthly-equivalent hourly storage price for
// sizeBytes stored in S3, applying the tiered per-GB rate at the 50TB and
// 500TB boundaries (spec.md §8 scenario S5).
func (S3) StorageCost(sizeBytes uint64) quantity.Price {
	const tb = TiB
	gib := float64(sizeBytes) / float64(GiB)

	tier1 := 50 * 1024.0 // GiB in 50TiB
	tier2 := 500 * 1024.0

	var monthly float64
	switch {
	case gib <= tier1:
		monthly = gib * s3First50TBPerGB
	case gib <= tier2:
		monthly = tier1*s3First50TBPerGB + (gib-tier1)*s3Next450TBPerGB
	default:
		monthly = tier1*s3First50TBPerGB + (tier2-tier1)*s3Next450TBPerGB + (gib-tier2)*s3Over500TBPerGB
	}
	_ = tb
	return quantity.Hourly(monthly/730.0, quantity.CategoryS3)
}

// PutPrice and GetPrice are per-request prices for PUT/GET operations.
func (S3) PutPrice() quantity.Price { return quantity.PerRequestPrice(s3PutPricePerThousand/1000.0, quantity.CategoryS3) }
func (S3) GetPrice() quantity.Price { return quantity.PerRequestPrice(s3GetPricePerThousand/1000.0, quantity.CategoryS3) }

// TotalSize reports S3 as effectively unlimited.
func (S3) TotalSize() uint64 { return ^uint64(0) }
