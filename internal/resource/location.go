package resource

import "github.com/guimove/clusterfit/internal/quantity"

// Location latencies model one network hop at increasing distance, each as
// a {min,avg,max} triple in nanoseconds. These feed the Ec2-backed page and
// log services' op-latency budgets, which must account for crossing a
// network rather than a local bus.
var (
	SameInstanceLatency  = quantity.Flat(1_000)
	SameDatacenterLatency = quantity.NewLatency(78_000, 90_000, 116_000)
	SameRegionLatency     = quantity.NewLatency(1_500_000, 2_000_000, 2_400_000)
	OtherRegionLatency    = quantity.NewLatency(89_000_000, 90_000_000, 93_000_000)
)
