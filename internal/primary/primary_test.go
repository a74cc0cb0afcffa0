package primary

import (
	"math"
	"testing"

	"github.com/guimove/clusterfit/internal/quantity"
	"github.com/guimove/clusterfit/internal/resource"
	"github.com/guimove/clusterfit/internal/workload"
)

func smallNode() resource.Node {
	return resource.Node{
		Name:   "small.xlarge",
		CPU:    resource.CPU{Count: 4, SpeedHz: 2.2e9},
		Memory: resource.MemoryMiB(10 * 1024),
		Network: resource.Network{SpeedGbps: 10, Devices: 1},
		Price:  quantity.Hourly(1.0, quantity.CategoryCompute),
		InstanceStorage: resource.InstanceStorage{Type: resource.StorageNVMe, SizePerDevice: 100 * resource.GiB, Devices: 1, ReadOps: 100000, WriteOps: 50000},
		MachineEBS: resource.MachineEBSLimits{BaseIOPS: quantity.Secondly(16000), BaseThroughput: 1000 * 1024 * 1024},
	}
}

func TestPrimary_CacheProbabilitiesWithinBounds(t *testing.T) {
	p := workload.Default()
	p.DatasetSizeBytes = 10 * resource.GiB
	p.DataBloat = 1.0
	p.RequiredLookupOps = quantity.Secondly(10000)

	pr := New(p, smallNode(), false)

	if pr.ProbCacheHit() < 0 || pr.ProbCacheHit() > 1 {
		t.Errorf("ProbCacheHit() = %v, want in [0,1]", pr.ProbCacheHit())
	}
	if pr.ProbIndexCacheHit() < 0 || pr.ProbIndexCacheHit() > 1 {
		t.Errorf("ProbIndexCacheHit() = %v, want in [0,1]", pr.ProbIndexCacheHit())
	}
	if got := pr.DataInFirstCache() + pr.DataInSecondCache(); got > p.DataSize() {
		t.Errorf("DataInFirstCache+DataInSecondCache = %d, want <= dataset %d", got, p.DataSize())
	}
}

func TestPrimary_ZipfCacheHitMatchesHarmonicRatio(t *testing.T) {
	p := workload.Default()
	p.DatasetSizeBytes = 100 * resource.GiB
	p.DataBloat = 1.0
	p.UsableMemory = 1.0
	p.LookupZipf = 1.0
	p.RequiredLookupOps = quantity.Secondly(100000)
	p.RequiredUpdateOps = quantity.Zero

	node := smallNode()
	node.Memory = resource.MemoryGiB(10)

	pr := New(p, node, false)

	want := accumulatedZipf(10, 100, 1.0)
	if math.Abs(pr.ProbCacheHit()-want) > 1e-6 {
		t.Errorf("ProbCacheHit() = %v, want %v (H(10,1)/H(100,1))", pr.ProbCacheHit(), want)
	}
}

func TestPrimary_ReserveInstanceStorageFailsOverCapacity(t *testing.T) {
	pr := New(workload.Default(), smallNode(), false)
	_, ok := pr.ReserveInstanceStorage(pr.Node.InstanceStorage.UsableSize()+1, quantity.Zero, quantity.Zero)
	if ok {
		t.Error("expected reservation exceeding usable size to fail")
	}
}

func TestPrimary_ReserveInstanceStorageFailsUnderRBPEx(t *testing.T) {
	pr := New(workload.Default(), smallNode(), true)
	_, ok := pr.ReserveInstanceStorage(1, quantity.Zero, quantity.Zero)
	if ok {
		t.Error("expected any local-storage reservation to fail when RBPEx claims the whole device")
	}
}

func TestPrimary_AddEBSCapacityFailsOverMachineLimit(t *testing.T) {
	pr := New(workload.Default(), smallNode(), false)
	_, ok := pr.AddEBSCapacity(resource.FamilyGP3, 100*resource.GiB, quantity.Secondly(20000), 0, 16*1024)
	if ok {
		t.Error("expected reservation exceeding machine base IOPS to fail")
	}
}

func TestSecondaries_AvailableForLookups(t *testing.T) {
	s := Secondaries{Count: 3}
	if got := s.AvailableForLookups(); got != 2 {
		t.Errorf("AvailableForLookups() = %d, want 2", got)
	}
	zero := Secondaries{Count: 0}
	if got := zero.AvailableForLookups(); got != 0 {
		t.Errorf("AvailableForLookups() with no secondaries = %d, want 0", got)
	}
}
